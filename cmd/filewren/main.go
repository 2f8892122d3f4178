// Filewren - interactive LLM assistant for refactoring and managing files
// License: MIT

package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
