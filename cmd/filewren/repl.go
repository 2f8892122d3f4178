// Filewren - interactive LLM assistant for refactoring and managing files
// License: MIT

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/filewren/filewren/pkg/agent"
)

var (
	errColor     = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
)

// runREPL drives the interactive session. Readline provides line editing and
// persistent history; when it cannot initialize (e.g. no tty) a plain
// buffered reader takes over.
func runREPL(session *agent.Agent) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "You: ",
		HistoryFile:     filepath.Join(os.TempDir(), ".filewren_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("Error initializing readline: %v\n", err)
		fmt.Println("Falling back to simple input mode...")
		simpleREPL(session)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye!")
				return
			}
			errColor.Printf("Error reading input: %v\n", err)
			continue
		}

		if done := handleLine(session, line); done {
			return
		}
	}
}

func simpleREPL(session *agent.Agent) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("You: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			return
		}
		if done := handleLine(session, line); done {
			return
		}
	}
}

// handleLine dispatches one input line; it returns true when the session
// should end.
func handleLine(session *agent.Agent, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	command, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch command {
	case "exit", "quit":
		fmt.Println("Goodbye!")
		return true

	case "save":
		path, err := session.Save(rest)
		if err != nil {
			errColor.Printf("Error saving conversation: %v\n", err)
			return false
		}
		successColor.Printf("Conversation saved to: %s\n", path)
		return false

	case "load":
		if rest == "" {
			errColor.Println("Usage: load <name>")
			return false
		}
		if err := session.Load(rest); err != nil {
			errColor.Printf("Error loading conversation: %v\n", err)
			return false
		}
		successColor.Printf("Conversation loaded: %s (%d messages)\n", rest, len(session.History()))
		return false

	case "clear":
		session.Clear()
		successColor.Println("Conversation cleared.")
		return false

	case "help":
		printHelp()
		return false
	}

	if err := session.ProcessTurn(context.Background(), input); err != nil {
		errColor.Printf("Error: %v\n", err)
	}
	return false
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  exit, quit     end the session")
	fmt.Println("  save [name]    save the conversation (auto-named when omitted)")
	fmt.Println("  load <name>    load a previously saved conversation")
	fmt.Println("  clear          reset the conversation history")
	fmt.Println("  help           show this help")
	fmt.Println("Anything else is sent to the assistant.")
}
