// Filewren - interactive LLM assistant for refactoring and managing files
// License: MIT

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/filewren/filewren/pkg/agent"
	"github.com/filewren/filewren/pkg/config"
	"github.com/filewren/filewren/pkg/convstore"
	"github.com/filewren/filewren/pkg/logger"
	"github.com/filewren/filewren/pkg/pathutil"
	"github.com/filewren/filewren/pkg/providers"
	"github.com/filewren/filewren/pkg/tools"
)

var (
	flagPath  string
	flagLoad  string
	flagDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "filewren",
	Short: "Interactive LLM assistant for refactoring and managing files",
	Long: "Filewren is an interactive command-line assistant. The model can read, " +
		"diff and edit files, search and organize directories, and inspect the git " +
		"repository through function-calling tools, always sandboxed to the session's " +
		"base directory.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession()
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagPath, "path", "", "focus directory for this session")
	rootCmd.Flags().StringVar(&flagLoad, "load", "", "resume a saved conversation by name")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

func runSession() error {
	if flagDebug {
		logger.SetLevel(logger.DEBUG)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if cfg.LogFile != "" {
		if err := logger.EnableFileLogging(cfg.LogFile); err != nil {
			logger.WarnCF("main", "Could not enable file logging", map[string]any{"error": err.Error()})
		}
	}
	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: OPENROUTER_API_KEY environment variable is not set.")
		os.Exit(1)
	}

	scope, err := pathutil.NewScope(flagPath)
	if err != nil {
		logger.WarnCF("main", "Invalid focus path, continuing without focus", map[string]any{
			"path":  flagPath,
			"error": err.Error(),
		})
		scope, err = pathutil.NewScope("")
		if err != nil {
			return err
		}
	}

	registry := tools.NewRegistry()
	registry.Discover(scope, tools.DefaultFactories())

	provider := providers.NewOpenRouterProvider(
		cfg.APIKey, cfg.BaseURL, cfg.Model,
		providers.WithRequestTimeout(cfg.RequestTimeout()),
		providers.WithRateLimit(cfg.RequestsPerMinute),
	)
	store := convstore.NewStore(scope, cfg.Model)

	session := agent.New(cfg, provider, registry, scope, store, os.Stdout)
	session.OnWait = func(label string) func() {
		s := newSpinner(label)
		s.Start()
		return s.Stop
	}

	if flagLoad != "" {
		if err := session.Load(flagLoad); err != nil {
			logger.WarnCF("main", "Could not resume conversation", map[string]any{
				"name":  flagLoad,
				"error": err.Error(),
			})
		}
	}

	printBanner(cfg, scope, registry)
	runREPL(session)
	return nil
}

func printBanner(cfg *config.Config, scope *pathutil.Scope, registry *tools.Registry) {
	title := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	title.Println("Filewren interactive assistant")
	dim.Printf("model: %s\n", cfg.Model)
	if focus := scope.Focus(); focus != "" {
		dim.Printf("focus: %s\n", focus)
	}
	fmt.Println()

	fmt.Printf("Available tools (%d):\n", registry.Count())
	for _, summary := range registry.Summaries() {
		fmt.Printf("  %-30s %s\n", summary[0], truncate(summary[1], 80))
	}
	fmt.Println()
	dim.Println("Commands: exit/quit, save [name], load <name>, clear, help")
	fmt.Println()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
