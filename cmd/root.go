package cmd

import (
	"fmt"
	"os"

	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ankimcp/ankimcp/internal/config"
	"github.com/ankimcp/ankimcp/internal/log"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "ankimcp",
	Short: "MCP server bridging LLM agents to Anki via AnkiConnect",
	Long: `ankimcp exposes a set of flashcard tools over the Model Context Protocol
so an LLM host can list decks, fetch due cards, submit review ratings and
create notes through the AnkiConnect add-on.

Running ankimcp without a subcommand starts the stdio server.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to serving over stdio, matching how MCP hosts launch us.
		return runServe()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (error, warn, info, debug)")
}

// loadConfig reads ankimcp.toml (optional) and applies logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		if err := log.SetLevel(parsed); err != nil {
			return nil, err
		}
	}

	log.Debug("configuration loaded", slog.String("url", cfg.URL))
	return cfg, nil
}
