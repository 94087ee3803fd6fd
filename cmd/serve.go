package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ankimcp/ankimcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Run the MCP server over stdio. This is what an LLM host launches; all
logging goes to stderr so stdout stays clean for the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return server.New(cfg).ServeStdio()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
