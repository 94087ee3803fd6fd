package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankimcp/ankimcp/internal/anki"
	"github.com/ankimcp/ankimcp/internal/query"
)

var (
	dueDeck string
	dueDays int
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Count cards due for review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if dueDays < 0 {
			return fmt.Errorf("--days must be non-negative")
		}

		client := anki.New(&anki.Config{URL: cfg.URL, RateLimit: cfg.RateLimit})
		defer client.Close()

		q, err := query.Due(dueDeck, dueDays)
		if err != nil {
			return err
		}
		ids, err := client.FindCards(cmd.Context(), q)
		if err != nil {
			return err
		}

		scope := "across all decks"
		if dueDeck != "" {
			scope = fmt.Sprintf("in deck '%s'", dueDeck)
		}
		when := "today"
		if dueDays > 0 {
			when = fmt.Sprintf("within %d days", dueDays)
		}
		fmt.Printf("%d cards due %s %s.\n", len(ids), when, scope)
		return nil
	},
}

func init() {
	dueCmd.Flags().StringVar(&dueDeck, "deck", "", "only count cards in this deck")
	dueCmd.Flags().IntVar(&dueDays, "days", 0, "include cards due up to this many days ahead")
	rootCmd.AddCommand(dueCmd)
}
