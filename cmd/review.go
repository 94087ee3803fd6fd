package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ankimcp/ankimcp/internal/anki"
	"github.com/ankimcp/ankimcp/internal/review"
)

var (
	reviewDeck  string
	reviewLimit int
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review due cards interactively in the terminal",
	Long: `Review due cards interactively: reveal each answer with space or enter,
then rate it 1 (wrong) through 4 (easy). Ratings are submitted to Anki in a
single batch when the session ends.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		limit := reviewLimit
		if limit < 1 {
			limit = cfg.ReviewLimit
		}

		client := anki.New(&anki.Config{URL: cfg.URL, RateLimit: cfg.RateLimit})
		defer client.Close()

		return review.Run(cmd.Context(), client, reviewDeck, limit)
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewDeck, "deck", "", "only review cards in this deck")
	reviewCmd.Flags().IntVar(&reviewLimit, "limit", 0, "maximum cards per session (defaults to review_limit from config)")
	rootCmd.AddCommand(reviewCmd)
}
