package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ankimcp/ankimcp/internal/anki"
	"github.com/ankimcp/ankimcp/internal/log"
)

var decksShowExcluded bool

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	faintStyle = lipgloss.NewStyle().Faint(true)
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List decks and note types from the running Anki instance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := anki.New(&anki.Config{URL: cfg.URL, RateLimit: cfg.RateLimit})
		defer client.Close()
		ctx := cmd.Context()

		decks, err := client.DeckNames(ctx)
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render("Decks"))
		for _, deck := range decks {
			if cfg.Excluded(deck) && !decksShowExcluded {
				continue
			}
			line := itemStyle.Render(deck)
			if cfg.Excluded(deck) {
				line += faintStyle.Render("  (excluded)")
			}
			fmt.Println(line)
		}

		models, err := client.ModelNames(ctx)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(titleStyle.Render("Note types"))
		for _, model := range models {
			if cfg.Excluded(model) && !decksShowExcluded {
				continue
			}
			fields, err := client.ModelFieldNames(ctx, model)
			if err != nil {
				log.Warn("could not get fields", "model", model, "error", err.Error())
				continue
			}
			fmt.Println(itemStyle.Render(fmt.Sprintf("%s %s", model, faintStyle.Render(fmt.Sprintf("%v", fields)))))
		}
		return nil
	},
}

func init() {
	decksCmd.Flags().BoolVar(&decksShowExcluded, "all", false, "include decks and note types matching the exclude filters")
	rootCmd.AddCommand(decksCmd)
}
