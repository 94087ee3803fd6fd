// Package review runs an interactive terminal review session against the
// same AnkiConnect client the MCP tools use.
package review

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ankimcp/ankimcp/internal/anki"
	"github.com/ankimcp/ankimcp/internal/log"
	"github.com/ankimcp/ankimcp/internal/query"
)

// Run fetches due cards, walks the user through them, and submits the
// collected ratings in one batch at the end.
func Run(ctx context.Context, client *anki.Client, deck string, limit int) error {
	q, err := query.Due(deck, 0)
	if err != nil {
		return err
	}
	cardIDs, err := client.FindCards(ctx, q)
	if err != nil {
		return err
	}
	if len(cardIDs) > limit {
		cardIDs = cardIDs[:limit]
	}
	if len(cardIDs) == 0 {
		fmt.Println("No cards due today.")
		return nil
	}

	infos, err := client.CardsInfo(ctx, cardIDs)
	if err != nil {
		return err
	}
	cards := FromCardInfo(infos)

	final, err := tea.NewProgram(newModel(cards)).Run()
	if err != nil {
		return fmt.Errorf("review session failed: %w", err)
	}
	m := final.(*Model)

	answers := m.Answers()
	if len(answers) == 0 {
		fmt.Println("No cards rated, nothing submitted.")
		return nil
	}
	if m.Aborted() {
		log.Info("session ended early, submitting rated cards only", "rated", len(answers), "total", len(cards))
	}

	results, err := client.AnswerCards(ctx, answers)
	if err != nil {
		return err
	}

	succeeded := 0
	for i := range answers {
		// Short result slices mean the tail failed.
		if i < len(results) && results[i] {
			succeeded++
		}
	}
	fmt.Printf("Submitted %d reviews: %d succeeded, %d failed.\n", len(answers), succeeded, len(answers)-succeeded)
	return nil
}
