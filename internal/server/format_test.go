package server

import (
	"strings"
	"testing"

	"github.com/ankimcp/ankimcp/internal/anki"
)

func TestFormatCardsOrdersFieldsAndMarksMissingQuestion(t *testing.T) {
	cards := []anki.CardInfo{
		{
			CardID:     1,
			FieldOrder: 0,
			Fields: map[string]anki.Field{
				"Extra Info": {Value: "extra", Order: 2},
				"Front":      {Value: "q", Order: 0},
				"Back":       {Value: "a", Order: 1},
			},
		},
		{
			CardID: 2,
			// fieldOrder 5 matches no field, so the question is missing.
			FieldOrder: 5,
			Fields: map[string]anki.Field{
				"Front": {Value: "q", Order: 0},
			},
		},
	}

	out := formatCards(cards)

	if !strings.Contains(out, "<question><front>q</front></question>") {
		t.Errorf("question wrong:\n%s", out)
	}
	// Answer fields keep their note-type order and spaces become underscores.
	if !strings.Contains(out, "<answer><back>a</back> <extra_info>extra</extra_info></answer>") {
		t.Errorf("answer ordering wrong:\n%s", out)
	}
	if !strings.Contains(out, "<error>Question field not found</error>") {
		t.Errorf("missing question not flagged:\n%s", out)
	}
	if !strings.Contains(out, "\n\n<card id=\"2\">") {
		t.Errorf("cards not separated by a blank line:\n%s", out)
	}
}

func TestFormatDecksAndNotesEmpty(t *testing.T) {
	out := formatDecksAndNotes(nil, nil)
	if !strings.Contains(out, "No filtered decks found.") {
		t.Errorf("empty decks not reported: %q", out)
	}
	if !strings.Contains(out, "No filtered note types found.") {
		t.Errorf("empty note types not reported: %q", out)
	}
}
