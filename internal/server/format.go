package server

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ankimcp/ankimcp/internal/anki"
)

// noteType pairs a model name with its field names for listings.
type noteType struct {
	Name   string
	Fields []string
}

// exampleNote is the JSON shape of a get_examples entry.
type exampleNote struct {
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

// formatDecksAndNotes renders the deck and note-type listing for the LLM.
func formatDecksAndNotes(decks []string, models []noteType) string {
	deckList := "No filtered decks found."
	if len(decks) > 0 {
		deckList = fmt.Sprintf("You have %d filtered decks: %s", len(decks), strings.Join(decks, ", "))
	}

	noteTypes := "No filtered note types found."
	if len(models) > 0 {
		lines := make([]string, 0, len(models))
		for _, model := range models {
			fields := make([]string, 0, len(model.Fields))
			for _, field := range model.Fields {
				fields = append(fields, fmt.Sprintf("%q: \"string\"", field))
			}
			lines = append(lines, fmt.Sprintf("- %s: { %s }", model.Name, strings.Join(fields, ", ")))
		}
		noteTypes = "Your filtered note types and their fields are:\n" + strings.Join(lines, "\n")
	}

	return deckList + "\n\n" + noteTypes
}

// formatCards renders cards into the XML-ish block the review prompt embeds.
// The field whose order matches the card's fieldOrder is the question; every
// other field lands in the answer, in field order.
func formatCards(cards []anki.CardInfo) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		type namedField struct {
			name  string
			field anki.Field
		}
		sorted := make([]namedField, 0, len(card.Fields))
		for name, field := range card.Fields {
			sorted = append(sorted, namedField{name: name, field: field})
		}
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].field.Order < sorted[j].field.Order
		})

		var questionParts, answerParts []string
		for _, nf := range sorted {
			tagName := strings.ReplaceAll(strings.ToLower(nf.name), " ", "_")
			wrapped := fmt.Sprintf("<%s>%s</%s>", tagName, nf.field.Value, tagName)
			if nf.field.Order == card.FieldOrder {
				questionParts = append(questionParts, wrapped)
			} else {
				answerParts = append(answerParts, wrapped)
			}
		}

		question := "<error>Question field not found</error>"
		if len(questionParts) > 0 {
			question = strings.Join(questionParts, "")
		}
		answer := "<error>Answer fields not found</error>"
		if len(answerParts) > 0 {
			answer = strings.Join(answerParts, " ")
		}

		formatted = append(formatted, fmt.Sprintf("<card id=\"%d\">\n  <question>%s</question>\n  <answer>%s</answer>\n</card>", card.CardID, question, answer))
	}
	return strings.Join(formatted, "\n\n")
}
