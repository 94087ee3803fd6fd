package review

import (
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/ankimcp/ankimcp/internal/anki"
)

// Card is one due card prepared for terminal display.
type Card struct {
	ID       int64
	Deck     string
	Question string
	Answer   string
}

var (
	brRe      = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	clozeRe   = regexp.MustCompile(`\{\{c\d+::([^{}]*)\}\}`)
)

// plainText strips Anki's HTML markup down to something a terminal can show.
func plainText(value string) string {
	value = brRe.ReplaceAllString(value, "\n")
	value = strings.ReplaceAll(value, "</div>", "\n")
	value = htmlTagRe.ReplaceAllString(value, "")
	value = html.UnescapeString(value)
	return strings.TrimSpace(value)
}

// revealCloze replaces cloze deletions with their content for the answer
// side, dropping any ::hint suffix.
func revealCloze(value string) string {
	return clozeRe.ReplaceAllStringFunc(value, func(match string) string {
		inner := clozeRe.FindStringSubmatch(match)[1]
		if i := strings.Index(inner, "::"); i >= 0 {
			inner = inner[:i]
		}
		return inner
	})
}

// hideCloze blanks cloze deletions for the question side.
func hideCloze(value string) string {
	return clozeRe.ReplaceAllString(value, "[...]")
}

// FromCardInfo converts AnkiConnect card records into display cards. The
// field matching the card's fieldOrder is the question; the rest form the
// answer in field order.
func FromCardInfo(cards []anki.CardInfo) []Card {
	out := make([]Card, 0, len(cards))
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

		var question string
		var answerParts []string
		for _, nf := range sorted {
			text := plainText(nf.field.Value)
			if text == "" {
				continue
			}
			if nf.field.Order == card.FieldOrder {
				question = hideCloze(text)
				// A cloze card answers itself; keep the revealed text too.
				if clozeRe.MatchString(text) {
					answerParts = append(answerParts, revealCloze(text))
				}
			} else {
				answerParts = append(answerParts, revealCloze(text))
			}
		}

		out = append(out, Card{
			ID:       card.CardID,
			Deck:     card.DeckName,
			Question: question,
			Answer:   strings.Join(answerParts, "\n"),
		})
	}
	return out
}
