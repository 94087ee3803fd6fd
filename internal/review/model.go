package review

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ankimcp/ankimcp/internal/anki"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	deckStyle     = lipgloss.NewStyle().Faint(true)
	questionStyle = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder())
	answerStyle   = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("36"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// Model is the Bubble Tea model for a review session.
type Model struct {
	cards    []Card
	index    int
	revealed bool
	answers  []anki.Answer
	aborted  bool
	width    int
}

// newModel creates a session over the given cards.
func newModel(cards []Card) *Model {
	return &Model{
		cards:   cards,
		answers: make([]anki.Answer, 0, len(cards)),
	}
}

// Answers returns the ratings collected so far, one per rated card.
func (m *Model) Answers() []anki.Answer {
	return m.answers
}

// Aborted reports whether the user quit before rating every card.
func (m *Model) Aborted() bool {
	return m.aborted
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.index < len(m.cards) {
				m.aborted = true
			}
			return m, tea.Quit

		case " ", "enter":
			if !m.revealed && m.index < len(m.cards) {
				m.revealed = true
			}

		case "1", "2", "3", "4":
			if !m.revealed || m.index >= len(m.cards) {
				break
			}
			ease := int(msg.String()[0] - '0')
			m.answers = append(m.answers, anki.Answer{
				CardID: m.cards[m.index].ID,
				Ease:   ease,
			})
			m.index++
			m.revealed = false
			if m.index >= len(m.cards) {
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.index >= len(m.cards) {
		return headerStyle.Render("Review complete") + "\n"
	}

	card := m.cards[m.index]
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Card %d/%d", m.index+1, len(m.cards))))
	if card.Deck != "" {
		b.WriteString("  " + deckStyle.Render(card.Deck))
	}
	b.WriteString("\n\n")

	b.WriteString(questionStyle.Render(card.Question))
	b.WriteString("\n")

	if m.revealed {
		b.WriteString(answerStyle.Render(card.Answer))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("rate: 1 wrong · 2 hard · 3 good · 4 easy · q quit"))
	} else {
		b.WriteString(helpStyle.Render("space/enter reveal · q quit"))
	}
	b.WriteString("\n")

	return b.String()
}
