package recommend

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	pacedto "pageturn/internal/modules/pace/dto"
	"pageturn/internal/ui/theme"
)

type PacePort interface {
	Recommend(ctx context.Context, userID, bookID string, availableMinutes float64) (pacedto.RecommendationOutput, error)
}

type LoadedMsg struct {
	Plan pacedto.RecommendationOutput
	Err  error
}

// Model asks for available minutes and renders the resulting page range
// for the book selected on the shelf tab.
type Model struct {
	port    PacePort
	userID  string
	bookID  string
	title   string

	minutes textinput.Model
	plan    pacedto.RecommendationOutput
	hasPlan bool
	err     error
}

func New(port PacePort, userID string) Model {
	input := textinput.New()
	input.Placeholder = "30"
	input.Prompt = "minutes > "
	input.CharLimit = 4
	input.Width = 8

	return Model{port: port, userID: userID, minutes: input}
}

// SetTarget points the view at a shelved book. Changing target clears the
// previous plan.
func (m *Model) SetTarget(bookID, title string) {
	if m.bookID != bookID {
		m.hasPlan = false
		m.err = nil
	}
	m.bookID = bookID
	m.title = title
}

func (m *Model) Focus() tea.Cmd {
	return m.minutes.Focus()
}

func (m *Model) Blur() {
	m.minutes.Blur()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.plan = msg.Plan
			m.hasPlan = true
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			return m, m.request()
		}
	}
	var cmd tea.Cmd
	m.minutes, cmd = m.minutes.Update(msg)
	return m, cmd
}

func (m Model) request() tea.Cmd {
	raw := strings.TrimSpace(m.minutes.Value())
	bookID := m.bookID
	userID := m.userID
	port := m.port
	return func() tea.Msg {
		if bookID == "" {
			return LoadedMsg{Err: fmt.Errorf("pick a book on the shelf tab first")}
		}
		minutes, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return LoadedMsg{Err: fmt.Errorf("minutes must be a number")}
		}
		plan, err := port.Recommend(context.Background(), userID, bookID, minutes)
		return LoadedMsg{Plan: plan, Err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder

	if m.title == "" {
		b.WriteString(theme.Muted.Render("pick a book on the shelf tab, then enter your minutes"))
		b.WriteString("\n\n")
	} else {
		b.WriteString(theme.Title.Render(m.title))
		b.WriteString("\n\n")
	}
	b.WriteString(m.minutes.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(theme.Bad.Render(m.err.Error()))
		return b.String()
	}
	if !m.hasPlan {
		b.WriteString(theme.Muted.Render("press enter to get a recommendation"))
		return b.String()
	}

	plan := m.plan
	if plan.IsAlreadyCompleted {
		b.WriteString(theme.Good.Render(fmt.Sprintf("already finished (p.%d/%d)", plan.CurrentPage, plan.PageCount)))
		return b.String()
	}
	pages := theme.Hot.Render(fmt.Sprintf("p.%d-%d", plan.StartPage, plan.EndPage))
	b.WriteString(fmt.Sprintf("read %s  (%d pages, %d remaining)\n", pages, plan.PagesToRead, plan.RemainingPages))
	b.WriteString(theme.Muted.Render(fmt.Sprintf("ppm %.2f x difficulty %.2f x slack %.2f",
		plan.UsedPPM, plan.DifficultyFactor, plan.SlackFactor)))
	return lipgloss.NewStyle().Render(b.String())
}
