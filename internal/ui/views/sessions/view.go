package sessions

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	sessiondto "pageturn/internal/modules/session/dto"
	"pageturn/internal/ui/theme"
)

const historyDays = 7

type SessionPort interface {
	RecentSessions(ctx context.Context, userID string, since time.Time) ([]sessiondto.RecentSessionOutput, error)
}

type LoadedMsg struct {
	Sessions []sessiondto.RecentSessionOutput
	Err      error
}

type Model struct {
	port     SessionPort
	userID   string
	sessions []sessiondto.RecentSessionOutput
	err      error
	width    int
}

func New(port SessionPort, userID string) Model {
	return Model{port: port, userID: userID}
}

func (m Model) Load() tea.Cmd {
	return func() tea.Msg {
		since := time.Now().UTC().AddDate(0, 0, -historyDays)
		sessions, err := m.port.RecentSessions(context.Background(), m.userID, since)
		return LoadedMsg{Sessions: sessions, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if loaded, ok := msg.(LoadedMsg); ok {
		m.sessions = loaded.Sessions
		m.err = loaded.Err
	}
	return m, nil
}

func (m *Model) SetSize(width, _ int) {
	m.width = width
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Bad.Render("sessions unavailable: " + m.err.Error())
	}
	if len(m.sessions) == 0 {
		return theme.Muted.Render("no sessions in the last week")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("last %d days", historyDays)))
	b.WriteString("\n\n")
	for _, s := range m.sessions {
		b.WriteString(s.StartedAt.Format("Mon 15:04"))
		b.WriteString("  ")
		b.WriteString(theme.Muted.Render(s.SessionType))
		b.WriteString("  ")
		if s.EndedAt.IsZero() {
			b.WriteString(theme.Hot.Render("open"))
		} else if s.ActualPages != nil {
			b.WriteString(theme.Good.Render(fmt.Sprintf("%d/%d pages", *s.ActualPages, s.PlannedPages)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
