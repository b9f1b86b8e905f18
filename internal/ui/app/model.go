package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pageturn/internal/ui/theme"
	recommendview "pageturn/internal/ui/views/recommend"
	sessionsview "pageturn/internal/ui/views/sessions"
	shelfview "pageturn/internal/ui/views/shelf"
)

type tabID int

const (
	tabShelf tabID = iota
	tabRecommend
	tabSessions
	tabCount
)

var tabLabels = [tabCount]string{"Shelf", "Recommend", "Sessions"}

type keyMap struct {
	Tab     key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Tab, k.Refresh}, {k.Help, k.Quit}}
}

// Model is the root Bubble Tea model: tab routing plus sizing. Data loading
// and rendering live in the per-tab views.
type Model struct {
	userID string
	active tabID

	shelf     shelfview.Model
	recommend recommendview.Model
	sessions  sessionsview.Model

	keys   keyMap
	help   help.Model
	width  int
	height int
}

func NewModel(userID string, shelf shelfview.ShelfPort, session sessionsview.SessionPort, pace recommendview.PacePort) Model {
	return Model{
		userID:    userID,
		shelf:     shelfview.New(shelf, userID),
		recommend: recommendview.New(pace, userID),
		sessions:  sessionsview.New(session, userID),
		keys:      defaultKeys(),
		help:      help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.shelf.Load(), m.sessions.Load())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentW, contentH := m.contentSize()
		m.shelf.SetSize(contentW, contentH)
		m.sessions.SetSize(contentW, contentH)
		return m, nil

	case shelfview.LoadedMsg:
		var cmd tea.Cmd
		m.shelf, cmd = m.shelf.Update(msg)
		return m, cmd

	case sessionsview.LoadedMsg:
		var cmd tea.Cmd
		m.sessions, cmd = m.sessions.Update(msg)
		return m, cmd

	case recommendview.LoadedMsg:
		var cmd tea.Cmd
		m.recommend, cmd = m.recommend.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			return m.nextTab()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh) && m.active != tabRecommend:
			return m, tea.Batch(m.shelf.Load(), m.sessions.Load())
		}
	}
	return m.routeToActive(msg)
}

func (m Model) nextTab() (tea.Model, tea.Cmd) {
	m.recommend.Blur()
	m.active = (m.active + 1) % tabCount
	if m.active == tabRecommend {
		if entry, ok := m.shelf.Selected(); ok {
			m.recommend.SetTarget(entry.BookID, entry.Title)
		}
		return m, m.recommend.Focus()
	}
	return m, nil
}

func (m Model) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.active {
	case tabShelf:
		m.shelf, cmd = m.shelf.Update(msg)
	case tabRecommend:
		m.recommend, cmd = m.recommend.Update(msg)
	case tabSessions:
		m.sessions, cmd = m.sessions.Update(msg)
	}
	return m, cmd
}

func (m Model) contentSize() (int, int) {
	w := m.width - 8
	h := m.height - 8
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	return w, h
}

func (m Model) View() string {
	var tabs []string
	for id, label := range tabLabels {
		style := theme.Muted
		if tabID(id) == m.active {
			style = theme.Hot
		}
		tabs = append(tabs, style.Render(label))
	}
	header := strings.Join(tabs, theme.Muted.Render("  |  "))

	var body string
	switch m.active {
	case tabShelf:
		body = m.shelf.View()
	case tabRecommend:
		body = m.recommend.View()
	case tabSessions:
		body = m.sessions.View()
	}

	contentW, contentH := m.contentSize()
	pane := theme.PaneActive.Width(contentW).Height(contentH).Render(body)
	footer := m.help.View(m.keys)

	return theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, header, pane, footer))
}
