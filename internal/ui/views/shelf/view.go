package shelf

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	shelfdto "pageturn/internal/modules/shelf/dto"
	"pageturn/internal/ui/theme"
)

type ShelfPort interface {
	Bookshelf(ctx context.Context, userID string) (shelfdto.GroupedOutput, error)
}

type LoadedMsg struct {
	Shelf shelfdto.GroupedOutput
	Err   error
}

type entryItem struct {
	entry shelfdto.EntryOutput
}

func (i entryItem) Title() string { return i.entry.Title }

func (i entryItem) Description() string {
	if i.entry.PageCount > 0 {
		return fmt.Sprintf("%s  p.%d/%d  %.0f%%", i.entry.Status, i.entry.CurrentPage, i.entry.PageCount, i.entry.Progress)
	}
	return fmt.Sprintf("%s  p.%d", i.entry.Status, i.entry.CurrentPage)
}

func (i entryItem) FilterValue() string { return i.entry.Title }

type Model struct {
	port   ShelfPort
	userID string
	list   list.Model
	err    error
}

func New(port ShelfPort, userID string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Bookshelf"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return Model{port: port, userID: userID, list: l}
}

func (m Model) Load() tea.Cmd {
	return func() tea.Msg {
		shelf, err := m.port.Bookshelf(context.Background(), m.userID)
		return LoadedMsg{Shelf: shelf, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, 0)
		for _, group := range [][]shelfdto.EntryOutput{msg.Shelf.Reading, msg.Shelf.Planned, msg.Shelf.Completed, msg.Shelf.Dropped} {
			for _, entry := range group {
				items = append(items, entryItem{entry: entry})
			}
		}
		return m, m.list.SetItems(items)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Selected returns the highlighted entry, if any.
func (m Model) Selected() (shelfdto.EntryOutput, bool) {
	item, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return shelfdto.EntryOutput{}, false
	}
	return item.entry, true
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Bad.Render("shelf unavailable: " + m.err.Error())
	}
	return m.list.View()
}
