package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/persist"
	"github.com/idilsaglam/todolist/internal/todo"
)

// Used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 76
	defaultHeight = 18
)

// PersistFailedMsg carries a failed background write into the program.
type PersistFailedMsg struct {
	Err error
}

// listItem adapts model.Item to bubbles/list.Item.
type listItem struct {
	model.Item
}

func (i listItem) Title() string       { return i.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

// itemDelegate renders each item on a single line.
type itemDelegate struct {
	theme Theme
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = d.theme.Selected.Render(">") + " "
	}
	fmt.Fprint(w, prefix+ItemLine(d.theme, it.Item))
}

type keyMap struct {
	add, toggle, remove, quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		remove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the interactive screen. It renders from the store after every
// command and never keeps its own copy of the items.
type Model struct {
	store *todo.Store
	theme Theme
	keys  keyMap

	list  list.Model
	input textinput.Model

	adding bool
	addErr string
	status string
}

// NewModel builds the screen over store.
func NewModel(store *todo.Store, theme Theme) Model {
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{theme: theme}, defaultWidth, defaultHeight)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = theme.Title
	l.Styles.HelpStyle = theme.Help
	l.Styles.PaginationStyle = theme.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	extra := func() []key.Binding { return []key.Binding{keys.add, keys.toggle, keys.remove} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Write a note."
	ti.CharLimit = 200

	m := Model{
		store: store,
		theme: theme,
		keys:  keys,
		list:  l,
		input: ti,
	}
	m.refresh()
	return m
}

// refresh reloads the list widget from the store, keeping the cursor in range.
func (m *Model) refresh() tea.Cmd {
	items := m.store.List()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{Item: it})
	}
	idx := m.list.Index()
	cmd := m.list.SetItems(li)
	if idx >= len(li) {
		idx = len(li) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
	m.list.Title = Header(m.theme, items)
	return cmd
}

func (m *Model) selected() (model.Item, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.Item, ok
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil
	case PersistFailedMsg:
		m.status = "not saved: " + msg.Err.Error()
		return m, nil
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(km, m.keys.quit):
			return m, tea.Quit
		case key.Matches(km, m.keys.toggle):
			if it, ok := m.selected(); ok {
				m.store.Toggle(it.ID)
				return m, m.refresh()
			}
			return m, nil
		case key.Matches(km, m.keys.remove):
			if it, ok := m.selected(); ok {
				m.store.Delete(it.ID)
				return m, m.refresh()
			}
			return m, nil
		case key.Matches(km, m.keys.add):
			m.adding = true
			m.addErr = ""
			m.input.SetValue("")
			return m, m.input.Focus()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.Type {
		case tea.KeyEnter:
			if _, ok := m.store.Add(m.input.Value()); !ok {
				m.addErr = "Text cannot be empty"
				return m, nil
			}
			m.adding = false
			m.addErr = ""
			m.input.SetValue("")
			m.input.Blur()
			cmd := m.refresh()
			m.list.Select(len(m.list.Items()) - 1)
			return m, cmd
		case tea.KeyEsc:
			m.adding = false
			m.addErr = ""
			m.input.SetValue("")
			m.input.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.list.View())
	if m.adding {
		title := "Add new item"
		if m.addErr != "" {
			title += "  " + m.theme.Error.Render(m.addErr)
		}
		bar := lipgloss.NewStyle().
			Border(m.theme.Border).
			BorderForeground(m.theme.BorderColor).
			Padding(0, 1)
		b.WriteString("\n" + bar.Render(title+"\n"+m.input.View()))
	}
	if m.status != "" {
		b.WriteString("\n" + m.theme.Error.Render(m.theme.SymFail+" "+m.status))
	}
	return Panel(m.theme, []string{b.String()})
}

// Run starts the program on the alternate screen and returns when the user
// quits. Failed background writes are shown on the status line.
func Run(store *todo.Store, theme Theme, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(NewModel(store, theme), opts...)

	prev := store.OnPersist(nil)
	store.OnPersist(func(r persist.Result) {
		if prev != nil {
			prev(r)
		}
		if r.Err != nil {
			p.Send(PersistFailedMsg{Err: r.Err})
		}
	})
	defer store.OnPersist(prev)

	_, err := p.Run()
	return err
}
