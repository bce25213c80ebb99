package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/selection"
)

type SubmitMsg struct {
	Slot models.MealSlot
}

type NewFoodMsg struct{}

// CloseMsg asks the parent to discard the selection and leave the picker
type CloseMsg struct{}

type Item struct {
	Food     models.FoodItem
	Serving  string
	Quantity int
	Expanded bool
}

func (i Item) Title() string {
	title := i.Food.Name
	if i.Food.Emoji != "" {
		title = i.Food.Emoji + " " + title
	}
	if i.Quantity > 0 {
		title += fmt.Sprintf(" ×%d", i.Quantity)
	}
	return title
}

func (i Item) Description() string {
	if i.Expanded && i.Quantity > 0 {
		t := selection.ProjectedTotals(i.Food, i.Quantity)
		return fmt.Sprintf("%d × %s | %d kcal | %.1f g protein | %.1f g carbs | %.1f g fat",
			i.Quantity, i.Serving, t.Calories, t.Protein, t.Carbs, t.Fat)
	}
	return fmt.Sprintf("%s | %s kcal | %s g protein",
		i.Serving, trimFloat(i.Food.Calories), trimFloat(i.Food.Protein))
}

func (i Item) FilterValue() string { return i.Food.Name }

func trimFloat(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", f), "0"), ".")
}

type KeyMap struct {
	Search    key.Binding
	Select    key.Binding
	Decrement key.Binding
	Remove    key.Binding
	Submit    key.Binding
	NewFood   key.Binding
	Close     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", "+", "="),
			key.WithHelp("enter/+", "add one"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "remove one"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "log meal"),
		),
		NewFood: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new food"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "discard"),
		),
	}
}

// Model lists the catalog for one meal slot and edits the shared selection.
// The selection is owned by the parent; the picker only mutates it on the event loop.
type Model struct {
	list      list.Model
	search    textinput.Model
	keys      KeyMap
	selection *selection.Aggregator
	serving   func(models.FoodItem) string

	foods        []models.FoodItem
	slot         models.MealSlot
	foodsLoading bool
	unitsLoading bool
}

func New(agg *selection.Aggregator, serving func(models.FoodItem) string, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Prompt = "🔍 "
	ti.Placeholder = "Search foods"
	ti.CharLimit = 50

	if serving == nil {
		serving = func(f models.FoodItem) string { return models.FormatServing(f.Quantity, "") }
	}

	m := Model{
		list:      l,
		search:    ti,
		keys:      DefaultKeyMap(),
		selection: agg,
		serving:   serving,
	}
	m.refresh()
	return m
}

// Open prepares the picker for slot with a cleared search
func (m *Model) Open(slot models.MealSlot) {
	m.slot = slot
	m.search.SetValue("")
	m.search.Blur()
	m.list.Select(0)
	m.refresh()
}

func (m Model) Slot() models.MealSlot { return m.slot }

func (m *Model) SetFoods(foods []models.FoodItem) {
	m.foods = foods
	m.refresh()
}

// SetLoading disables search while foods load and "new food" while units load
func (m *Model) SetLoading(foods, units bool) {
	m.foodsLoading = foods
	m.unitsLoading = units
	if foods {
		m.search.Blur()
		m.search.Placeholder = "Loading catalog…"
	} else {
		m.search.Placeholder = "Search foods"
	}
	m.refresh()
}

// Searching reports whether key presses go to the search input
func (m Model) Searching() bool { return m.search.Focused() }

func (m Model) Query() string { return m.search.Value() }

func (m Model) Keys() KeyMap { return m.keys }

// Refresh rebuilds the rows after the selection changed outside the picker
func (m *Model) Refresh() { m.refresh() }

func (m *Model) refresh() {
	visible := selection.Search(m.search.Value(), m.foods)
	items := make([]list.Item, len(visible))
	for i, f := range visible {
		items[i] = Item{
			Food:     f,
			Serving:  m.serving(f),
			Quantity: m.selection.Quantity(f.ID),
			Expanded: m.selection.Expanded() == f.ID,
		}
	}
	m.list.SetItems(items)

	m.keys.Search.SetEnabled(!m.foodsLoading)
	m.keys.NewFood.SetEnabled(!m.unitsLoading)
	m.keys.Submit.SetEnabled(!m.selection.IsEmpty())
	hasItems := len(items) > 0
	m.keys.Select.SetEnabled(hasItems)
	m.keys.Decrement.SetEnabled(hasItems)
	m.keys.Remove.SetEnabled(hasItems)
}

func (m Model) current() (models.FoodItem, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Food, true
	}
	return models.FoodItem{}, false
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.search.Focused() {
			switch msg.Type {
			case tea.KeyEsc, tea.KeyEnter:
				m.search.Blur()
				return m, nil
			}
			m.search, cmd = m.search.Update(msg)
			m.refresh()
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Search):
			cmd = m.search.Focus()
			return m, cmd
		case key.Matches(msg, m.keys.Select):
			if f, ok := m.current(); ok {
				m.selection.SelectOrIncrement(f)
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Decrement):
			if f, ok := m.current(); ok {
				m.selection.Decrement(f)
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Remove):
			if f, ok := m.current(); ok {
				m.selection.Remove(f)
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			slot := m.slot
			return m, func() tea.Msg { return SubmitMsg{Slot: slot} }
		case key.Matches(msg, m.keys.NewFood):
			return m, func() tea.Msg { return NewFoodMsg{} }
		case key.Matches(msg, m.keys.Close):
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	header := titleStyle.Render("Add to " + m.slot.Title())
	if n := m.selection.Len(); n > 0 {
		header += dimStyle.Render(fmt.Sprintf("  %d selected", n))
	}

	body := m.list.View()
	switch {
	case m.foodsLoading && len(m.foods) == 0:
		body = "\n  Loading catalog…"
	case len(m.list.Items()) == 0 && m.search.Value() != "":
		body = fmt.Sprintf("\n  No foods match %q.\n  Press 'n' to add it.", m.search.Value())
	case len(m.list.Items()) == 0:
		body = "\n  The catalog is empty.\n  Press 'n' to add a food."
	}

	footer := ""
	if !m.selection.IsEmpty() {
		t := m.selection.Totals()
		footer = dimStyle.Render(fmt.Sprintf("Selection: %d kcal | %.1f g protein", t.Calories, t.Protein))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.search.View(), body, footer)
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
	m.search.Width = width - 4
}
