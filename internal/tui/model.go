package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/platewise/internal/cli"
	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/daylog"
	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/selection"
	"github.com/julianstephens/platewise/internal/submit"
	"github.com/julianstephens/platewise/internal/tui/components/picker"
)

// Model is the dashboard. Everything here is touched only on the bubbletea
// event loop; network calls run in commands and report back as messages.
type Model struct {
	app *cli.Context

	state    constants.SessionState
	keys     KeyMap
	help     help.Model
	form     *huh.Form
	login    *loginForm
	food     *foodForm
	formErr  string
	quitting bool

	reconciler *daylog.Reconciler
	selection  *selection.Aggregator
	submitter  *submit.Submitter
	picker     picker.Model
	focus      int
	goals      models.Goals

	spinner    spinner.Model
	calories   progress.Model
	protein    progress.Model
	submitting bool
	loggingIn  bool
	creating   bool

	width  int
	height int
}

func NewModel(app *cli.Context) Model {
	r := daylog.New(app.Notices, daylog.WithLocation(app.Location))
	agg := selection.New()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = dimStyle

	m := Model{
		app:        app,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		reconciler: r,
		selection:  agg,
		submitter:  submit.New(app.API, r, app.API, app.Notices),
		picker:     picker.New(agg, app.Catalog.Serving, 0, 0),
		goals:      app.Settings.Goals,
		spinner:    s,
		calories:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		protein:    progress.New(progress.WithGradient("#5A56E0", "#00D7AF"), progress.WithoutPercentage()),
	}

	if user, err := app.Session.User(); err == nil {
		m.state = constants.StateDashboard
		r.SetUser(user.ID)
		m.picker.SetLoading(true, true)
	} else {
		m.state = constants.StateLogin
		m.login = &loginForm{}
		m.form = newLoginForm(m.login)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.state == constants.StateLogin {
		return tea.Batch(m.form.Init(), m.spinner.Tick, tickNotices())
	}
	return tea.Batch(m.spinner.Tick, tickNotices(), m.mount())
}

// mount issues the initial fetches for a logged-in user
func (m Model) mount() tea.Cmd {
	return tea.Batch(
		fetchDay(m.app.API, m.reconciler.Begin()),
		loadCatalog(m.app.Catalog),
		loadUnits(m.app.Catalog),
	)
}

// focusedSlot is the meal slot the dashboard cursor is on
func (m Model) focusedSlot() models.MealSlot {
	slots := models.MealSlots()
	return slots[m.focus%len(slots)]
}

// ShortHelp and FullHelp make Model a help.KeyMap whose bindings follow the screen
func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StatePicker:
		k := m.picker.Keys()
		return []key.Binding{k.Search, k.Select, k.Decrement, k.Remove, k.Submit, k.NewFood, k.Close}
	case constants.StateDashboard:
		return m.keys.ShortHelp()
	default:
		return nil
	}
}

func (m Model) FullHelp() [][]key.Binding {
	switch m.state {
	case constants.StatePicker:
		return [][]key.Binding{m.ShortHelp()}
	case constants.StateDashboard:
		return m.keys.FullHelp()
	default:
		return nil
	}
}
