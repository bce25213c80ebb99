package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/platewise/internal/api"
	"github.com/julianstephens/platewise/internal/catalog"
	"github.com/julianstephens/platewise/internal/constants"
	apperrors "github.com/julianstephens/platewise/internal/errors"
	"github.com/julianstephens/platewise/internal/tui/components/picker"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		barWidth := msg.Width/2 - 8
		if barWidth > 40 {
			barWidth = 40
		}
		if barWidth < 10 {
			barWidth = 10
		}
		m.calories.Width = barWidth
		m.protein.Width = barWidth
		m.picker.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noticeTickMsg:
		return m, tickNotices()

	case dayLoadedMsg:
		m.reconciler.Apply(msg.result)
		if errors.Is(msg.result.Err, api.ErrUnauthorized) {
			return m, m.toLogin()
		}
		return m, nil

	case catalogLoadedMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, m.toLogin()
		}
		if msg.err != nil {
			m.app.Notices.Error(apperrors.UserMessage(msg.err))
		}
		m.picker.SetLoading(false, m.app.Catalog.Loading())
		m.picker.SetFoods(m.app.Catalog.Foods())
		return m, nil

	case unitsLoadedMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, m.toLogin()
		}
		if msg.err != nil {
			m.app.Notices.Error(apperrors.UserMessage(msg.err))
		}
		m.picker.SetLoading(m.app.Catalog.Loading(), false)
		m.picker.Refresh()
		return m, nil

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.submitter.Fail(msg.err)
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return m, m.toLogin()
			}
			return m, nil
		}
		m.submitter.Complete(m.selection, msg.outcome)
		m.picker.Refresh()
		m.state = constants.StateDashboard
		return m, fetchDay(m.app.API, m.reconciler.Begin())

	case loginDoneMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.formErr = m.app.Session.Snapshot().LastError
			if errors.Is(msg.err, api.ErrUnavailable) {
				m.formErr = apperrors.UserMessage(msg.err)
			}
			m.login.Password = ""
			m.form = newLoginForm(m.login)
			return m, m.form.Init()
		}
		return m, m.enterDashboard()

	case logoutDoneMsg:
		return m, m.toLogin()

	case foodCreatedMsg:
		m.creating = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return m, m.toLogin()
			}
			var verrs catalog.ValidationErrors
			if errors.As(msg.err, &verrs) {
				m.formErr = verrs.Error()
			} else {
				m.formErr = apperrors.UserMessage(msg.err)
			}
			m.form = newFoodForm(m.food, m.app.Catalog.Units())
			return m, m.form.Init()
		}
		m.app.Catalog.Add(msg.food)
		m.selection.SelectOrIncrement(msg.food)
		m.picker.SetFoods(m.app.Catalog.Foods())
		m.app.Notices.Info(fmt.Sprintf("Added %s to the catalog", msg.food.Name))
		m.food = nil
		m.formErr = ""
		m.state = constants.StatePicker
		return m, nil

	case picker.SubmitMsg:
		return m, m.startSubmit()

	case picker.NewFoodMsg:
		m.food = &foodForm{}
		if q := m.picker.Query(); q != "" {
			m.food.Name = q
		}
		m.formErr = ""
		m.form = newFoodForm(m.food, m.app.Catalog.Units())
		m.state = constants.StateNewFood
		return m, m.form.Init()

	case picker.CloseMsg:
		m.selection.Clear()
		m.picker.Refresh()
		m.state = constants.StateDashboard
		return m, nil
	}

	switch m.state {
	case constants.StateLogin:
		return m.updateLogin(msg)
	case constants.StateNewFood:
		return m.updateNewFood(msg)
	case constants.StatePicker:
		var cmd tea.Cmd
		if !m.submitting {
			m.picker, cmd = m.picker.Update(msg)
		}
		return m, cmd
	default:
		return m.updateDashboard(msg)
	}
}

func (m Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Up):
		if m.focus > 0 {
			m.focus--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.focus < 3 {
			m.focus++
		}
	case key.Matches(keyMsg, m.keys.PrevDay):
		req, err := m.reconciler.PreviousDay()
		if err != nil {
			return m, nil
		}
		return m, fetchDay(m.app.API, req)
	case key.Matches(keyMsg, m.keys.NextDay):
		if req, ok := m.reconciler.NextDay(); ok {
			return m, fetchDay(m.app.API, req)
		}
	case key.Matches(keyMsg, m.keys.Refresh):
		return m, fetchDay(m.app.API, m.reconciler.Begin())
	case key.Matches(keyMsg, m.keys.Add):
		m.picker.Open(m.focusedSlot())
		m.state = constants.StatePicker
		if len(m.app.Catalog.Foods()) == 0 && !m.app.Catalog.Loading() {
			m.picker.SetLoading(true, false)
			return m, loadCatalog(m.app.Catalog)
		}
	case key.Matches(keyMsg, m.keys.Logout):
		return m, logout(m.app.Session)
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.loggingIn {
		return m, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.quitting = true
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		m.loggingIn = true
		m.formErr = ""
		cmds = append(cmds, login(m.app.Session, m.login.Email, m.login.Password))
	case huh.StateAborted:
		m.quitting = true
		return m, tea.Quit
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateNewFood(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.creating {
		return m, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.food = nil
		m.formErr = ""
		m.state = constants.StatePicker
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		draft, err := m.food.draft()
		if err != nil {
			m.formErr = err.Error()
			m.form = newFoodForm(m.food, m.app.Catalog.Units())
			return m, m.form.Init()
		}
		user, err := m.app.Session.User()
		if err != nil {
			return m, m.toLogin()
		}
		m.creating = true
		cmds = append(cmds, createFood(catalog.NewSubmitter(m.app.API, m.app.Catalog), user, draft))
	case huh.StateAborted:
		m.food = nil
		m.state = constants.StatePicker
	}
	return m, tea.Batch(cmds...)
}

// startSubmit builds the bulk request on the event loop and sends it in a command
func (m *Model) startSubmit() tea.Cmd {
	if m.submitting {
		return nil
	}
	user, err := m.app.Session.User()
	if err != nil {
		return m.toLogin()
	}
	req, err := m.submitter.Prepare(user, m.picker.Slot(), m.selection)
	if err != nil {
		m.app.Notices.Warn(constants.NoticeEmptySelection)
		return nil
	}
	m.submitting = true
	return sendBulk(m.submitter, req)
}

// enterDashboard switches to the dashboard after a successful login
func (m *Model) enterDashboard() tea.Cmd {
	user, err := m.app.Session.User()
	if err != nil {
		return m.toLogin()
	}
	m.reconciler.SetUser(user.ID)
	m.selection.Clear()
	m.login = nil
	m.form = nil
	m.formErr = ""
	m.focus = 0
	m.state = constants.StateDashboard
	m.picker.SetLoading(true, true)
	return m.mount()
}

// toLogin drops everything tied to the user and shows the login form
func (m *Model) toLogin() tea.Cmd {
	if m.state == constants.StateLogin {
		return nil
	}
	if st := m.app.Session.Snapshot(); st.LastError != "" {
		m.formErr = st.LastError
	} else {
		m.formErr = ""
	}
	m.reconciler.SetUser("")
	m.selection.Clear()
	m.picker.Refresh()
	m.submitting = false
	m.creating = false
	m.food = nil
	m.login = &loginForm{}
	m.form = newLoginForm(m.login)
	m.state = constants.StateLogin
	return m.form.Init()
}
