package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/platewise/internal/cli"
	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/daylog"
	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/notice"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateLogin:
		content = m.viewLogin()
	case constants.StatePicker:
		content = m.viewPicker()
	case constants.StateNewFood:
		content = m.viewNewFood()
	default:
		content = m.viewDashboard()
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.viewNotice(),
		m.help.View(m),
	))
}

func (m Model) viewLogin() string {
	parts := []string{headerStyle.Render(constants.AppName + " login")}
	if m.formErr != "" {
		parts = append(parts, errorStyle.Render(m.formErr))
	}
	if m.loggingIn {
		parts = append(parts, m.spinner.View()+" Signing in…")
	} else {
		parts = append(parts, m.form.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	left, right := arrowStyle.Render("‹"), arrowStyle.Render("›")
	offset := m.reconciler.Offset()
	if offset >= constants.MaxDayOffset {
		left = disabledArrowStyle.Render("‹")
	}
	if offset <= 0 {
		right = disabledArrowStyle.Render("›")
	}

	header := left + headerStyle.Render(m.reconciler.Label()) + right
	if m.reconciler.Loading() {
		header += " " + m.spinner.View()
	}
	return header
}

func (m Model) viewDashboard() string {
	view := m.reconciler.View()
	totals := daylog.Aggregate(view)

	calPct := daylog.Progress(float64(totals.Calories), m.goals.Calories)
	proPct := daylog.Progress(totals.Protein, m.goals.Protein)

	calCard := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Calories"),
		fmt.Sprintf("%d / %.0f kcal", totals.Calories, m.goals.Calories),
		m.calories.ViewAs(calPct/100),
	))
	proCard := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Protein"),
		fmt.Sprintf("%.1f / %.0f g", totals.Protein, m.goals.Protein),
		m.protein.ViewAs(proPct/100),
	))

	macros := dimStyle.Render(fmt.Sprintf("Carbs %.1f / %.0f g   Fat %.1f / %.0f g",
		totals.Carbs, m.goals.Carbs, totals.Fat, m.goals.Fat))

	var slots []string
	for i, slot := range models.MealSlots() {
		slots = append(slots, m.viewSlot(view, slot, i == m.focus))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, calCard, proCard),
		macros,
		"",
		strings.Join(slots, "\n"),
	)
}

func (m Model) viewSlot(view daylog.DayView, slot models.MealSlot, focused bool) string {
	title := slotStyle.Render("  " + slot.Title())
	if focused {
		title = focusedSlotStyle.Render("> " + slot.Title())
	}
	t := daylog.SlotTotals(view, slot)
	lines := []string{title + dimStyle.Render(fmt.Sprintf("  %d kcal", t.Calories))}

	entries := view.Entries(slot)
	if len(entries) == 0 {
		lines = append(lines, dimStyle.Render("    nothing logged"))
	}
	for _, e := range entries {
		lines = append(lines, "    "+cli.EntryLine(e))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewPicker() string {
	header := m.viewHeader()
	if m.submitting {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", m.picker.View(), m.spinner.View()+" Logging meal…")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", m.picker.View())
}

func (m Model) viewNewFood() string {
	parts := []string{headerStyle.Render("New food")}
	if m.formErr != "" {
		parts = append(parts, errorStyle.Render(m.formErr))
	}
	if m.creating {
		parts = append(parts, m.spinner.View()+" Saving…")
	} else {
		parts = append(parts, m.form.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewNotice() string {
	n, ok := m.app.Notices.Current(time.Now())
	if !ok {
		return ""
	}
	switch n.Level {
	case notice.LevelError:
		return errorStyle.Render("✗ " + n.Text)
	case notice.LevelWarn:
		return warnStyle.Render("! " + n.Text)
	default:
		return infoStyle.Render("✓ " + n.Text)
	}
}
