package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/platewise/internal/daylog"
	"github.com/julianstephens/platewise/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	slotStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RenderDay prints a day view with its totals measured against goals
func RenderDay(w io.Writer, label string, view daylog.DayView, goals models.Goals) {
	totals := daylog.Aggregate(view)

	fmt.Fprintln(w, headerStyle.Render(label))
	fmt.Fprintf(w, "Calories %d / %.0f kcal (%.0f%%)\n",
		totals.Calories, goals.Calories, daylog.Progress(float64(totals.Calories), goals.Calories))
	fmt.Fprintf(w, "Protein  %.1f / %.0f g (%.0f%%)\n",
		totals.Protein, goals.Protein, daylog.Progress(totals.Protein, goals.Protein))
	fmt.Fprintf(w, "Carbs %.1f g  Fat %.1f g\n", totals.Carbs, totals.Fat)

	for _, slot := range models.MealSlots() {
		entries := view.Entries(slot)
		slotTotals := daylog.SlotTotals(view, slot)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s\n", slotStyle.Render(slot.Title()), dimStyle.Render(fmt.Sprintf("%d kcal", slotTotals.Calories)))
		if len(entries) == 0 {
			fmt.Fprintln(w, dimStyle.Render("  nothing logged"))
			continue
		}
		for _, e := range entries {
			fmt.Fprintf(w, "  %s\n", EntryLine(e))
		}
	}
}

// EntryLine formats one logged entry as "🍳 Eggs x2 (2 pc) 156 kcal"
func EntryLine(e models.LoggedEntry) string {
	var b strings.Builder
	if e.Emoji != "" {
		b.WriteString(e.Emoji + " ")
	}
	b.WriteString(e.Name)
	fmt.Fprintf(&b, " x%s", models.FormatServing(e.Quantity, ""))
	if s := e.Serving(); s != "" {
		fmt.Fprintf(&b, " (%s)", s)
	}
	fmt.Fprintf(&b, " %d kcal", models.RoundCalories(e.Calories*e.Quantity))
	return b.String()
}

// NewTable returns a bordered table with the given column headers
func NewTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}
