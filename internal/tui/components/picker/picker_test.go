package picker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/selection"
)

var foods = []models.FoodItem{
	{ID: "f1", Name: "Banana", Emoji: "🍌", Calories: 89, Protein: 1.1, Quantity: 1},
	{ID: "f2", Name: "Almonds", Calories: 579, Protein: 21, Quantity: 100},
	{ID: "f3", Name: "Avocado", Calories: 160, Protein: 2, Quantity: 100},
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newPicker(agg *selection.Aggregator) Model {
	m := New(agg, nil, 80, 20)
	m.SetFoods(foods)
	m.Open(models.MealBreakfast)
	return m
}

func TestSelectDecrementRemove(t *testing.T) {
	agg := selection.New()
	m := newPicker(agg)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(runes("+"))
	assert.Equal(t, 2, agg.Quantity("f1"))
	assert.Equal(t, "f1", agg.Expanded())

	m, _ = m.Update(runes("-"))
	assert.Equal(t, 1, agg.Quantity("f1"))

	m, _ = m.Update(runes("x"))
	assert.True(t, agg.IsEmpty())
	assert.Empty(t, agg.Expanded())
	_ = m
}

func TestSubmitDisabledWhenEmpty(t *testing.T) {
	agg := selection.New()
	m := newPicker(agg)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		_, isSubmit := cmd().(SubmitMsg)
		assert.False(t, isSubmit)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Equal(t, SubmitMsg{Slot: models.MealBreakfast}, cmd())
}

func TestSearchFiltersRows(t *testing.T) {
	agg := selection.New()
	m := newPicker(agg)

	m, _ = m.Update(runes("/"))
	require.True(t, m.Searching())
	for _, r := range "alm" {
		m, _ = m.Update(runes(string(r)))
	}
	assert.Equal(t, "alm", m.Query())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Searching())

	// enter now selects the only visible row
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, agg.Quantity("f2"))
	assert.Equal(t, 0, agg.Quantity("f1"))
	_ = m
}

func TestSearchDisabledWhileLoading(t *testing.T) {
	m := newPicker(selection.New())
	m.SetLoading(true, false)

	m, _ = m.Update(runes("/"))
	assert.False(t, m.Searching())

	m.SetLoading(false, false)
	m, _ = m.Update(runes("/"))
	assert.True(t, m.Searching())
}

func TestNewFoodDisabledWhileUnitsLoad(t *testing.T) {
	m := newPicker(selection.New())
	m.SetLoading(false, true)

	_, cmd := m.Update(runes("n"))
	if cmd != nil {
		_, isNew := cmd().(NewFoodMsg)
		assert.False(t, isNew)
	}

	m.SetLoading(false, false)
	_, cmd = m.Update(runes("n"))
	require.NotNil(t, cmd)
	assert.Equal(t, NewFoodMsg{}, cmd())
}

func TestEscClosesOrLeavesSearch(t *testing.T) {
	m := newPicker(selection.New())

	m, _ = m.Update(runes("/"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.Searching())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CloseMsg{}, cmd())
}

func TestItemDescription(t *testing.T) {
	i := Item{Food: foods[0], Serving: "1 pc"}
	assert.Equal(t, "1 pc | 89 kcal | 1.1 g protein", i.Description())
	assert.Equal(t, "🍌 Banana", i.Title())

	i.Quantity, i.Expanded = 3, true
	assert.Equal(t, "🍌 Banana ×3", i.Title())
	assert.Contains(t, i.Description(), "267 kcal")
	assert.Contains(t, i.Description(), "3.3 g protein")
}
