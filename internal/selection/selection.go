// Package selection holds the foods picked for the next bulk log and their
// serving multipliers. It is owned by the UI event loop and is not synchronized.
package selection

import (
	"github.com/julianstephens/platewise/internal/catalog"
	"github.com/julianstephens/platewise/internal/models"
)

// Entry pairs a food with its serving multiplier. Quantity is always at least 1.
type Entry struct {
	Food     models.FoodItem
	Quantity int
}

// Totals projects the entry's nutrition at its current multiplier
func (e Entry) Totals() models.Totals {
	return ProjectedTotals(e.Food, e.Quantity)
}

// Aggregator maps food ids to entries, remembering the order foods were first picked.
type Aggregator struct {
	order    []string
	entries  map[string]*Entry
	expanded string
}

// New returns an empty aggregator
func New() *Aggregator {
	return &Aggregator{entries: map[string]*Entry{}}
}

// SelectOrIncrement adds food with multiplier 1, or bumps an existing entry by one.
// The food becomes the expanded row either way.
func (a *Aggregator) SelectOrIncrement(food models.FoodItem) int {
	a.expanded = food.ID
	if e, ok := a.entries[food.ID]; ok {
		e.Quantity++
		return e.Quantity
	}
	a.entries[food.ID] = &Entry{Food: food, Quantity: 1}
	a.order = append(a.order, food.ID)
	return 1
}

// Decrement lowers the multiplier by one. At 1 the entry is removed instead.
// Unknown foods are ignored.
func (a *Aggregator) Decrement(food models.FoodItem) int {
	e, ok := a.entries[food.ID]
	if !ok {
		return 0
	}
	if e.Quantity > 1 {
		e.Quantity--
		return e.Quantity
	}
	a.Remove(food)
	return 0
}

// Remove deletes the entry for food regardless of its multiplier
func (a *Aggregator) Remove(food models.FoodItem) {
	if _, ok := a.entries[food.ID]; !ok {
		return
	}
	delete(a.entries, food.ID)
	for i, id := range a.order {
		if id == food.ID {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	if a.expanded == food.ID {
		a.expanded = ""
	}
}

// Expanded returns the id of the row being adjusted, or "" when none is
func (a *Aggregator) Expanded() string {
	return a.expanded
}

// Collapse clears the expanded marker without touching quantities
func (a *Aggregator) Collapse() {
	a.expanded = ""
}

// Quantity returns the multiplier for a food id, 0 when it is not selected
func (a *Aggregator) Quantity(id string) int {
	if e, ok := a.entries[id]; ok {
		return e.Quantity
	}
	return 0
}

// Entries returns copies of the entries in selection order
func (a *Aggregator) Entries() []Entry {
	out := make([]Entry, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, *a.entries[id])
	}
	return out
}

func (a *Aggregator) Len() int { return len(a.order) }

func (a *Aggregator) IsEmpty() bool { return len(a.order) == 0 }

// Clear drops every entry and the expanded marker
func (a *Aggregator) Clear() {
	a.order = nil
	a.entries = map[string]*Entry{}
	a.expanded = ""
}

// Totals sums the projected nutrition of every entry
func (a *Aggregator) Totals() models.Totals {
	var calories, protein, carbs, fat float64
	for _, id := range a.order {
		e := a.entries[id]
		m := float64(e.Quantity)
		calories += e.Food.Calories * m
		protein += e.Food.Protein * m
		carbs += e.Food.Carbs * m
		fat += e.Food.Fat * m
	}
	return models.Totals{
		Calories: models.RoundCalories(calories),
		Protein:  models.RoundOneDecimal(protein),
		Carbs:    models.RoundOneDecimal(carbs),
		Fat:      models.RoundOneDecimal(fat),
	}
}

// ProjectedTotals previews a food's nutrition at the given multiplier. Calories
// round to a whole number and the macros to one decimal.
func ProjectedTotals(food models.FoodItem, multiplier int) models.Totals {
	m := float64(multiplier)
	return models.Totals{
		Calories: models.RoundCalories(food.Calories * m),
		Protein:  models.RoundOneDecimal(food.Protein * m),
		Carbs:    models.RoundOneDecimal(food.Carbs * m),
		Fat:      models.RoundOneDecimal(food.Fat * m),
	}
}

// Search filters foods by a case-insensitive name substring
func Search(query string, foods []models.FoodItem) []models.FoodItem {
	return catalog.Search(query, foods)
}
