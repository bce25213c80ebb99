package daylog

import (
	"math"

	"github.com/julianstephens/platewise/internal/models"
)

// Aggregate sums the nutrition of every entry in view, each weighted by its quantity
func Aggregate(view DayView) models.Totals {
	var calories, protein, carbs, fat float64
	for _, entries := range view.Slots {
		for _, e := range entries {
			calories += e.Calories * e.Quantity
			protein += e.Protein * e.Quantity
			carbs += e.Carbs * e.Quantity
			fat += e.Fat * e.Quantity
		}
	}
	return models.Totals{
		Calories: models.RoundCalories(calories),
		Protein:  models.RoundOneDecimal(protein),
		Carbs:    models.RoundOneDecimal(carbs),
		Fat:      models.RoundOneDecimal(fat),
	}
}

// SlotTotals sums one meal slot
func SlotTotals(view DayView, slot models.MealSlot) models.Totals {
	return Aggregate(DayView{Slots: map[models.MealSlot][]models.LoggedEntry{slot: view.Slots[slot]}})
}

// Progress returns consumed as a percentage of goal, capped at 100.
// A non-positive goal yields 0.
func Progress(consumed, goal float64) float64 {
	if goal <= 0 || consumed <= 0 {
		return 0
	}
	return math.Min(consumed/goal*100, 100)
}
