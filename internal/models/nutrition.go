package models

import "math"

// Totals holds nutrition sums. Calories are whole numbers, the rest one decimal.
type Totals struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Goals are the static daily targets the dashboard measures progress against
type Goals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// RoundCalories rounds half up to the nearest integer.
func RoundCalories(x float64) int {
	return int(math.Floor(x + 0.5))
}

// RoundOneDecimal rounds half up to one decimal place (multiply by 10, round, divide by 10).
func RoundOneDecimal(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}
