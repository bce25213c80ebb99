package models

import (
	"fmt"
	"strings"
)

// MealSlot is the fixed bucket a logged entry belongs to
type MealSlot string

const (
	MealBreakfast MealSlot = "breakfast"
	MealLunch     MealSlot = "lunch"
	MealDinner    MealSlot = "dinner"
	MealSnack     MealSlot = "snack"
)

// MealSlots returns the slots in display order
func MealSlots() []MealSlot {
	return []MealSlot{MealBreakfast, MealLunch, MealDinner, MealSnack}
}

// Valid reports whether s is one of the four known slots
func (s MealSlot) Valid() bool {
	switch s {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// Title returns the capitalized slot name
func (s MealSlot) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ParseMealSlot accepts any casing and surrounding whitespace
func ParseMealSlot(s string) (MealSlot, error) {
	slot := MealSlot(strings.ToLower(strings.TrimSpace(s)))
	if !slot.Valid() {
		return "", fmt.Errorf("unknown meal slot %q (expected breakfast, lunch, dinner or snack)", s)
	}
	return slot, nil
}
