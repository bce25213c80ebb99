package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// EpochMillis is a timestamp in milliseconds since the Unix epoch. It decodes from
// either a JSON number or an RFC 3339 string, since the service echoes stored dates
// as strings.
type EpochMillis int64

// Time converts the timestamp to a time.Time in the given location
func (e EpochMillis) Time(loc *time.Location) time.Time {
	return time.UnixMilli(int64(e)).In(loc)
}

func (e *EpochMillis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*e = 0
		return nil
	}
	if data[0] != '"' {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		ms, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return fmt.Errorf("invalid epoch timestamp %s", data)
			}
			ms = int64(f)
		}
		*e = EpochMillis(ms)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*e = EpochMillis(ms)
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	*e = EpochMillis(t.UnixMilli())
	return nil
}

// LoggedEntry is a server-confirmed log record. The referenced food is denormalized
// into the display fields when it is decoded.
type LoggedEntry struct {
	ID              string      `json:"_id"`
	User            string      `json:"user"`
	Meal            string      `json:"meal"`
	MealType        MealSlot    `json:"mealType"`
	Quantity        float64     `json:"quantity"`
	LoggedAt        EpochMillis `json:"loggedAt"`
	LogDate         EpochMillis `json:"logDate"`
	Name            string      `json:"name"`
	Emoji           string      `json:"emoji"`
	Calories        float64     `json:"calories"`
	Protein         float64     `json:"protein"`
	Carbs           float64     `json:"carbs"`
	Fat             float64     `json:"fat"`
	ServingQuantity float64     `json:"servingQuantity"`
	ServingUnit     string      `json:"servingUnit"`
}

// Serving renders the serving descriptor of the referenced food
func (e LoggedEntry) Serving() string {
	if e.ServingQuantity == 0 && e.ServingUnit == "" {
		return ""
	}
	return FormatServing(e.ServingQuantity, e.ServingUnit)
}

func (e *LoggedEntry) UnmarshalJSON(data []byte) error {
	type plain LoggedEntry
	var wire struct {
		plain
		User json.RawMessage `json:"user"`
		Meal json.RawMessage `json:"meal"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*e = LoggedEntry(wire.plain)

	if len(wire.User) > 0 {
		var owner Owner
		if err := owner.UnmarshalJSON(wire.User); err != nil {
			return fmt.Errorf("decoding logged entry user: %w", err)
		}
		e.User = owner.ID
	}

	meal := bytes.TrimSpace(wire.Meal)
	switch {
	case len(meal) == 0 || bytes.Equal(meal, []byte("null")):
	case meal[0] == '"':
		if err := json.Unmarshal(meal, &e.Meal); err != nil {
			return err
		}
	default:
		var food FoodItem
		if err := json.Unmarshal(meal, &food); err != nil {
			return fmt.Errorf("decoding logged entry meal: %w", err)
		}
		e.denormalize(food)
	}
	return nil
}

func (e *LoggedEntry) denormalize(food FoodItem) {
	e.Meal = food.ID
	if e.Name == "" {
		e.Name = food.Name
	}
	if e.Emoji == "" {
		e.Emoji = food.Emoji
	}
	if e.Calories == 0 && e.Protein == 0 && e.Carbs == 0 && e.Fat == 0 {
		e.Calories = food.Calories
		e.Protein = food.Protein
		e.Carbs = food.Carbs
		e.Fat = food.Fat
	}
	if e.ServingQuantity == 0 {
		e.ServingQuantity = food.Quantity
	}
	if e.ServingUnit == "" && food.Unit.Embedded != nil {
		e.ServingUnit = food.Unit.Embedded.Label()
	}
}

// BulkLogItem is one food in a bulk log request
type BulkLogItem struct {
	Meal     string `json:"meal"`
	Quantity int    `json:"quantity"`
}

// BulkLogRequest logs several foods against a single meal slot
type BulkLogRequest struct {
	User     string        `json:"user"`
	MealType MealSlot      `json:"mealType"`
	Items    []BulkLogItem `json:"items"`
	LogDate  int64         `json:"logDate"`
	LoggedAt int64         `json:"loggedAt"`
}

// BulkLogResult summarizes a bulk log as reported by the service
type BulkLogResult struct {
	CreatedLogs   json.RawMessage `json:"createdLogs,omitempty"`
	TotalItems    int             `json:"totalItems"`
	TotalCalories float64         `json:"totalCalories"`
	TotalProtein  float64         `json:"totalProtein"`
	TotalFat      float64         `json:"totalFat"`
	TotalCarbs    float64         `json:"totalCarbs"`
	MealType      MealSlot        `json:"mealType"`
	LoggedAt      EpochMillis     `json:"loggedAt"`
}
