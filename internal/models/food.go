package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FoodItem is a catalog entry. ID is empty for drafts that have not been persisted.
// Nutrient values are per serving (Quantity of Unit).
type FoodItem struct {
	ID       string   `json:"_id,omitempty"`
	Name     string   `json:"name"`
	Emoji    string   `json:"emoji"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Quantity float64  `json:"quantity"`
	Unit     UnitRef  `json:"quantityUnit"`
	Tags     []string `json:"tags,omitempty"`
	Owner    *Owner   `json:"user,omitempty"`
}

// AddedBy returns the name to show in the "added by" badge for the given viewer.
// Global foods and the viewer's own foods have no badge.
func (f FoodItem) AddedBy(viewerID string) string {
	if f.Owner == nil || f.Owner.ID == "" || f.Owner.ID == viewerID {
		return ""
	}
	if f.Owner.Name != "" {
		return f.Owner.Name
	}
	return f.Owner.ID
}

// QuantityUnit is a unit of serving measurement
type QuantityUnit struct {
	ID           string  `json:"_id"`
	Name         string  `json:"name"`
	ShortName    string  `json:"shortName"`
	DefaultValue float64 `json:"defaultValue"`
	Increment    float64 `json:"increment"`
}

// Label returns the short name when present, else the full name
func (u QuantityUnit) Label() string {
	if u.ShortName != "" {
		return u.ShortName
	}
	return u.Name
}

// UnitRef references a QuantityUnit by id. The service sends either the bare id or
// the embedded unit; both decode to the id, and the embedded copy is kept when present.
type UnitRef struct {
	ID       string
	Embedded *QuantityUnit
}

func (r UnitRef) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

func (r *UnitRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = UnitRef{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = UnitRef{ID: id}
		return nil
	}
	var u QuantityUnit
	if err := json.Unmarshal(data, &u); err != nil {
		return fmt.Errorf("decoding quantity unit: %w", err)
	}
	*r = UnitRef{ID: u.ID, Embedded: &u}
	return nil
}

// Owner identifies the user who contributed a food
type Owner struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// MarshalJSON sends the owner as its id, which is what the service expects on create.
func (o Owner) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.ID)
}

func (o *Owner) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = Owner{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*o = Owner{ID: id}
		return nil
	}
	var raw struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding food owner: %w", err)
	}
	*o = Owner{ID: raw.ID, Name: raw.Name}
	return nil
}

// FormatServing renders a serving descriptor such as "100 g"
func FormatServing(quantity float64, unit string) string {
	q := strconv.FormatFloat(quantity, 'f', -1, 64)
	if unit == "" {
		return q
	}
	return q + " " + unit
}
