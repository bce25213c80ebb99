package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/logger"
	"github.com/julianstephens/platewise/internal/models"
)

// ErrValidation wraps ValidationErrors so callers can match it with errors.Is
var ErrValidation = errors.New("invalid food")

// Field names used as ValidationErrors keys
const (
	FieldName     = "name"
	FieldEmoji    = "emoji"
	FieldCalories = "calories"
	FieldProtein  = "protein"
	FieldCarbs    = "carbs"
	FieldFat      = "fat"
	FieldQuantity = "quantity"
	FieldUnit     = "unit"
	FieldUser     = "user"
)

// Limits for new food definitions
const (
	MinNameLength = 2
	MaxNameLength = 50
	MaxCalories   = 10000
	MaxMacro      = 1000
)

// ValidationErrors maps a field name to what is wrong with it
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrValidation }

// Draft is a user-authored food before it is persisted. Calories and protein are
// pointers so "not entered" can be told apart from zero.
type Draft struct {
	Name     string
	Emoji    string
	Calories *float64
	Protein  *float64
	Carbs    float64
	Fat      float64
	Quantity float64
	UnitID   string
	Tags     []string
}

// UnitLookup resolves quantity units; *Provider satisfies it
type UnitLookup interface {
	Unit(ref models.UnitRef) (models.QuantityUnit, bool)
}

// Validate checks the draft against the catalog rules. A zero Quantity is
// filled from the unit's default value and an empty Emoji gets the default.
func (d *Draft) Validate(units UnitLookup) error {
	errs := ValidationErrors{}

	d.Name = strings.TrimSpace(d.Name)
	switch n := utf8.RuneCountInString(d.Name); {
	case n == 0:
		errs[FieldName] = "Food name is required"
	case n < MinNameLength:
		errs[FieldName] = fmt.Sprintf("Name must be at least %d characters", MinNameLength)
	case n > MaxNameLength:
		errs[FieldName] = fmt.Sprintf("Name must be less than %d characters", MaxNameLength)
	}

	if strings.TrimSpace(d.Emoji) == "" {
		d.Emoji = constants.DefaultFoodEmoji
	}

	checkRequired(errs, FieldCalories, "Calories", d.Calories, MaxCalories)
	checkRequired(errs, FieldProtein, "Protein", d.Protein, MaxMacro)
	checkRange(errs, FieldCarbs, "Carbs", d.Carbs, MaxMacro)
	checkRange(errs, FieldFat, "Fat", d.Fat, MaxMacro)

	unit, ok := models.QuantityUnit{}, false
	if d.UnitID == "" {
		errs[FieldUnit] = "Quantity unit is required"
	} else if unit, ok = units.Unit(models.UnitRef{ID: d.UnitID}); !ok {
		errs[FieldUnit] = fmt.Sprintf("Unknown quantity unit %q", d.UnitID)
	}

	if d.Quantity == 0 && ok {
		d.Quantity = unit.DefaultValue
	}
	if d.Quantity <= 0 {
		errs[FieldQuantity] = "Quantity must be greater than 0"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkRequired(errs ValidationErrors, field, label string, v *float64, max float64) {
	if v == nil {
		errs[field] = label + " is required"
		return
	}
	checkRange(errs, field, label, *v, max)
}

func checkRange(errs ValidationErrors, field, label string, v, max float64) {
	if v < 0 {
		errs[field] = label + " cannot be negative"
	} else if v > max {
		errs[field] = fmt.Sprintf("%s cannot exceed %g", label, max)
	}
}

// FoodCreator persists foods; *api.Client satisfies it
type FoodCreator interface {
	CreateFood(ctx context.Context, food models.FoodItem) (models.FoodItem, error)
}

// Submitter validates and submits new foods
type Submitter struct {
	creator FoodCreator
	units   UnitLookup
}

// NewSubmitter creates a submitter
func NewSubmitter(creator FoodCreator, units UnitLookup) *Submitter {
	return &Submitter{creator: creator, units: units}
}

// Submit validates the draft, creates the food owned by user and returns the persisted item
func (s *Submitter) Submit(ctx context.Context, user models.User, d Draft) (models.FoodItem, error) {
	if err := d.Validate(s.units); err != nil {
		return models.FoodItem{}, err
	}
	if user.ID == "" {
		return models.FoodItem{}, ValidationErrors{FieldUser: "User is required"}
	}

	food := models.FoodItem{
		Name:     d.Name,
		Emoji:    d.Emoji,
		Calories: *d.Calories,
		Protein:  *d.Protein,
		Carbs:    d.Carbs,
		Fat:      d.Fat,
		Quantity: d.Quantity,
		Unit:     models.UnitRef{ID: d.UnitID},
		Tags:     d.Tags,
		Owner:    &models.Owner{ID: user.ID, Name: user.Name},
	}

	created, err := s.creator.CreateFood(ctx, food)
	if err != nil {
		logger.Warn("creating food failed", "name", food.Name, "error", err)
		return models.FoodItem{}, err
	}
	if created.ID == "" {
		return models.FoodItem{}, errors.New("service returned a food without an id")
	}
	if created.Owner == nil {
		created.Owner = food.Owner
	}
	logger.Info("food created", "id", created.ID, "name", created.Name)
	return created, nil
}
