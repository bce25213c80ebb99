package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/platewise/internal/catalog"
	"github.com/julianstephens/platewise/internal/models"
)

type loginForm struct {
	Email    string
	Password string
}

type foodForm struct {
	Name     string
	Emoji    string
	Calories string
	Protein  string
	Carbs    string
	Fat      string
	UnitID   string
	Quantity string
	Tags     string
}

func newLoginForm(fm *loginForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("email is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func newFoodForm(fm *foodForm, units []models.QuantityUnit) *huh.Form {
	options := make([]huh.Option[string], 0, len(units))
	for _, u := range units {
		options = append(options, huh.NewOption(u.Name, u.ID))
	}
	if fm.UnitID == "" && len(units) > 0 {
		fm.UnitID = units[0].ID
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					n := len([]rune(strings.TrimSpace(s)))
					if n < catalog.MinNameLength || n > catalog.MaxNameLength {
						return fmt.Errorf("name must be %d to %d characters", catalog.MinNameLength, catalog.MaxNameLength)
					}
					return nil
				}),
			huh.NewInput().
				Title("Emoji").
				Placeholder("🍽️").
				Value(&fm.Emoji),
			huh.NewInput().
				Title("Calories").
				Value(&fm.Calories).
				Validate(numberIn(0, catalog.MaxCalories, true)),
			huh.NewInput().
				Title("Protein (g)").
				Value(&fm.Protein).
				Validate(numberIn(0, catalog.MaxMacro, true)),
			huh.NewInput().
				Title("Carbs (g)").
				Value(&fm.Carbs).
				Validate(numberIn(0, catalog.MaxMacro, false)),
			huh.NewInput().
				Title("Fat (g)").
				Value(&fm.Fat).
				Validate(numberIn(0, catalog.MaxMacro, false)),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Quantity unit").
				Options(options...).
				Value(&fm.UnitID),
			huh.NewInput().
				Title("Serving quantity").
				Description("Leave empty for the unit's default").
				Value(&fm.Quantity).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || f <= 0 {
						return fmt.Errorf("quantity must be greater than 0")
					}
					return nil
				}),
			huh.NewInput().
				Title("Tags").
				Description("Comma separated").
				Value(&fm.Tags),
		),
	).WithTheme(huh.ThemeDracula())
}

func numberIn(min, max float64, required bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if required {
				return fmt.Errorf("required")
			}
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		if f < min || f > max {
			return fmt.Errorf("must be between %g and %g", min, max)
		}
		return nil
	}
}

// draft converts the form strings; range checks are left to Draft.Validate
func (fm foodForm) draft() (catalog.Draft, error) {
	d := catalog.Draft{
		Name:   fm.Name,
		Emoji:  strings.TrimSpace(fm.Emoji),
		UnitID: fm.UnitID,
	}

	parse := func(label, s string) (*float64, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", label)
		}
		return &f, nil
	}

	var err error
	if d.Calories, err = parse("calories", fm.Calories); err != nil {
		return d, err
	}
	if d.Protein, err = parse("protein", fm.Protein); err != nil {
		return d, err
	}
	for _, f := range []struct {
		label string
		in    string
		out   *float64
	}{
		{"carbs", fm.Carbs, &d.Carbs},
		{"fat", fm.Fat, &d.Fat},
		{"quantity", fm.Quantity, &d.Quantity},
	} {
		v, err := parse(f.label, f.in)
		if err != nil {
			return d, err
		}
		if v != nil {
			*f.out = *v
		}
	}

	for _, tag := range strings.Split(fm.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			d.Tags = append(d.Tags, tag)
		}
	}
	return d, nil
}
