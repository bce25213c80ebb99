package foods

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/platewise/internal/catalog"
	"github.com/julianstephens/platewise/internal/cli"
	"github.com/julianstephens/platewise/internal/models"
)

type ListCmd struct {
	Search string `help:"Only show foods whose name contains this text (case-insensitive)." short:"s"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	bg := context.Background()
	if err := ctx.Catalog.LoadUnits(bg); err != nil {
		return ctx.Check(err)
	}
	if err := ctx.Catalog.LoadFoods(bg); err != nil {
		return ctx.Check(err)
	}

	foods := ctx.Catalog.Search(c.Search)
	if len(foods) == 0 {
		fmt.Fprintln(ctx.Writer(), "No foods found.")
		return nil
	}

	t := cli.NewTable("ID", "FOOD", "SERVING", "KCAL", "PROTEIN", "CARBS", "FAT", "ADDED BY")
	for _, f := range foods {
		t.Row(f.ID, strings.TrimSpace(f.Emoji+" "+f.Name), ctx.Catalog.Serving(f),
			fmt.Sprintf("%.0f", f.Calories), fmt.Sprintf("%.1f", f.Protein),
			fmt.Sprintf("%.1f", f.Carbs), fmt.Sprintf("%.1f", f.Fat), f.AddedBy(user.ID))
	}
	fmt.Fprintln(ctx.Writer(), t)
	return nil
}

type AddCmd struct {
	Name     string   `arg:"" help:"Food name (2-50 characters)."`
	Calories float64  `help:"Calories per serving." required:""`
	Protein  float64  `help:"Protein grams per serving." required:""`
	Carbs    float64  `help:"Carbohydrate grams per serving."`
	Fat      float64  `help:"Fat grams per serving."`
	Unit     string   `help:"Quantity unit id, name or short name." required:""`
	Quantity float64  `help:"Serving size in the chosen unit; defaults to the unit's default value."`
	Emoji    string   `help:"Emoji shown next to the food; a plate when omitted."`
	Tags     []string `help:"Comma-separated tags."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Catalog.LoadUnits(context.Background()); err != nil {
		return ctx.Check(err)
	}
	unit, err := FindUnit(ctx.Catalog.Units(), c.Unit)
	if err != nil {
		return err
	}

	draft := catalog.Draft{
		Name:     c.Name,
		Emoji:    c.Emoji,
		Calories: &c.Calories,
		Protein:  &c.Protein,
		Carbs:    c.Carbs,
		Fat:      c.Fat,
		Quantity: c.Quantity,
		UnitID:   unit.ID,
		Tags:     c.Tags,
	}
	created, err := catalog.NewSubmitter(ctx.API, ctx.Catalog).Submit(context.Background(), user, draft)
	if err != nil {
		var verrs catalog.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid food: %s", verrs.Error())
		}
		return ctx.Check(err)
	}
	ctx.Catalog.Add(created)
	fmt.Fprintf(ctx.Writer(), "✓ Added %s %s (%s, %s)\n", created.Emoji, created.Name,
		models.FormatServing(created.Quantity, unit.Label()), created.ID)
	return nil
}

// FindUnit matches a unit by id, name or short name, ignoring case
func FindUnit(units []models.QuantityUnit, query string) (models.QuantityUnit, error) {
	q := strings.TrimSpace(query)
	for _, u := range units {
		if u.ID == q || strings.EqualFold(u.Name, q) || strings.EqualFold(u.ShortName, q) {
			return u, nil
		}
	}
	labels := make([]string, 0, len(units))
	for _, u := range units {
		labels = append(labels, u.Label())
	}
	sort.Strings(labels)
	return models.QuantityUnit{}, fmt.Errorf("unknown unit %q (available: %s)", query, strings.Join(labels, ", "))
}

type UnitsCmd struct{}

func (c *UnitsCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	if err := ctx.Catalog.LoadUnits(context.Background()); err != nil {
		return ctx.Check(err)
	}
	t := cli.NewTable("ID", "NAME", "SHORT", "DEFAULT", "STEP")
	for _, u := range ctx.Catalog.Units() {
		t.Row(u.ID, u.Name, u.ShortName, fmt.Sprintf("%g", u.DefaultValue), fmt.Sprintf("%g", u.Increment))
	}
	fmt.Fprintln(ctx.Writer(), t)
	return nil
}

type MealTypesCmd struct{}

func (c *MealTypesCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	if err := ctx.Catalog.LoadMealTypes(context.Background()); err != nil {
		return ctx.Check(err)
	}
	for _, t := range ctx.Catalog.MealTypes() {
		fmt.Fprintln(ctx.Writer(), t)
	}
	return nil
}
