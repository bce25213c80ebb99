package logs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/platewise/internal/cli"
	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/daylog"
	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/selection"
	"github.com/julianstephens/platewise/internal/submit"
)

type DayCmd struct {
	Offset int `help:"Days back from today (0-2)." short:"o" default:"0"`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	r, err := reconcilerAt(ctx, user, c.Offset)
	if err != nil {
		return err
	}
	if err := r.Refresh(context.Background(), ctx.API); err != nil {
		return ctx.Check(err)
	}
	cli.RenderDay(ctx.Writer(), r.Label(), r.View(), ctx.Settings.Goals)
	return nil
}

// reconcilerAt walks a fresh reconciler back to offset through the same window checks the dashboard uses
func reconcilerAt(ctx *cli.Context, user models.User, offset int) (*daylog.Reconciler, error) {
	if offset < 0 {
		return nil, fmt.Errorf("offset must be between 0 and %d", constants.MaxDayOffset)
	}
	r := ctx.Reconciler(user)
	for i := 0; i < offset; i++ {
		if _, err := r.PreviousDay(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

type AddCmd struct {
	Meal   string   `help:"Meal slot: breakfast, lunch, dinner or snack." short:"m" required:""`
	Offset int      `help:"Days back from today (0-2)." short:"o" default:"0"`
	DryRun bool     `help:"Print the request instead of sending it." name:"dry-run"`
	Foods  []string `arg:"" help:"Foods as ID or NAME, optionally followed by :COUNT." name:"food"`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	slot, err := models.ParseMealSlot(c.Meal)
	if err != nil {
		return err
	}
	args := make([]cli.FoodArg, 0, len(c.Foods))
	for _, raw := range c.Foods {
		a, err := cli.ParseFoodArg(raw)
		if err != nil {
			return err
		}
		args = append(args, a)
	}

	r, err := reconcilerAt(ctx, user, c.Offset)
	if err != nil {
		return err
	}

	bg := context.Background()
	if err := ctx.Catalog.LoadFoods(bg); err != nil {
		return ctx.Check(err)
	}
	foods := ctx.Catalog.Foods()

	agg := selection.New()
	for _, a := range args {
		food, err := cli.ResolveFood(foods, a.Query)
		if err != nil {
			return err
		}
		for i := 0; i < a.Count; i++ {
			agg.SelectOrIncrement(food)
		}
	}

	sub := ctx.Submitter(r)
	w := ctx.Writer()
	if c.DryRun {
		req, err := sub.Prepare(user, slot, agg)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(req, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		totals := agg.Totals()
		fmt.Fprintf(w, "Projected: %d kcal, %.1f g protein\n", totals.Calories, totals.Protein)
		return nil
	}

	out, err := sub.Submit(bg, user, slot, agg)
	if err != nil {
		if errors.Is(err, submit.ErrEmptySelection) {
			return err
		}
		return ctx.Check(err)
	}
	fmt.Fprintf(w, "✓ %s\n\n", out.Message())
	cli.RenderDay(w, r.Label(), r.View(), ctx.Settings.Goals)
	return nil
}
