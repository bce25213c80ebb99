package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/platewise/internal/cli"
	"github.com/julianstephens/platewise/internal/cli/auth"
	"github.com/julianstephens/platewise/internal/cli/foods"
	"github.com/julianstephens/platewise/internal/cli/logs"
	"github.com/julianstephens/platewise/internal/cli/settings"
	"github.com/julianstephens/platewise/internal/cli/system"
	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/logger"
	"github.com/julianstephens/platewise/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/platewise/platewise.db" env:"PLATEWISE_CONFIG"`
	APIURL  string `help:"Base URL of the diet-tracking service; overrides the api_url setting." name:"api-url" env:"PLATEWISE_API_URL"`
	Debug   bool   `help:"Enable debug logging." env:"PLATEWISE_DEBUG"`

	Init      system.InitCmd     `cmd:"" help:"Initialize platewise storage."`
	Login     auth.LoginCmd      `cmd:"" help:"Log in to the service."`
	Logout    auth.LogoutCmd     `cmd:"" help:"Log out and forget the saved session."`
	Whoami    auth.WhoamiCmd     `cmd:"" help:"Show the logged-in account."`
	Tui       system.TuiCmd      `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Day       logs.DayCmd        `cmd:"" help:"Show the meals logged for a day."`
	Units     foods.UnitsCmd     `cmd:"" help:"List quantity units."`
	MealTypes foods.MealTypesCmd `cmd:"" name:"meal-types" help:"List meal types known to the service."`
	Foods     struct {
		List foods.ListCmd `cmd:"" help:"List or search the food catalog." default:"1"`
		Add  foods.AddCmd  `cmd:"" help:"Add a food to the catalog."`
	} `cmd:"" help:"Browse and extend the food catalog."`
	Log struct {
		Add logs.AddCmd `cmd:"" help:"Log foods against a meal."`
	} `cmd:"" help:"Log meals."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
}

func main() {
	// A missing .env is fine; flags and the real environment still apply.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Food logging and daily nutrition from the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	command := ""
	if ctx.Selected() != nil {
		command = ctx.Selected().Name
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
		FileOnly:  command == "tui",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	store := storage.NewSQLiteStore(CLI.Config)
	appCtx := &cli.Context{
		Store:  store,
		APIURL: CLI.APIURL,
	}

	// Load the store before running the command (Init command will handle its own loading)
	if command != "init" {
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := appCtx.Bootstrap(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
