package system

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/julianstephens/platewise/internal/cli"
	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/keyring"
	"github.com/julianstephens/platewise/internal/storage"
	"github.com/julianstephens/platewise/internal/utils"
)

type DoctorCmd struct{}

// skipError marks a check that could not run
type skipError string

func (e skipError) Error() string { return string(e) }

type check struct {
	name string
	// warnOnly checks never fail the run
	warnOnly bool
	run      func(ctx *cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	w := ctx.Writer()
	fmt.Fprintln(w, "Running diagnostics...")
	fmt.Fprintln(w)

	checks := []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Migrations complete", run: checkMigrationsComplete},
		{name: "Settings valid", run: checkSettings},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "Session storage", warnOnly: true, run: checkSessionStorage},
		{name: "Session token", warnOnly: true, run: checkSessionToken},
		{name: "Service reachable", run: checkService},
	}

	hasError := false
	for _, c := range checks {
		if !report(w, c, c.run(ctx)) {
			hasError = true
		}
	}

	fmt.Fprintln(w)
	if hasError {
		fmt.Fprintln(w, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Fprintln(w, "All diagnostics passed!")
	return nil
}

// report prints one result and returns false when it should fail the run
func report(w io.Writer, c check, err error) bool {
	var skip skipError
	switch {
	case err == nil:
		fmt.Fprintf(w, "✓ %s: OK\n", c.name)
	case errors.As(err, &skip):
		fmt.Fprintf(w, "⊘ %s: SKIPPED (%s)\n", c.name, skip)
	case c.warnOnly:
		fmt.Fprintf(w, "⚠ %s: WARNING\n", c.name)
		fmt.Fprintf(w, "   %v\n", err)
	default:
		fmt.Fprintf(w, "❌ %s: FAIL\n", c.name)
		fmt.Fprintf(w, "   Error: %v\n", err)
		return false
	}
	return true
}

func checkDBReachable(ctx *cli.Context) error {
	db := ctx.Store.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	var result int
	if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return skipError("not a sqlite store")
	}
	current, latest, err := sqliteStore.SchemaVersions(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	for _, key := range storage.SettingKeys() {
		probe := settings
		if err := storage.ApplySetting(&probe, key, storage.SettingValue(settings, key)); err != nil {
			return err
		}
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now, err := utils.NowInTimezone(ctx.Settings.Timezone)
	if err != nil {
		return err
	}
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkSessionStorage(ctx *cli.Context) error {
	if ctx.Settings.SessionBackend != constants.SessionBackendKeyring {
		return nil
	}
	if !keyring.IsAvailable() {
		return fmt.Errorf("%w; sessions are kept in the local database instead", keyring.ErrKeyringUnavailable)
	}
	return nil
}

func checkSessionToken(ctx *cli.Context) error {
	if !ctx.Session.IsAuthenticated() {
		return fmt.Errorf("not logged in, run 'platewise login'")
	}
	if exp, ok := ctx.Session.AccessTokenExpiry(); ok && exp.Before(time.Now()) {
		return fmt.Errorf("access token expired at %s", exp.Format(time.RFC3339))
	}
	return nil
}

func checkService(ctx *cli.Context) error {
	if !ctx.Session.IsAuthenticated() {
		return skipError("not logged in")
	}
	if _, err := ctx.API.Me(context.Background()); err != nil {
		return ctx.Check(err)
	}
	return nil
}
