package system

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/platewise/internal/cli"
	"github.com/julianstephens/platewise/internal/storage"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string, *bytes.Buffer) {
	dbPath := filepath.Join(t.TempDir(), "nested", "platewise.db")
	store := storage.NewSQLiteStore(dbPath)
	out := &bytes.Buffer{}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	return &cli.Context{Store: store, Out: out}, dbPath, out
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, out := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
	if !strings.Contains(out.String(), "Initialized platewise storage at: "+dbPath) {
		t.Errorf("unexpected output: %q", out.String())
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	if settings.Goals.Calories != 2000 {
		t.Errorf("expected default calorie goal 2000, got %v", settings.Goals.Calories)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, _ := setupTestInitDB(t)
	cmd := &InitCmd{}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	setProteinGoal(t, ctx, 150)

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second init failed (should be idempotent): %v", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	if settings.Goals.Protein != 150 {
		t.Errorf("re-init overwrote protein goal: got %v", settings.Goals.Protein)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, dbPath, out := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	setProteinGoal(t, ctx, 150)

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("force init failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing database at: "+dbPath) {
		t.Errorf("expected deletion message, got %q", out.String())
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	if settings.Goals.Protein != 180 {
		t.Errorf("expected protein goal reset to 180, got %v", settings.Goals.Protein)
	}
}

func setProteinGoal(t *testing.T, ctx *cli.Context, goal float64) {
	t.Helper()
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	settings.Goals.Protein = goal
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
}
