package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/models"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "platewise.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitWritesDefaults(t *testing.T) {
	store := setupStore(t)

	info, err := os.Stat(filepath.Dir(store.GetConfigPath()))
	if err != nil {
		t.Fatalf("config dir missing: %v", err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("config dir perm = %v, want 0700", info.Mode().Perm())
	}

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("GetSettings() = %+v, want defaults", settings)
	}
}

func TestInitKeepsExistingSettings(t *testing.T) {
	store := setupStore(t)

	settings, _ := store.GetSettings()
	settings.Goals.Calories = 2400
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	store.Close()

	// Re-running init must not reset what the user chose.
	if err := store.Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	got, _ := store.GetSettings()
	if got.Goals.Calories != 2400 {
		t.Errorf("calorie goal = %v, want 2400", got.Goals.Calories)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() expected error for uninitialized storage")
	}

	initialized := setupStore(t)
	initialized.Close()
	reopened := NewSQLiteStore(initialized.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	reopened.Close()
}

func TestApplySetting(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{key: constants.SettingAPIURL, value: "https://diet.example.com/api"},
		{key: constants.SettingAPIURL, value: "not a url", wantErr: true},
		{key: constants.SettingTimeoutSec, value: "15"},
		{key: constants.SettingTimeoutSec, value: "0", wantErr: true},
		{key: constants.SettingTimezone, value: "UTC"},
		{key: constants.SettingTimezone, value: "Mars/Base", wantErr: true},
		{key: constants.SettingProteinGoal, value: "150.5"},
		{key: constants.SettingFatGoal, value: "-1", wantErr: true},
		{key: constants.SettingSessionBackend, value: "sqlite"},
		{key: constants.SettingSessionBackend, value: "file", wantErr: true},
		{key: "day_start", value: "07:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			settings := models.DefaultSettings()
			err := ApplySetting(&settings, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplySetting() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && SettingValue(settings, tt.key) != tt.value {
				t.Errorf("SettingValue() = %q, want %q", SettingValue(settings, tt.key), tt.value)
			}
		})
	}
}

func TestSessionValues(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	if _, err := store.GetValue(ctx, "session"); !errors.Is(err, ErrValueNotFound) {
		t.Errorf("GetValue() error = %v, want %v", err, ErrValueNotFound)
	}

	if err := store.SetValue(ctx, "session", "v1"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := store.SetValue(ctx, "session", "v2"); err != nil {
		t.Fatalf("SetValue() upsert error = %v", err)
	}
	got, err := store.GetValue(ctx, "session")
	if err != nil || got != "v2" {
		t.Errorf("GetValue() = %q, %v, want v2", got, err)
	}

	if err := store.DeleteValue(ctx, "session"); err != nil {
		t.Fatalf("DeleteValue() error = %v", err)
	}
	if _, err := store.GetValue(ctx, "session"); !errors.Is(err, ErrValueNotFound) {
		t.Errorf("GetValue() after delete error = %v, want %v", err, ErrValueNotFound)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/.config/platewise/platewise.db"); got != filepath.Join(home, ".config/platewise/platewise.db") {
		t.Errorf("ExpandPath() = %q", got)
	}
	if got := ExpandPath("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("ExpandPath() = %q, want unchanged", got)
	}
}
