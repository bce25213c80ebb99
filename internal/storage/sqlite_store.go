package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/platewise/internal/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteStore keeps settings and the persisted session in a local sqlite file
type SQLiteStore struct {
	path string
	db   *sql.DB
}

// NewSQLiteStore creates a store for path; a leading "~" is expanded to the home directory
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: ExpandPath(path)}
}

// ExpandPath replaces a leading "~" with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if _, err := s.runner().Apply(context.Background()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Fill in any setting that is missing, keeping values the user already chose.
	settings, err := s.GetSettings()
	if err != nil {
		return err
	}
	return s.SaveSettings(settings)
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'platewise init' first")
	}

	if err := s.open(); err != nil {
		return err
	}
	return s.runner().Validate(context.Background())
}

func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps writes from the TUI's command goroutines serialized.
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *SQLiteStore) runner() *migration.Runner {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return migration.NewRunner(s.db, sub)
}

// SchemaVersions reports the applied and the latest embedded schema versions
func (s *SQLiteStore) SchemaVersions(ctx context.Context) (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, fmt.Errorf("database not open")
	}
	r := s.runner()
	if current, err = r.CurrentVersion(ctx); err != nil {
		return 0, 0, err
	}
	if latest, err = r.LatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

var _ Provider = (*SQLiteStore)(nil)
