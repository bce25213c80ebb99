package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/julianstephens/platewise/internal/models"
)

// ErrValueNotFound is returned when no session value is stored under a key
var ErrValueNotFound = errors.New("value not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Session values
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error

	// Utils
	GetConfigPath() string
	GetDB() *sql.DB
}
