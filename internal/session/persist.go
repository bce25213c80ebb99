package session

import (
	"context"
	"errors"

	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/keyring"
	"github.com/julianstephens/platewise/internal/logger"
	"github.com/julianstephens/platewise/internal/storage"
)

// ErrNoSnapshot is returned by a Persister that has nothing stored
var ErrNoSnapshot = errors.New("no persisted session")

// Persister stores the serialized session snapshot
type Persister interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, snapshot string) error
	Clear(ctx context.Context) error
}

// KeyringPersister keeps the snapshot in the OS keyring
type KeyringPersister struct {
	Key string
}

func (p KeyringPersister) Load(_ context.Context) (string, error) {
	v, err := keyring.Get(p.Key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoSnapshot
	}
	return v, err
}

func (p KeyringPersister) Save(_ context.Context, snapshot string) error {
	return keyring.Set(p.Key, snapshot)
}

func (p KeyringPersister) Clear(_ context.Context) error {
	if err := keyring.Delete(p.Key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// StorePersister keeps the snapshot in the local sqlite database
type StorePersister struct {
	Store storage.Provider
	Key   string
}

func (p StorePersister) Load(ctx context.Context) (string, error) {
	v, err := p.Store.GetValue(ctx, p.Key)
	if errors.Is(err, storage.ErrValueNotFound) {
		return "", ErrNoSnapshot
	}
	return v, err
}

func (p StorePersister) Save(ctx context.Context, snapshot string) error {
	return p.Store.SetValue(ctx, p.Key, snapshot)
}

func (p StorePersister) Clear(ctx context.Context) error {
	return p.Store.DeleteValue(ctx, p.Key)
}

// NewPersister picks the configured backend. The keyring falls back to the
// database when the OS keyring cannot be reached.
func NewPersister(backend constants.SessionBackend, store storage.Provider) Persister {
	if backend == constants.SessionBackendKeyring {
		if keyring.IsAvailable() {
			return KeyringPersister{Key: constants.DefaultKeyringUser}
		}
		logger.Warn("OS keyring unavailable, keeping session in local database")
	}
	return StorePersister{Store: store, Key: constants.DefaultKeyringUser}
}
