package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/platewise/internal/api"
	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/logger"
	"github.com/julianstephens/platewise/internal/models"
)

// ErrNotAuthenticated is returned when an operation needs a logged-in user
var ErrNotAuthenticated = errors.New("not logged in, run 'platewise login'")

// Authenticator is the part of the service client the session lifecycle needs
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
	Logout(ctx context.Context) error
}

// State is a read-only copy of the session
type State struct {
	User            *models.User
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool

	// Transient; never persisted.
	Loading   bool
	LastError string
}

// snapshot is the persisted form. Only these fields survive a restart.
type snapshot struct {
	User            *models.User `json:"user"`
	AccessToken     string       `json:"accessToken"`
	RefreshToken    string       `json:"refreshToken"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Store is the process-wide session. Login, Logout, HandleUnauthorized, Init and
// Teardown are the only writers; everything else reads through the accessors.
type Store struct {
	mu        sync.RWMutex
	state     State
	persister Persister
	auth      Authenticator
	now       func() time.Time
}

// New creates a logged-out store. auth may be set later with SetAuthenticator,
// since the API client itself reads tokens from the store.
func New(persister Persister, auth Authenticator) *Store {
	return &Store{persister: persister, auth: auth, now: time.Now}
}

// SetAuthenticator wires the service client after construction
func (s *Store) SetAuthenticator(auth Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// Init rehydrates the persisted session. A missing or partially-formed snapshot
// leaves the store logged out; it is never an error.
func (s *Store) Init(ctx context.Context) error {
	raw, err := s.persister.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		s.reset("")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		logger.Warn("discarding unreadable session snapshot", "error", err)
		s.reset("")
		return s.clearPersisted(ctx)
	}
	if snap.User == nil || snap.User.ID == "" || !snap.IsAuthenticated {
		logger.Debug("ignoring incomplete session snapshot")
		s.reset("")
		return nil
	}

	s.mu.Lock()
	s.state = State{
		User:            snap.User,
		AccessToken:     snap.AccessToken,
		RefreshToken:    snap.RefreshToken,
		IsAuthenticated: true,
	}
	s.mu.Unlock()

	if exp, ok := tokenExpiry(snap.AccessToken); ok && exp.Before(s.now()) {
		logger.Warn("restored session has an expired access token", "expired_at", exp)
	}
	logger.Debug("session restored", "user", snap.User.ID)
	return nil
}

// Login exchanges credentials for tokens and persists the result. A failed
// login leaves the store logged out with LastError set.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	if s.auth == nil {
		s.mu.Unlock()
		return errors.New("session has no authenticator")
	}
	auth := s.auth
	s.state = State{Loading: true}
	s.mu.Unlock()

	res, err := auth.Login(ctx, email, password)
	if err != nil {
		msg := api.ServerMessage(err)
		if msg == "" {
			msg = err.Error()
		}
		s.reset(msg)
		logger.Warn("login failed", "email", email, "error", err)
		return err
	}
	if res.User.ID == "" || res.AccessToken == "" {
		s.reset("login response missing user or token")
		return errors.New("login response missing user or token")
	}

	user := res.User
	s.mu.Lock()
	s.state = State{
		User:            &user,
		AccessToken:     res.AccessToken,
		RefreshToken:    res.RefreshToken,
		IsAuthenticated: true,
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.persist(ctx, snap); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	logger.Info("logged in", "user", user.ID)
	return nil
}

// Logout tells the service (best effort) and clears local and persisted state
func (s *Store) Logout(ctx context.Context) error {
	s.mu.RLock()
	auth, wasAuthenticated := s.auth, s.state.IsAuthenticated
	s.mu.RUnlock()

	if wasAuthenticated && auth != nil {
		if err := auth.Logout(ctx); err != nil {
			logger.Warn("remote logout failed", "error", err)
		}
	}

	s.reset("")
	return s.clearPersisted(ctx)
}

// HandleUnauthorized force-logs-out after the service rejected the token.
// It is safe to call from any goroutine and is a no-op when already logged out.
func (s *Store) HandleUnauthorized() {
	s.mu.Lock()
	if !s.state.IsAuthenticated {
		s.mu.Unlock()
		return
	}
	s.state = State{LastError: constants.NoticeSessionExpired}
	s.mu.Unlock()

	logger.Warn("session rejected by service, logging out")
	if err := s.clearPersisted(context.Background()); err != nil {
		logger.Error("clearing persisted session failed", "error", err)
	}
}

// Teardown drops in-memory state at shutdown. The persisted snapshot stays for the next Init.
func (s *Store) Teardown() {
	s.reset("")
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// AccessToken satisfies api.TokenSource
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken
}

// IsAuthenticated reports whether a user is logged in
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// User returns the logged-in user or ErrNotAuthenticated
func (s *Store) User() (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.IsAuthenticated || s.state.User == nil {
		return models.User{}, ErrNotAuthenticated
	}
	return *s.state.User, nil
}

// AccessTokenExpiry returns the exp claim of the access token, if it has one
func (s *Store) AccessTokenExpiry() (time.Time, bool) {
	return tokenExpiry(s.AccessToken())
}

func (s *Store) reset(lastError string) {
	s.mu.Lock()
	s.state = State{LastError: lastError}
	s.mu.Unlock()
}

func (s *Store) snapshotLocked() snapshot {
	return snapshot{
		User:            s.state.User,
		AccessToken:     s.state.AccessToken,
		RefreshToken:    s.state.RefreshToken,
		IsAuthenticated: s.state.IsAuthenticated,
	}
}

func (s *Store) persist(ctx context.Context, snap snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.persister.Save(ctx, string(data))
}

func (s *Store) clearPersisted(ctx context.Context) error {
	if err := s.persister.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
