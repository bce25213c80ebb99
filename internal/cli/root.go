package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/platewise/internal/api"
	"github.com/julianstephens/platewise/internal/catalog"
	"github.com/julianstephens/platewise/internal/daylog"
	"github.com/julianstephens/platewise/internal/logger"
	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/notice"
	"github.com/julianstephens/platewise/internal/session"
	"github.com/julianstephens/platewise/internal/storage"
	"github.com/julianstephens/platewise/internal/submit"
	"github.com/julianstephens/platewise/internal/utils"
)

// ErrSessionExpired is returned by commands whose token the service rejected
var ErrSessionExpired = errors.New("session expired, run 'platewise login'")

// Context is shared by every command. Store is set up front; the rest is filled by Bootstrap.
type Context struct {
	Store    storage.Provider
	Settings models.Settings
	Session  *session.Store
	API      *api.Client
	Catalog  *catalog.Provider
	Notices  *notice.Board
	Location *time.Location

	// APIURL overrides the stored api_url setting when set (flag or env)
	APIURL string
	Out    io.Writer
}

// Bootstrap reads settings and wires the session, service client and catalog.
// It must run after Store.Load.
func (c *Context) Bootstrap(ctx context.Context) error {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if c.APIURL != "" {
		settings.APIURL = c.APIURL
	}
	c.Settings = settings

	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	c.Location = loc

	if c.Notices == nil {
		c.Notices = notice.NewBoard(0)
	}
	c.Session = session.New(session.NewPersister(settings.SessionBackend, c.Store), nil)

	client, err := api.New(settings.APIURL,
		api.WithTimeout(time.Duration(settings.TimeoutSec)*time.Second),
		api.WithTokenSource(c.Session),
		api.WithUnauthorizedHandler(c.Session.HandleUnauthorized),
	)
	if err != nil {
		return err
	}
	c.API = client
	c.Session.SetAuthenticator(client)
	c.Catalog = catalog.NewProvider(client)

	if err := c.Session.Init(ctx); err != nil {
		// a broken snapshot only means logging in again
		logger.Warn("session restore failed", "error", err)
	}
	return nil
}

// Writer returns the command output stream
func (c *Context) Writer() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

// ConfigDir returns the directory holding the database, logs and lockfile
func (c *Context) ConfigDir() string {
	return filepath.Dir(c.Store.GetConfigPath())
}

// RequireUser returns the logged-in user or session.ErrNotAuthenticated
func (c *Context) RequireUser() (models.User, error) {
	return c.Session.User()
}

// Reconciler builds a day log reconciler for user in the configured timezone
func (c *Context) Reconciler(user models.User) *daylog.Reconciler {
	r := daylog.New(c.Notices, daylog.WithLocation(c.Location))
	r.SetUser(user.ID)
	return r
}

// Submitter builds a bulk submitter that refreshes r after logging
func (c *Context) Submitter(r *daylog.Reconciler) *submit.Submitter {
	return submit.New(c.API, r, c.API, c.Notices)
}

// Check converts service errors into command errors. A rejected token has
// already logged the session out by the time it gets here.
func (c *Context) Check(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return ErrSessionExpired
	}
	if errors.Is(err, api.ErrUnavailable) {
		return fmt.Errorf("cannot reach %s: %w", c.Settings.APIURL, err)
	}
	return err
}

// FoodArg is a FOOD[:COUNT] command argument
type FoodArg struct {
	Query string
	Count int
}

// ParseFoodArg splits "FOOD[:COUNT]". COUNT defaults to 1 and must be positive.
func ParseFoodArg(s string) (FoodArg, error) {
	s = strings.TrimSpace(s)
	query, count := s, 1
	if i := strings.LastIndex(s, ":"); i >= 0 {
		n, err := strconv.Atoi(strings.TrimSpace(s[i+1:]))
		if err != nil {
			return FoodArg{}, fmt.Errorf("invalid count in %q", s)
		}
		query, count = strings.TrimSpace(s[:i]), n
	}
	if query == "" {
		return FoodArg{}, fmt.Errorf("missing food in %q", s)
	}
	if count < 1 {
		return FoodArg{}, fmt.Errorf("count must be at least 1 in %q", s)
	}
	return FoodArg{Query: query, Count: count}, nil
}

// ResolveFood finds a food by id, then exact name, then a unique name substring
func ResolveFood(foods []models.FoodItem, query string) (models.FoodItem, error) {
	for _, f := range foods {
		if f.ID == query {
			return f, nil
		}
	}
	for _, f := range foods {
		if strings.EqualFold(f.Name, query) {
			return f, nil
		}
	}
	matches := catalog.Search(query, foods)
	switch len(matches) {
	case 0:
		return models.FoodItem{}, fmt.Errorf("no food matches %q", query)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m.Name)
		}
		return models.FoodItem{}, fmt.Errorf("%q is ambiguous: %s", query, strings.Join(names, ", "))
	}
}
