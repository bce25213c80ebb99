package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/platewise/internal/api"
	"github.com/julianstephens/platewise/internal/cli"
	"github.com/julianstephens/platewise/internal/lockfile"
)

// promptPassword is replaced in tests
var promptPassword = cli.PromptPassword

type LoginCmd struct {
	Email string `help:"Account email; prompted for when omitted."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	lock, err := lockfile.Acquire(lockfile.Path(ctx.ConfigDir()))
	if err != nil {
		return err
	}
	defer lock.Release()

	w := ctx.Writer()
	email := strings.TrimSpace(c.Email)
	if email == "" {
		email, err = cli.Prompt(bufio.NewReader(os.Stdin), "Email: ", w)
		if err != nil {
			return err
		}
	}
	if email == "" {
		return errors.New("email is required")
	}
	password, err := promptPassword(w)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return errors.New("password is required")
	}

	if err := ctx.Session.Login(context.Background(), email, password); err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			return ctx.Check(err)
		}
		return fmt.Errorf("login failed: %s", ctx.Session.Snapshot().LastError)
	}
	user, _ := ctx.Session.User()
	fmt.Fprintf(w, "✓ Logged in as %s\n", user.DisplayName())
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	lock, err := lockfile.Acquire(lockfile.Path(ctx.ConfigDir()))
	if err != nil {
		return err
	}
	defer lock.Release()

	if !ctx.Session.IsAuthenticated() {
		fmt.Fprintln(ctx.Writer(), "Not logged in.")
		return ctx.Session.Logout(context.Background())
	}
	if err := ctx.Session.Logout(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(ctx.Writer(), "✓ Logged out")
	return nil
}

type WhoamiCmd struct {
	Remote bool `help:"Ask the service instead of reading the saved session."`
}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if c.Remote {
		user, err = ctx.API.Me(context.Background())
		if err != nil {
			return ctx.Check(err)
		}
	}

	w := ctx.Writer()
	fmt.Fprintf(w, "Name:  %s\n", user.DisplayName())
	fmt.Fprintf(w, "Email: %s\n", user.Email)
	fmt.Fprintf(w, "ID:    %s\n", user.ID)
	if exp, ok := ctx.Session.AccessTokenExpiry(); ok {
		state := "valid"
		if exp.Before(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(w, "Token: %s until %s\n", state, exp.In(ctx.Location).Format(time.RFC1123))
	}
	return nil
}
