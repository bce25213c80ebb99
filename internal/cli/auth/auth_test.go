package auth

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/platewise/internal/cli"
	"github.com/julianstephens/platewise/internal/cli/clitest"
	"github.com/julianstephens/platewise/internal/session"
)

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := promptPassword
	promptPassword = func(io.Writer) (string, error) { return pw, nil }
	t.Cleanup(func() { promptPassword = old })
}

func TestLoginCmd(t *testing.T) {
	svc := clitest.NewService(t)
	ctx, out := clitest.NewContext(t, svc)
	stubPassword(t, svc.Password)

	require.NoError(t, (&LoginCmd{Email: svc.User.Email}).Run(ctx))
	assert.Contains(t, out.String(), "Logged in as Sam")
	assert.True(t, ctx.Session.IsAuthenticated())

	// the session survives a restart through the sqlite persister
	restored := session.New(session.NewPersister(ctx.Settings.SessionBackend, ctx.Store), nil)
	require.NoError(t, restored.Init(context.Background()))
	user, err := restored.User()
	require.NoError(t, err)
	assert.Equal(t, "usr1", user.ID)
}

func TestLoginCmdBadPassword(t *testing.T) {
	svc := clitest.NewService(t)
	ctx, _ := clitest.NewContext(t, svc)
	stubPassword(t, "wrong")

	err := (&LoginCmd{Email: svc.User.Email}).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email or password")
	assert.False(t, ctx.Session.IsAuthenticated())
}

func TestLogoutCmd(t *testing.T) {
	svc := clitest.NewService(t)
	ctx, out := clitest.NewContext(t, svc)
	clitest.Login(t, ctx, svc)

	require.NoError(t, (&LogoutCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Logged out")
	assert.False(t, ctx.Session.IsAuthenticated())

	out.Reset()
	require.NoError(t, (&LogoutCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Not logged in")
}

func TestWhoamiCmd(t *testing.T) {
	svc := clitest.NewService(t)
	ctx, out := clitest.NewContext(t, svc)

	assert.ErrorIs(t, (&WhoamiCmd{}).Run(ctx), session.ErrNotAuthenticated)

	clitest.Login(t, ctx, svc)
	require.NoError(t, (&WhoamiCmd{Remote: true}).Run(ctx))
	assert.Contains(t, out.String(), "sam@example.com")
	assert.Contains(t, out.String(), "usr1")
}

func TestWhoamiRemoteRejectedTokenLogsOut(t *testing.T) {
	svc := clitest.NewService(t)
	ctx, _ := clitest.NewContext(t, svc)
	clitest.Login(t, ctx, svc)

	svc.Mu.Lock()
	svc.Token = "rotated"
	svc.Mu.Unlock()

	err := (&WhoamiCmd{Remote: true}).Run(ctx)
	assert.ErrorIs(t, err, cli.ErrSessionExpired)
	assert.False(t, ctx.Session.IsAuthenticated())
}
