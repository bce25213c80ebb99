package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/platewise/internal/cli"
	"github.com/julianstephens/platewise/internal/lockfile"
	"github.com/julianstephens/platewise/internal/logger"
	"github.com/julianstephens/platewise/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// One dashboard at a time: it is the session's writer for as long as it runs.
	lock, err := lockfile.Acquire(lockfile.Path(ctx.ConfigDir()))
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release lockfile", "error", err)
		}
	}()
	defer ctx.Session.Teardown()

	p := tea.NewProgram(tui.NewModel(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard exited: %w", err)
	}
	return nil
}
