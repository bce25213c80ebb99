package settings

import (
	"fmt"

	"github.com/julianstephens/platewise/internal/cli"
	"github.com/julianstephens/platewise/internal/storage"
)

type SettingsCmd struct {
	List ListCmd `cmd:"" help:"List current settings." default:"1"`
	Set  SetCmd  `cmd:"" help:"Change one setting."`
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	w := ctx.Writer()
	fmt.Fprintln(w, "Current Settings:")
	for _, key := range storage.SettingKeys() {
		fmt.Fprintf(w, "  %-16s %s\n", key, storage.SettingValue(settings, key))
	}
	if ctx.APIURL != "" && ctx.APIURL != settings.APIURL {
		fmt.Fprintf(w, "\n  api_url is overridden by flag or environment: %s\n", ctx.APIURL)
	}
	return nil
}

type SetCmd struct {
	Key   string `arg:"" help:"Setting name, e.g. calorie_goal."`
	Value string `arg:"" help:"New value."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := storage.ApplySetting(&settings, c.Key, c.Value); err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Fprintf(ctx.Writer(), "Settings updated: %s = %s\n", c.Key, storage.SettingValue(settings, c.Key))
	return nil
}
