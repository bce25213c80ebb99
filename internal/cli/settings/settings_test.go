package settings

import (
	"strings"
	"testing"

	"github.com/julianstephens/platewise/internal/cli/clitest"
)

func TestListCmd(t *testing.T) {
	svc := clitest.NewService(t)
	ctx, out := clitest.NewContext(t, svc)

	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	s := out.String()
	for _, want := range []string{"calorie_goal", "2000", "session_backend", "sqlite", "overridden"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}

func TestSetCmd(t *testing.T) {
	svc := clitest.NewService(t)
	ctx, out := clitest.NewContext(t, svc)

	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{key: "calorie_goal", value: "2200"},
		{key: "protein_goal", value: "150.5"},
		{key: "timezone", value: "America/New_York"},
		{key: "calorie_goal", value: "-1", wantErr: true},
		{key: "timeout_sec", value: "0", wantErr: true},
		{key: "api_url", value: "ftp://nope", wantErr: true},
		{key: "colour", value: "blue", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := (&SetCmd{Key: tt.key, Value: tt.value}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.Goals.Calories != 2200 {
		t.Errorf("calorie goal = %v, want 2200", settings.Goals.Calories)
	}
	if settings.Goals.Protein != 150.5 {
		t.Errorf("protein goal = %v, want 150.5", settings.Goals.Protein)
	}
	if settings.Timezone != "America/New_York" {
		t.Errorf("timezone = %q", settings.Timezone)
	}
	if !strings.Contains(out.String(), "calorie_goal = 2200") {
		t.Errorf("unexpected output: %s", out.String())
	}
}
