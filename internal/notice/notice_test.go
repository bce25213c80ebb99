package notice

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardCurrentExpires(t *testing.T) {
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	b := NewBoard(4 * time.Second)
	b.now = func() time.Time { return base }

	_, ok := b.Current(base)
	assert.False(t, ok)

	b.Warn("first")
	b.Error("second")

	n, ok := b.Current(base.Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, "second", n.Text)
	assert.Equal(t, LevelError, n.Level)

	_, ok = b.Current(base.Add(4 * time.Second))
	assert.False(t, ok)

	latest, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, "second", latest.Text)
}

func TestBoardDefaultsAndClear(t *testing.T) {
	b := NewBoard(0)
	assert.Greater(t, b.ttl, time.Duration(0))

	b.Info("hello")
	assert.Equal(t, 1, b.Len())
	b.Clear()
	assert.Equal(t, 0, b.Len())
	_, ok := b.Latest()
	assert.False(t, ok)
}

func TestBoardKeepsShortHistory(t *testing.T) {
	b := NewBoard(time.Minute)
	for i := 0; i < 40; i++ {
		b.Info(fmt.Sprintf("n%d", i))
	}
	assert.Equal(t, 16, b.Len())
	n, _ := b.Latest()
	assert.Equal(t, "n39", n.Text)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
}
