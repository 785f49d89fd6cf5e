package mode_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fujinami-dev/fujinami/internal/mode"
)

func newMode(t *testing.T) *mode.Mode {
	t.Helper()
	return mode.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewModeStartsEnabled(t *testing.T) {
	m := newMode(t)
	assert.Equal(t, mode.Enabled, m.Current())
	assert.True(t, m.IsEnabled())
	assert.False(t, m.IsPassthrough())
}

func TestToggleFlipsBetweenEnabledAndDisabled(t *testing.T) {
	m := newMode(t)
	ctx := context.Background()

	require.NoError(t, m.Toggle(ctx))
	assert.Equal(t, mode.Disabled, m.Current())
	assert.False(t, m.IsEnabled())
	assert.True(t, m.IsPassthrough())

	require.NoError(t, m.Toggle(ctx))
	assert.Equal(t, mode.Enabled, m.Current())
}

func TestEnterPassthroughFromEnabledAndDisabled(t *testing.T) {
	ctx := context.Background()

	m := newMode(t)
	require.NoError(t, m.EnterPassthrough(ctx))
	assert.Equal(t, mode.Passthrough, m.Current())
	assert.True(t, m.IsPassthrough())
	assert.False(t, m.IsEnabled())

	m = newMode(t)
	require.NoError(t, m.Toggle(ctx))
	require.NoError(t, m.EnterPassthrough(ctx))
	assert.Equal(t, mode.Passthrough, m.Current())
}

func TestResumeReturnsToEnabled(t *testing.T) {
	m := newMode(t)
	ctx := context.Background()
	require.NoError(t, m.EnterPassthrough(ctx))

	require.NoError(t, m.Resume(ctx))
	assert.Equal(t, mode.Enabled, m.Current())
	assert.True(t, m.IsEnabled())
}

// Toggle is invalid from Passthrough: it must exit via Resume first.
func TestToggleFromPassthroughIsRejected(t *testing.T) {
	m := newMode(t)
	ctx := context.Background()
	require.NoError(t, m.EnterPassthrough(ctx))

	err := m.Toggle(ctx)
	assert.Error(t, err)
	assert.Equal(t, mode.Passthrough, m.Current(), "a rejected transition leaves the state unchanged")
}

// Resume is invalid from Enabled or Disabled.
func TestResumeOutsidePassthroughIsRejected(t *testing.T) {
	m := newMode(t)
	assert.Error(t, m.Resume(context.Background()))
	assert.Equal(t, mode.Enabled, m.Current())
}
