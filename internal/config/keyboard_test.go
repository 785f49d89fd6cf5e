package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fujinami-dev/fujinami/internal/config"
	"github.com/fujinami-dev/fujinami/internal/keycode"
	"github.com/fujinami-dev/fujinami/internal/keyset"
)

func writeKeyboardConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "keyboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadKeyboardConfigBuildsLayoutGraph(t *testing.T) {
	path := writeKeyboardConfig(t, `
timeout_ms: 200
auto_layout: true
default_layout: base
default_im_layout: im
layouts:
  - name: base
    flows:
      - key: "1"
        flow: deferred
    mappings:
      - keys: ["1", "2"]
        roles: [trigger, none]
        actions:
          - type: key
            key: a
            modifiers: [shift_left]
    transitions:
      - active: ["1", "2"]
        next: im
  - name: im
    mappings:
      - keys: ["3"]
        roles: [trigger]
        actions:
          - type: char
            rune: "x"
`)

	cfg, err := config.LoadKeyboardConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 200*time.Millisecond, cfg.TimeoutDuration)
	assert.True(t, cfg.HasTimeout)
	assert.True(t, cfg.AutoLayout)

	base, ok := cfg.Layout("base")
	require.True(t, ok)
	prop, ok := base.FindKeyProperty(keycode.Key1)
	require.True(t, ok)
	assert.Equal(t, keycode.FlowDeferred, prop.FlowType)

	ks := keyset.Of(keycode.Key1, keycode.Key2)
	_, ok = base.FindCommand(ks)
	assert.True(t, ok)

	next, ok := base.FindNextLayout(ks)
	require.True(t, ok)
	assert.Equal(t, "im", next.Name)

	im, ok := cfg.Layout("im")
	require.True(t, ok)
	_, ok = im.FindCommand(keyset.Of(keycode.Key3))
	assert.True(t, ok)

	def, err := cfg.Default()
	require.NoError(t, err)
	assert.Equal(t, "base", def.Name)

	defIM, err := cfg.DefaultIM()
	require.NoError(t, err)
	assert.Equal(t, "im", defIM.Name)
}

func TestLoadKeyboardConfigZeroTimeoutMeansNoTimeout(t *testing.T) {
	path := writeKeyboardConfig(t, `
layouts:
  - name: base
`)
	cfg, err := config.LoadKeyboardConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.HasTimeout)
}

func TestLoadKeyboardConfigMissingFile(t *testing.T) {
	_, err := config.LoadKeyboardConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadKeyboardConfigDuplicateLayoutName(t *testing.T) {
	path := writeKeyboardConfig(t, `
layouts:
  - name: base
  - name: base
`)
	_, err := config.LoadKeyboardConfig(path)
	assert.ErrorIs(t, err, config.ErrDuplicateLayoutName)
}

func TestLoadKeyboardConfigUnknownKeyNameInFlow(t *testing.T) {
	path := writeKeyboardConfig(t, `
layouts:
  - name: base
    flows:
      - key: not_a_key
        flow: immediate
`)
	_, err := config.LoadKeyboardConfig(path)
	assert.ErrorIs(t, err, config.ErrUnknownKeyName)
}

func TestLoadKeyboardConfigUnknownFlowTypeName(t *testing.T) {
	path := writeKeyboardConfig(t, `
layouts:
  - name: base
    flows:
      - key: "1"
        flow: nonsense
`)
	_, err := config.LoadKeyboardConfig(path)
	assert.ErrorIs(t, err, config.ErrUnknownFlowTypeName)
}

func TestLoadKeyboardConfigUnknownRoleName(t *testing.T) {
	path := writeKeyboardConfig(t, `
layouts:
  - name: base
    mappings:
      - keys: ["1"]
        roles: [bogus]
        actions:
          - type: key
            key: a
`)
	_, err := config.LoadKeyboardConfig(path)
	assert.ErrorIs(t, err, config.ErrUnknownRoleName)
}

func TestLoadKeyboardConfigUnknownModifierName(t *testing.T) {
	path := writeKeyboardConfig(t, `
layouts:
  - name: base
    mappings:
      - keys: ["1"]
        roles: [trigger]
        actions:
          - type: key
            key: a
            modifiers: [bogus_modifier]
`)
	_, err := config.LoadKeyboardConfig(path)
	assert.ErrorIs(t, err, config.ErrUnknownModifierName)
}

func TestLoadKeyboardConfigInvalidRune(t *testing.T) {
	path := writeKeyboardConfig(t, `
layouts:
  - name: base
    mappings:
      - keys: ["1"]
        roles: [trigger]
        actions:
          - type: char
            rune: "ab"
`)
	_, err := config.LoadKeyboardConfig(path)
	assert.ErrorIs(t, err, config.ErrInvalidRune)
}

func TestLoadKeyboardConfigUnknownActionType(t *testing.T) {
	path := writeKeyboardConfig(t, `
layouts:
  - name: base
    mappings:
      - keys: ["1"]
        roles: [trigger]
        actions:
          - type: bogus
`)
	_, err := config.LoadKeyboardConfig(path)
	assert.ErrorIs(t, err, config.ErrUnknownActionType)
}

func TestLoadKeyboardConfigUnknownLayoutNameInTransition(t *testing.T) {
	path := writeKeyboardConfig(t, `
layouts:
  - name: base
    transitions:
      - active: ["1"]
        next: nope
`)
	_, err := config.LoadKeyboardConfig(path)
	assert.ErrorIs(t, err, config.ErrUnknownLayoutName)
}

func TestLoadKeyboardConfigUnknownDefaultLayoutName(t *testing.T) {
	path := writeKeyboardConfig(t, `
default_layout: nope
layouts:
  - name: base
`)
	_, err := config.LoadKeyboardConfig(path)
	assert.ErrorIs(t, err, config.ErrUnknownLayoutName)
}

func TestLoadKeyboardConfigUnknownDefaultIMLayoutName(t *testing.T) {
	path := writeKeyboardConfig(t, `
default_im_layout: nope
layouts:
  - name: base
`)
	_, err := config.LoadKeyboardConfig(path)
	assert.ErrorIs(t, err, config.ErrUnknownLayoutName)
}
