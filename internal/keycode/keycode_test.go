package keycode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fujinami-dev/fujinami/internal/keycode"
)

func TestToKeyRoundTrip(t *testing.T) {
	for _, k := range []keycode.Key{keycode.KeyA, keycode.KeyEsc, keycode.KeyRightMeta} {
		code := keycode.ToKeyCode(k)
		assert.Equal(t, k, keycode.ToKey(code))
	}
}

func TestToKeyOutOfRange(t *testing.T) {
	assert.Equal(t, keycode.Unknown, keycode.ToKey(0))
	assert.Equal(t, keycode.Unknown, keycode.ToKey(256))
	assert.Equal(t, keycode.Unknown, keycode.ToKey(65535))
}

func TestIsModifierKey(t *testing.T) {
	assert.True(t, keycode.IsModifierKey(keycode.KeyLeftShift))
	assert.True(t, keycode.IsModifierKey(keycode.KeyRightAlt))
	assert.False(t, keycode.IsModifierKey(keycode.KeyA))
}

func TestByName(t *testing.T) {
	k, ok := keycode.ByName("a")
	assert.True(t, ok)
	assert.Equal(t, keycode.KeyA, k)

	_, ok = keycode.ByName("not-a-real-key")
	assert.False(t, ok)
}

func TestParseFlowType(t *testing.T) {
	ft, ok := keycode.ParseFlowType("deferred")
	assert.True(t, ok)
	assert.Equal(t, keycode.FlowDeferred, ft)

	_, ok = keycode.ParseFlowType("nonsense")
	assert.False(t, ok)
}

func TestModifiersWithWithoutHas(t *testing.T) {
	var m keycode.Modifiers
	m = m.With(keycode.ShiftLeft).With(keycode.ControlLeft)

	assert.True(t, m.Has(keycode.ShiftLeft))
	assert.True(t, m.Has(keycode.ControlLeft))
	assert.False(t, m.Has(keycode.AltLeft))

	m = m.Without(keycode.ShiftLeft)
	assert.False(t, m.Has(keycode.ShiftLeft))
	assert.True(t, m.Has(keycode.ControlLeft))
}

func TestModifiersString(t *testing.T) {
	var m keycode.Modifiers
	assert.Equal(t, "none", m.String())

	m = m.With(keycode.ShiftLeft)
	assert.Equal(t, "shift_left", m.String())
}
