package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fujinami-dev/fujinami/internal/keycode"
	"github.com/fujinami-dev/fujinami/internal/layout"
)

type recordedEvent struct {
	kind string
	code uint16
	r    rune
}

type fakeEmitter struct {
	events []recordedEvent
}

func (f *fakeEmitter) PressKey(code uint16) error {
	f.events = append(f.events, recordedEvent{kind: "press", code: code})
	return nil
}

func (f *fakeEmitter) ReleaseKey(code uint16) error {
	f.events = append(f.events, recordedEvent{kind: "release", code: code})
	return nil
}

func (f *fakeEmitter) RepeatKey(code uint16) error {
	f.events = append(f.events, recordedEvent{kind: "repeat", code: code})
	return nil
}

func (f *fakeEmitter) TypeRune(r rune) error {
	f.events = append(f.events, recordedEvent{kind: "rune", r: r})
	return nil
}

func TestKeyActionPressFresh(t *testing.T) {
	e := &fakeEmitter{}
	a := layout.KeyAction{Key: keycode.KeyA, Modifiers: keycode.Modifiers(0).With(keycode.ShiftLeft)}

	require.NoError(t, a.Press(e, nil))

	require.Len(t, e.events, 2)
	assert.Equal(t, "press", e.events[0].kind)
	assert.Equal(t, keycode.ToKeyCode(keycode.KeyLeftShift), e.events[0].code)
	assert.Equal(t, "press", e.events[1].kind)
	assert.Equal(t, keycode.ToKeyCode(keycode.KeyA), e.events[1].code)
}

func TestKeyActionPressElidesOverSameType(t *testing.T) {
	e := &fakeEmitter{}
	prev := layout.KeyAction{Key: keycode.KeyA}
	cur := layout.KeyAction{Key: keycode.KeyB}

	require.NoError(t, cur.Press(e, prev))

	var releasedA, pressedB bool
	for _, ev := range e.events {
		if ev.kind == "release" && ev.code == keycode.ToKeyCode(keycode.KeyA) {
			releasedA = true
		}
		if ev.kind == "press" && ev.code == keycode.ToKeyCode(keycode.KeyB) {
			pressedB = true
		}
	}
	assert.True(t, releasedA)
	assert.True(t, pressedB)
}

func TestKeyActionRepeatSameKeyUsesRepeatKey(t *testing.T) {
	e := &fakeEmitter{}
	a := layout.KeyAction{Key: keycode.KeyA}

	require.NoError(t, a.Press(e, nil))
	e.events = nil
	require.NoError(t, a.Repeat(e, a))

	require.Len(t, e.events, 1)
	assert.Equal(t, "repeat", e.events[0].kind)
}

func TestKeyActionRelease(t *testing.T) {
	e := &fakeEmitter{}
	a := layout.KeyAction{Key: keycode.KeyA, Modifiers: keycode.Modifiers(0).With(keycode.ControlLeft)}

	require.NoError(t, a.Release(e))

	require.Len(t, e.events, 2)
	assert.Equal(t, "release", e.events[0].kind)
	assert.Equal(t, keycode.ToKeyCode(keycode.KeyLeftCtrl), e.events[0].code)
	assert.Equal(t, "release", e.events[1].kind)
	assert.Equal(t, keycode.ToKeyCode(keycode.KeyA), e.events[1].code)
}

func TestCharActionPressReleasesPrecedingKeyAction(t *testing.T) {
	e := &fakeEmitter{}
	prev := layout.KeyAction{Key: keycode.KeyA}
	cur := layout.CharAction{Rune: 'e'}

	require.NoError(t, cur.Press(e, prev))

	require.Len(t, e.events, 2)
	assert.Equal(t, "release", e.events[0].kind)
	assert.Equal(t, "rune", e.events[1].kind)
	assert.Equal(t, 'e', e.events[1].r)
}

func TestCharActionPressDoesNotElideOverAnotherCharAction(t *testing.T) {
	e := &fakeEmitter{}
	prev := layout.CharAction{Rune: 'a'}
	cur := layout.CharAction{Rune: 'b'}

	require.NoError(t, cur.Press(e, prev))

	require.Len(t, e.events, 1)
	assert.Equal(t, "rune", e.events[0].kind)
	assert.Equal(t, 'b', e.events[0].r)
}

func TestCharActionReleaseIsNoop(t *testing.T) {
	e := &fakeEmitter{}
	a := layout.CharAction{Rune: 'x'}
	require.NoError(t, a.Release(e))
	assert.Empty(t, e.events)
}
