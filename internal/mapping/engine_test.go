package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fujinami-dev/fujinami/internal/keycode"
	"github.com/fujinami-dev/fujinami/internal/keyset"
	"github.com/fujinami-dev/fujinami/internal/layout"
	"github.com/fujinami-dev/fujinami/internal/mapping"
)

type recordedEvent struct {
	kind string
	code uint16
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
	f.events = append(f.events, recordedEvent{kind: "rune"})
	return nil
}

func buildLayout(t *testing.T, key keycode.Key, action layout.KeyAction) *layout.Layout {
	t.Helper()
	l := layout.NewLayout("base")
	require.NoError(t, l.CreateMapping(
		[]keycode.Key{key}, []layout.KeyRole{layout.RoleTrigger}, layout.NewCommand(action)))
	return l
}

// A press against an unknown (unmapped) keyset releases whatever command
// was previously held, same as a release event would.
func TestUpdatePressUnmappedKeysetReleasesPrevious(t *testing.T) {
	e := &fakeEmitter{}
	m := mapping.NewEngine(e)
	l := buildLayout(t, keycode.Key1, layout.KeyAction{Key: keycode.KeyA})

	require.NoError(t, m.Update(mapping.LayoutEvent{Layout: l}))
	require.NoError(t, m.Update(mapping.KeyPressEvent{ActiveKeyset: keyset.Of(keycode.Key1)}))
	e.events = nil

	require.NoError(t, m.Update(mapping.KeyPressEvent{ActiveKeyset: keyset.Of(keycode.Key9)}))
	require.Len(t, e.events, 1)
	assert.Equal(t, "release", e.events[0].kind)
	assert.Equal(t, keycode.ToKeyCode(keycode.KeyA), e.events[0].code)
}

// A press against a mapped keyset runs its Command and remembers it as the
// previously held command for the next transition's elision.
func TestUpdatePressRunsMappedCommand(t *testing.T) {
	e := &fakeEmitter{}
	m := mapping.NewEngine(e)
	l := buildLayout(t, keycode.Key1, layout.KeyAction{Key: keycode.KeyA})
	require.NoError(t, m.Update(mapping.LayoutEvent{Layout: l}))

	require.NoError(t, m.Update(mapping.KeyPressEvent{ActiveKeyset: keyset.Of(keycode.Key1)}))

	require.Len(t, e.events, 1)
	assert.Equal(t, "press", e.events[0].kind)
	assert.Equal(t, keycode.ToKeyCode(keycode.KeyA), e.events[0].code)
}

// A second chord's press is a single transition from the first: since
// Command.Press always hands the previously held command to the new one,
// the old key is released and the new key pressed, with no separate
// release of the whole previous command.
func TestUpdatePressElidesAgainstPreviousCommand(t *testing.T) {
	e := &fakeEmitter{}
	m := mapping.NewEngine(e)
	l := layout.NewLayout("base")
	require.NoError(t, l.CreateMapping(
		[]keycode.Key{keycode.Key1}, []layout.KeyRole{layout.RoleTrigger},
		layout.NewCommand(layout.KeyAction{Key: keycode.KeyA})))
	require.NoError(t, l.CreateMapping(
		[]keycode.Key{keycode.Key2}, []layout.KeyRole{layout.RoleTrigger},
		layout.NewCommand(layout.KeyAction{Key: keycode.KeyB})))
	require.NoError(t, m.Update(mapping.LayoutEvent{Layout: l}))

	require.NoError(t, m.Update(mapping.KeyPressEvent{ActiveKeyset: keyset.Of(keycode.Key1)}))
	e.events = nil

	require.NoError(t, m.Update(mapping.KeyPressEvent{ActiveKeyset: keyset.Of(keycode.Key2)}))

	require.Len(t, e.events, 2)
	assert.Equal(t, "release", e.events[0].kind)
	assert.Equal(t, keycode.ToKeyCode(keycode.KeyA), e.events[0].code)
	assert.Equal(t, "press", e.events[1].kind)
	assert.Equal(t, keycode.ToKeyCode(keycode.KeyB), e.events[1].code)
}

// A repeat event for the held trigger re-emits via RepeatKey rather than a
// fresh PressKey.
func TestUpdateRepeatUsesRepeatKey(t *testing.T) {
	e := &fakeEmitter{}
	m := mapping.NewEngine(e)
	l := buildLayout(t, keycode.Key1, layout.KeyAction{Key: keycode.KeyA})
	require.NoError(t, m.Update(mapping.LayoutEvent{Layout: l}))
	require.NoError(t, m.Update(mapping.KeyPressEvent{ActiveKeyset: keyset.Of(keycode.Key1)}))
	e.events = nil

	require.NoError(t, m.Update(mapping.KeyRepeatEvent{ActiveKeyset: keyset.Of(keycode.Key1)}))

	require.Len(t, e.events, 1)
	assert.Equal(t, "repeat", e.events[0].kind)
	assert.Equal(t, keycode.ToKeyCode(keycode.KeyA), e.events[0].code)
}

// A release event always closes out the held command, regardless of its
// ActiveKeyset contents.
func TestUpdateReleaseClosesHeldCommand(t *testing.T) {
	e := &fakeEmitter{}
	m := mapping.NewEngine(e)
	l := buildLayout(t, keycode.Key1, layout.KeyAction{Key: keycode.KeyA})
	require.NoError(t, m.Update(mapping.LayoutEvent{Layout: l}))
	require.NoError(t, m.Update(mapping.KeyPressEvent{ActiveKeyset: keyset.Of(keycode.Key1)}))
	e.events = nil

	require.NoError(t, m.Update(mapping.KeyReleaseEvent{ActiveKeyset: keyset.Of(keycode.Key1)}))

	require.Len(t, e.events, 1)
	assert.Equal(t, "release", e.events[0].kind)
	assert.Equal(t, keycode.ToKeyCode(keycode.KeyA), e.events[0].code)
}

// Close is a no-op when nothing is held.
func TestCloseNoopWithNoHeldCommand(t *testing.T) {
	e := &fakeEmitter{}
	m := mapping.NewEngine(e)
	require.NoError(t, m.Close())
	assert.Empty(t, e.events)
}

// Reset releases any held command and forgets the active layout, so a
// subsequent press against the previous layout's keyset resolves as
// unmapped.
func TestResetForgetsLayoutAndReleasesHeld(t *testing.T) {
	e := &fakeEmitter{}
	m := mapping.NewEngine(e)
	l := buildLayout(t, keycode.Key1, layout.KeyAction{Key: keycode.KeyA})
	require.NoError(t, m.Update(mapping.LayoutEvent{Layout: l}))
	require.NoError(t, m.Update(mapping.KeyPressEvent{ActiveKeyset: keyset.Of(keycode.Key1)}))
	e.events = nil

	require.NoError(t, m.Reset())
	require.Len(t, e.events, 1)
	assert.Equal(t, "release", e.events[0].kind)

	e.events = nil
	require.NoError(t, m.Update(mapping.KeyPressEvent{ActiveKeyset: keyset.Of(keycode.Key1)}))
	assert.Empty(t, e.events, "layout was forgotten by Reset, so the keyset no longer resolves")
}
