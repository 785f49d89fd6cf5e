// Package buffering implements the first stage of the two-stage pipeline:
// recognizing chords, dual-role keys, and simultaneous presses out of a
// stream of raw key press/release events, and emitting resolved keyset
// transitions downstream to the mapping stage.
package buffering

import (
	"time"

	"github.com/fujinami-dev/fujinami/internal/keycode"
	"github.com/fujinami-dev/fujinami/internal/layout"
)

// Event is one entry on the buffering engine's pending-event queue.
type Event interface {
	isBufferingEvent()
}

// KeyPressEvent records a physical key going down at time Time.
type KeyPressEvent struct {
	Time time.Time
	Key  keycode.Key
}

// KeyReleaseEvent records a physical key going up at time Time.
type KeyReleaseEvent struct {
	Time time.Time
	Key  keycode.Key
}

// DefaultLayoutEvent installs the layouts the engine falls back to: Default
// when no mode is explicitly active, DefaultIM when auto-layout detects an
// active IME composition (see internal/imeprobe).
type DefaultLayoutEvent struct {
	Default   *layout.Layout
	DefaultIM *layout.Layout
}

// ControlEvent (re)configures the engine. A nil Config disables it (the
// engine reverts to an unconfigured, idle state).
type ControlEvent struct {
	Config *layout.Config
}

func (KeyPressEvent) isBufferingEvent()      {}
func (KeyReleaseEvent) isBufferingEvent()    {}
func (DefaultLayoutEvent) isBufferingEvent() {}
func (ControlEvent) isBufferingEvent()       {}
