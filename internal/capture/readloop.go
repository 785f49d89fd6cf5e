package capture

import (
	"context"
	"fmt"
	"os"

	"github.com/fujinami-dev/fujinami/internal/buffering"
	"github.com/fujinami-dev/fujinami/internal/eventqueue"
	"github.com/fujinami-dev/fujinami/internal/keycode"
)

// Forwarder emits a raw scancode/value pair unchanged, bypassing the
// buffering/mapping pipeline entirely. internal/emission's Emitter
// satisfies this via its PressKey/ReleaseKey/RepeatKey methods, called
// directly on the untranslated evdev code.
type Forwarder interface {
	PressKey(code uint16) error
	ReleaseKey(code uint16) error
	RepeatKey(code uint16) error
}

// PassthroughToggle names the key (typically ScrollLock) whose press flips
// passthrough mode, and the callback that performs the flip. The key is
// consumed entirely by ReadLoop: neither its press nor its release reaches
// the pipeline or the forwarder, in either mode — it would otherwise leak
// through as a stray keystroke exactly when the user toggles. A zero Key
// disables the feature.
type PassthroughToggle struct {
	Key  keycode.Key
	Flip func()
}

// ReadLoop reads raw events from dev until ctx is cancelled or the device
// disconnects. While isPassthrough() is false, every key press/release is
// translated into a buffering.KeyPressEvent/KeyReleaseEvent and posted to
// queue; key repeat events (value == 2) are posted as another
// KeyPressEvent for the same key, which the buffering engine recognizes as
// autorepeat of a key it already holds. While
// isPassthrough() is true (mode.Disabled or mode.Passthrough), the
// pipeline is bypassed and every event is forwarded unchanged through
// forwarder instead — since the device is grabbed exclusively, nothing
// else will deliver these keystrokes to the desktop otherwise. The toggle
// key is watched in both modes, so passthrough can always be left the same
// way it was entered.
func ReadLoop(ctx context.Context, dev *Device, queue *eventqueue.Queue[buffering.Event], isPassthrough func() bool, forwarder Forwarder, toggle PassthroughToggle) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		event, err := dev.ReadKeyEvent()
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("device disconnected: %s", dev.path)
			}
			return fmt.Errorf("reading event: %w", err)
		}

		if toggle.Key != keycode.Unknown && event.Key == toggle.Key {
			if event.Kind == KeyEventPress && toggle.Flip != nil {
				toggle.Flip()
			}
			continue
		}

		if isPassthrough != nil && isPassthrough() && forwarder != nil {
			switch event.Kind {
			case KeyEventPress:
				forwarder.PressKey(event.RawCode)
			case KeyEventRelease:
				forwarder.ReleaseKey(event.RawCode)
			case KeyEventRepeat:
				forwarder.RepeatKey(event.RawCode)
			}
			continue
		}

		if event.Key == keycode.Unknown {
			continue
		}

		switch event.Kind {
		case KeyEventPress, KeyEventRepeat:
			queue.Send(buffering.KeyPressEvent{Time: event.Time, Key: event.Key})
		case KeyEventRelease:
			queue.Send(buffering.KeyReleaseEvent{Time: event.Time, Key: event.Key})
		}
	}
}
