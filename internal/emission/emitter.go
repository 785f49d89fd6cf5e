// Package emission drives a virtual uinput keyboard as the OS-facing end of
// the pipeline, implementing layout.Emitter: direct KeyDown/KeyUp
// passthrough for KeyAction, and the Ctrl+Shift+U Unicode hex-entry method
// for CharAction, generalized to a configurable physical layout so
// TypeRune works regardless of what layout the host's virtual keyboard
// device presents to the desktop.
package emission

import (
	"fmt"
	"log/slog"

	"github.com/bendahl/uinput"

	"github.com/fujinami-dev/fujinami/internal/keycode"
)

// HexLayout names, for each hex digit 0-9a-f, which physical key produces
// it and whether Shift must be held — letting callers adapt TypeRune's
// Ctrl+Shift+U entry to whatever physical layout the virtual device's
// consumer believes it has. DefaultHexLayout assumes a QWERTY layout, where
// digits sit bare on the number row and a-f sit on their own letter keys.
type HexLayout map[rune]struct {
	Code  uint16
	Shift bool
}

// DefaultHexLayout is the QWERTY hex-entry table: digits 0-9 on the number
// row (no Shift), letters a-f on their own keys (no Shift).
func DefaultHexLayout() HexLayout {
	layout := HexLayout{}
	digits := []keycode.Key{
		keycode.Key0, keycode.Key1, keycode.Key2, keycode.Key3, keycode.Key4,
		keycode.Key5, keycode.Key6, keycode.Key7, keycode.Key8, keycode.Key9,
	}
	for i, k := range digits {
		layout[rune('0'+i)] = struct {
			Code  uint16
			Shift bool
		}{Code: keycode.ToKeyCode(k), Shift: false}
	}
	letters := map[rune]keycode.Key{
		'a': keycode.KeyA, 'b': keycode.KeyB, 'c': keycode.KeyC,
		'd': keycode.KeyD, 'e': keycode.KeyE, 'f': keycode.KeyF,
	}
	for r, k := range letters {
		layout[r] = struct {
			Code  uint16
			Shift bool
		}{Code: keycode.ToKeyCode(k), Shift: false}
	}
	return layout
}

// Emitter drives a virtual keyboard created with github.com/bendahl/uinput,
// implementing layout.Emitter.
type Emitter struct {
	keyboard  uinput.Keyboard
	logger    *slog.Logger
	hexLayout HexLayout
}

// New creates a virtual keyboard named deviceName and wraps it in an
// Emitter using layout for Unicode hex entry.
func New(deviceName string, layout HexLayout, logger *slog.Logger) (*Emitter, error) {
	kb, err := uinput.CreateKeyboard("/dev/uinput", []byte(deviceName))
	if err != nil {
		return nil, fmt.Errorf("creating virtual keyboard: %w", err)
	}
	if layout == nil {
		layout = DefaultHexLayout()
	}
	return &Emitter{keyboard: kb, logger: logger, hexLayout: layout}, nil
}

// Close releases the virtual keyboard.
func (em *Emitter) Close() error {
	return em.keyboard.Close()
}

// PressKey implements layout.Emitter.
func (em *Emitter) PressKey(code uint16) error {
	return em.keyboard.KeyDown(int(code))
}

// ReleaseKey implements layout.Emitter.
func (em *Emitter) ReleaseKey(code uint16) error {
	return em.keyboard.KeyUp(int(code))
}

// RepeatKey implements layout.Emitter. The key is already down, so another
// KeyDown is what triggers the kernel's own autorepeat rather than
// synthesizing a fresh down/up pair.
func (em *Emitter) RepeatKey(code uint16) error {
	return em.keyboard.KeyDown(int(code))
}

// TypeRune implements layout.Emitter via the Ctrl+Shift+U Unicode input
// method supported by GTK/Qt and most IBus-backed input contexts.
func (em *Emitter) TypeRune(r rune) error {
	hex := fmt.Sprintf("%x", r)

	em.logger.Debug("typing rune via ctrl+shift+u", "char", string(r), "hex", hex)

	if err := em.keyboard.KeyDown(uinput.KeyLeftctrl); err != nil {
		return err
	}
	if err := em.keyboard.KeyDown(uinput.KeyLeftshift); err != nil {
		em.keyboard.KeyUp(uinput.KeyLeftctrl)
		return err
	}
	if err := em.keyboard.KeyPress(uinput.KeyU); err != nil {
		em.keyboard.KeyUp(uinput.KeyLeftshift)
		em.keyboard.KeyUp(uinput.KeyLeftctrl)
		return err
	}
	if err := em.keyboard.KeyUp(uinput.KeyLeftshift); err != nil {
		em.keyboard.KeyUp(uinput.KeyLeftctrl)
		return err
	}
	if err := em.keyboard.KeyUp(uinput.KeyLeftctrl); err != nil {
		return err
	}

	for _, c := range hex {
		if err := em.typeHexChar(c); err != nil {
			return err
		}
	}

	return em.keyboard.KeyPress(uinput.KeySpace)
}

func (em *Emitter) typeHexChar(c rune) error {
	entry, ok := em.hexLayout[c]
	if !ok {
		return fmt.Errorf("emission: no hex layout entry for %q", c)
	}
	if !entry.Shift {
		return em.keyboard.KeyPress(int(entry.Code))
	}
	if err := em.keyboard.KeyDown(uinput.KeyLeftshift); err != nil {
		return err
	}
	if err := em.keyboard.KeyPress(int(entry.Code)); err != nil {
		em.keyboard.KeyUp(uinput.KeyLeftshift)
		return err
	}
	return em.keyboard.KeyUp(uinput.KeyLeftshift)
}
