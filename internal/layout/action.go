package layout

import "github.com/fujinami-dev/fujinami/internal/keycode"

// Emitter is the OS-facing collaborator an Action drives: synthesizing
// virtual key-down/up/repeat events and typed Unicode runes. internal/emission
// implements it over github.com/bendahl/uinput.
type Emitter interface {
	PressKey(code uint16) error
	ReleaseKey(code uint16) error
	RepeatKey(code uint16) error
	TypeRune(r rune) error
}

// Action is one step of a Command: either a KeyAction or a CharAction. The
// interface carries "press over prev" elision behavior — each concrete
// type decides, via a type assertion on prev, whether it can avoid a
// redundant release/press pair.
type Action interface {
	// Press emits this action, given the action (if any) that was active
	// immediately before it in the same transition.
	Press(e Emitter, prev Action) error
	// Repeat emits this action as an autorepeat of a key already held.
	Repeat(e Emitter, prev Action) error
	// Release tears down whatever state Press/Repeat left behind.
	Release(e Emitter) error
}

var modifierFlags = [8]keycode.Modifier{
	keycode.ShiftLeft, keycode.ShiftRight,
	keycode.ControlLeft, keycode.ControlRight,
	keycode.AltLeft, keycode.AltRight,
	keycode.OSLeft, keycode.OSRight,
}

var modifierKeyCodes = [8]uint16{
	keycode.ToKeyCode(keycode.KeyLeftShift), keycode.ToKeyCode(keycode.KeyRightShift),
	keycode.ToKeyCode(keycode.KeyLeftCtrl), keycode.ToKeyCode(keycode.KeyRightCtrl),
	keycode.ToKeyCode(keycode.KeyLeftAlt), keycode.ToKeyCode(keycode.KeyRightAlt),
	keycode.ToKeyCode(keycode.KeyLeftMeta), keycode.ToKeyCode(keycode.KeyRightMeta),
}

// transitionModifiers presses/releases the physical modifier keys needed to
// go from prev to cur, one sided flag at a time.
func transitionModifiers(e Emitter, prev, cur keycode.Modifiers) error {
	keyUp := prev &^ cur
	keyDown := cur &^ prev
	for i, flag := range modifierFlags {
		switch {
		case keyUp.Has(flag):
			if err := e.ReleaseKey(modifierKeyCodes[i]); err != nil {
				return err
			}
		case keyDown.Has(flag):
			if err := e.PressKey(modifierKeyCodes[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// pressModifiers presses every modifier bit set in mods, with no prior state.
func pressModifiers(e Emitter, mods keycode.Modifiers) error {
	for i, flag := range modifierFlags {
		if mods.Has(flag) {
			if err := e.PressKey(modifierKeyCodes[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// releaseModifiers releases every modifier bit set in mods.
func releaseModifiers(e Emitter, mods keycode.Modifiers) error {
	for i, flag := range modifierFlags {
		if mods.Has(flag) {
			if err := e.ReleaseKey(modifierKeyCodes[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// KeyAction synthesizes a key press/release with a given modifier chord,
// e.g. "Ctrl+Shift+F10".
type KeyAction struct {
	Key       keycode.Key
	Modifiers keycode.Modifiers
}

func (a KeyAction) code() uint16 { return keycode.ToKeyCode(a.Key) }

// Press emits a.
func (a KeyAction) Press(e Emitter, prev Action) error {
	if p, ok := prev.(KeyAction); ok {
		if p.code() != 0 {
			if err := e.ReleaseKey(p.code()); err != nil {
				return err
			}
		}
		if err := transitionModifiers(e, p.Modifiers, a.Modifiers); err != nil {
			return err
		}
		if a.code() == 0 {
			return nil
		}
		return e.PressKey(a.code())
	}
	if prev != nil {
		if err := prev.Release(e); err != nil {
			return err
		}
	}
	if err := pressModifiers(e, a.Modifiers); err != nil {
		return err
	}
	if a.code() == 0 {
		return nil
	}
	return e.PressKey(a.code())
}

// Repeat emits a as an autorepeat. Only front action of a Command repeats;
// see Command.Repeat.
func (a KeyAction) Repeat(e Emitter, prev Action) error {
	if p, ok := prev.(KeyAction); ok {
		if p.code() != 0 && a.code() != p.code() {
			if err := e.ReleaseKey(p.code()); err != nil {
				return err
			}
		}
		if err := transitionModifiers(e, p.Modifiers, a.Modifiers); err != nil {
			return err
		}
		if a.code() == 0 {
			return nil
		}
		if a.code() != p.code() {
			return e.PressKey(a.code())
		}
		return e.RepeatKey(a.code())
	}
	if prev != nil {
		if err := prev.Release(e); err != nil {
			return err
		}
	}
	if err := pressModifiers(e, a.Modifiers); err != nil {
		return err
	}
	if a.code() == 0 {
		return nil
	}
	return e.RepeatKey(a.code())
}

// Release tears down a's modifiers and key.
func (a KeyAction) Release(e Emitter) error {
	if err := releaseModifiers(e, a.Modifiers); err != nil {
		return err
	}
	if a.code() == 0 {
		return nil
	}
	return e.ReleaseKey(a.code())
}

// CharAction types a single Unicode codepoint via the platform's Unicode
// input method (Ctrl+Shift+U on Linux; see internal/emission). Unlike
// KeyAction, there is no sustained "held" state to elide across or
// release, so Release is a no-op.
type CharAction struct {
	Rune rune
}

// Press types a.Rune, releasing prev first unless prev was also a
// CharAction (in which case there is nothing to elide: each character is
// typed independently).
func (a CharAction) Press(e Emitter, prev Action) error {
	if _, ok := prev.(CharAction); !ok && prev != nil {
		if err := prev.Release(e); err != nil {
			return err
		}
	}
	return e.TypeRune(a.Rune)
}

// Repeat behaves exactly like Press: retyping the character is the only
// sensible interpretation of "repeat" for Unicode injection.
func (a CharAction) Repeat(e Emitter, prev Action) error {
	return a.Press(e, prev)
}

// Release is a no-op: there is no held state to release.
func (a CharAction) Release(Emitter) error { return nil }
