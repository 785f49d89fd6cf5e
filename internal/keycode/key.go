// Package keycode defines the abstract Key symbol the buffering engine
// operates on, the sided Modifiers flag set, and the per-Key FlowType tag
// that selects which flow interprets a freshly pressed key.
package keycode

// KeyCount bounds the range of a valid Key: [0, KeyCount). Key(0) is the
// unknown key and is always ignored by every Keyset and flow operation.
const KeyCount = 256

// Key is an opaque small-integer symbol for a physical key. The core never
// interprets its value beyond equality and array indexing; platform code is
// responsible for translating native scancodes into Key (see ToKey and
// ToKeyCode in linux.go) and back.
type Key uint8

// Unknown is the reserved "no key" value. Keyset.Add/Remove silently
// ignore it.
const Unknown Key = 0

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "key(" + itoa(uint8(k)) + ")"
}

func itoa(v uint8) string {
	if v == 0 {
		return "0"
	}
	var buf [3]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// FlowType tags a Key with the buffering flow that activates when it is
// pressed fresh (from an UNKNOWN engine state).
type FlowType uint8

const (
	FlowUnknown FlowType = iota
	FlowImmediate
	FlowDeferred
	FlowSimul
	FlowDual
)

func (f FlowType) String() string {
	switch f {
	case FlowImmediate:
		return "IMMEDIATE"
	case FlowDeferred:
		return "DEFERRED"
	case FlowSimul:
		return "SIMUL"
	case FlowDual:
		return "DUAL"
	default:
		return "UNKNOWN"
	}
}

// ParseFlowType maps a config-file flow name to a FlowType. ok is false for
// an unrecognized name.
func ParseFlowType(name string) (FlowType, bool) {
	switch name {
	case "immediate":
		return FlowImmediate, true
	case "deferred":
		return FlowDeferred, true
	case "simul":
		return FlowSimul, true
	case "dual":
		return FlowDual, true
	default:
		return FlowUnknown, false
	}
}

// KeyProperty is the immutable per-Key metadata a Layout attaches to a Key:
// which flow activates it. The zero value is KeyProperty{FlowUnknown}, i.e.
// "no flow registered for this key."
type KeyProperty struct {
	FlowType FlowType
}

// Modifier is one of the 8 sided keyboard modifiers.
type Modifier uint16

const (
	ShiftLeft Modifier = 1 << iota
	ShiftRight
	ControlLeft
	ControlRight
	AltLeft
	AltRight
	OSLeft
	OSRight
)

// Modifiers is a flag set over the sided Modifier bits. It is an attribute
// of an emitted action, not of Key.
type Modifiers uint16

// Has reports whether m includes every bit set in flags.
func (m Modifiers) Has(flags Modifier) bool {
	return Modifiers(flags)&m == Modifiers(flags)
}

// With returns a copy of m with flags set.
func (m Modifiers) With(flags Modifier) Modifiers {
	return m | Modifiers(flags)
}

// Without returns a copy of m with flags cleared.
func (m Modifiers) Without(flags Modifier) Modifiers {
	return m &^ Modifiers(flags)
}

func (m Modifiers) String() string {
	names := []struct {
		bit  Modifier
		name string
	}{
		{ShiftLeft, "shift_left"}, {ShiftRight, "shift_right"},
		{ControlLeft, "control_left"}, {ControlRight, "control_right"},
		{AltLeft, "alt_left"}, {AltRight, "alt_right"},
		{OSLeft, "os_left"}, {OSRight, "os_right"},
	}
	out := ""
	for _, n := range names {
		if m.Has(n.bit) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	if out == "" {
		return "none"
	}
	return out
}
