package layout

import (
	"errors"
	"weak"

	"github.com/fujinami-dev/fujinami/internal/keycode"
	"github.com/fujinami-dev/fujinami/internal/keyset"
)

// MaxActiveKeyCount bounds how many keys a single chord may name. Keyset
// itself can hold far more members; this cap only applies to the keys
// passed to a single CreateMapping call, since subset enumeration there
// is 2^n.
const MaxActiveKeyCount = 64

var (
	ErrInvalidKey       = errors.New("layout: invalid key")
	ErrInvalidRole      = errors.New("layout: invalid role")
	ErrInvalidFlowType  = errors.New("layout: invalid flow type")
	ErrDuplicateMapping = errors.New("layout: duplicate mapping")
	ErrKeyRoleMismatch  = errors.New("layout: keys and roles length mismatch")
	ErrTooManyKeys      = errors.New("layout: chord exceeds max active key count")
	ErrEmptyChord       = errors.New("layout: chord has no keys")
)

// KeyRole tags how one key of a chord participates in CreateMapping: as the
// key whose release commits the command, as a modifier contributing flags
// but not itself committing, or as neither (present but otherwise inert).
type KeyRole uint8

const (
	RoleNone KeyRole = iota
	RoleTrigger
	RoleModifier
)

// Layout is the immutable (once built) per-mode mapping table: which flow
// governs each key, which keysets are recognized prefixes or complete
// chords, what Command each chord runs, and which Layout to switch to after
// a chord fires.
//
// next-layout transitions are held as weak.Pointer: a Config's layouts can
// form a cyclic graph (layout A transitions to B, B transitions back to A),
// and an ordinary pointer would keep every layout in the cycle alive
// forever once any one of them is reachable. weak.Pointer lets the Config
// (the sole owner) be the only strong reference.
type Layout struct {
	Name string

	keyProperties    [keycode.KeyCount]keycode.KeyProperty
	keysetProperties map[keyset.Keyset]KeysetProperty
	commands         map[keyset.Keyset]Command
	nextLayouts      map[keyset.Keyset]weak.Pointer[Layout]
}

// NewLayout returns an empty, ready-to-build Layout.
func NewLayout(name string) *Layout {
	return &Layout{
		Name:             name,
		keysetProperties: make(map[keyset.Keyset]KeysetProperty),
		commands:         make(map[keyset.Keyset]Command),
		nextLayouts:      make(map[keyset.Keyset]weak.Pointer[Layout]),
	}
}

// CreateFlow registers which flow governs key when it is pressed fresh from
// an idle engine state. Each key may only be assigned once.
func (l *Layout) CreateFlow(key keycode.Key, flowType keycode.FlowType) error {
	if key == keycode.Unknown {
		return ErrInvalidKey
	}
	if flowType == keycode.FlowUnknown {
		return ErrInvalidFlowType
	}
	if l.keyProperties[key].FlowType != keycode.FlowUnknown {
		return ErrDuplicateMapping
	}
	l.keyProperties[key] = keycode.KeyProperty{FlowType: flowType}
	return nil
}

// FindKeyProperty reports the flow governing key, if one was registered.
func (l *Layout) FindKeyProperty(key keycode.Key) (keycode.KeyProperty, bool) {
	if key == keycode.Unknown {
		return keycode.KeyProperty{}, false
	}
	p := l.keyProperties[key]
	return p, p.FlowType != keycode.FlowUnknown
}

// CreateMapping registers a chord: the full keyset of keys (tagged with
// roles) commits cmd. Every proper, non-empty subset of keys is also
// registered (or updated) as a NODE, so that a flow recognizing the chord
// incrementally can always answer "is this prefix still worth extending".
func (l *Layout) CreateMapping(keys []keycode.Key, roles []KeyRole, cmd Command) error {
	if len(keys) == 0 {
		return ErrEmptyChord
	}
	if len(keys) != len(roles) {
		return ErrKeyRoleMismatch
	}
	if len(keys) >= MaxActiveKeyCount {
		return ErrTooManyKeys
	}
	for i, k := range keys {
		if k == keycode.Unknown {
			return ErrInvalidKey
		}
		switch roles[i] {
		case RoleNone, RoleTrigger, RoleModifier:
		default:
			return ErrInvalidRole
		}
	}

	full := keyset.Of(keys...)
	if _, ok := l.commands[full]; ok {
		return ErrDuplicateMapping
	}

	var trigger, modifier keyset.Keyset
	for i, k := range keys {
		switch roles[i] {
		case RoleTrigger:
			trigger.Add(k)
		case RoleModifier:
			modifier.Add(k)
		}
	}
	l.keysetProperties[full] = mergeMapped(l.keysetProperties[full], trigger, modifier)
	l.commands[full] = cmd

	n := len(keys)
	for mask := 1; mask < (1 << n); mask++ {
		if mask == (1<<n)-1 {
			continue // the full set itself, already handled above
		}
		var subset, remaining keyset.Keyset
		for i, k := range keys {
			if mask&(1<<i) != 0 {
				subset.Add(k)
			} else {
				remaining.Add(k)
			}
		}
		l.keysetProperties[subset] = mergeNode(l.keysetProperties[subset], remaining)
	}
	return nil
}

func mergeMapped(existing KeysetProperty, trigger, modifier keyset.Keyset) KeysetProperty {
	existing.Flags |= FlagMapped
	existing.TriggerKeyset = existing.TriggerKeyset.Union(trigger)
	existing.ModifierKeyset = existing.ModifierKeyset.Union(modifier)
	return existing
}

func mergeNode(existing KeysetProperty, combinable keyset.Keyset) KeysetProperty {
	existing.Flags |= FlagNode
	existing.CombinableKeyset = existing.CombinableKeyset.Union(combinable)
	return existing
}

// FindKeysetProperty reports the registered property of ks, if any.
func (l *Layout) FindKeysetProperty(ks keyset.Keyset) (KeysetProperty, bool) {
	p, ok := l.keysetProperties[ks]
	return p, ok
}

// FindCommand reports the Command mapped to ks, if ks is a complete chord.
func (l *Layout) FindCommand(ks keyset.Keyset) (Command, bool) {
	c, ok := l.commands[ks]
	return c, ok
}

// CreateTransition registers that, once the chord active commits, the
// engine should switch to next. Only a weak reference to next is kept.
func (l *Layout) CreateTransition(active keyset.Keyset, next *Layout) error {
	if _, ok := l.nextLayouts[active]; ok {
		return ErrDuplicateMapping
	}
	l.nextLayouts[active] = weak.Make(next)
	return nil
}

// FindNextLayout reports the Layout to transition to after active commits,
// if a transition was registered and the target Layout is still alive.
func (l *Layout) FindNextLayout(active keyset.Keyset) (*Layout, bool) {
	w, ok := l.nextLayouts[active]
	if !ok {
		return nil, false
	}
	next := w.Value()
	return next, next != nil
}
