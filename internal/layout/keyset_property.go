package layout

import "github.com/fujinami-dev/fujinami/internal/keyset"

// KeysetPropertyFlag tags what role a registered keyset plays in the
// buffering engine's chord recognition.
type KeysetPropertyFlag uint8

const (
	// FlagNode marks a keyset as a proper, non-terminal prefix of some
	// mapped keyset: still worth holding onto while more keys arrive. The
	// flag alone does not make it a command; a prefix that is also a chord
	// carries FlagMapped as well.
	FlagNode KeysetPropertyFlag = 1 << iota
	// FlagMapped marks a keyset as a complete, executable chord.
	FlagMapped
)

// KeysetProperty is the per-keyset metadata a Layout attaches to every
// registered subset (both NODE prefixes and MAPPED leaves): which keys may
// still extend the chord, which key release commits it, and which keys are
// modifiers that don't themselves participate in matching.
type KeysetProperty struct {
	Flags           KeysetPropertyFlag
	CombinableKeyset keyset.Keyset
	TriggerKeyset    keyset.Keyset
	ModifierKeyset   keyset.Keyset
}

// IsNode reports whether p is a (possibly also mapped) prefix.
func (p KeysetProperty) IsNode() bool { return p.Flags&FlagNode != 0 }

// IsMapped reports whether p has an associated Command.
func (p KeysetProperty) IsMapped() bool { return p.Flags&FlagMapped != 0 }
