// Package keyset implements a fixed-capacity bitmask set of keycode.Key.
package keyset

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"github.com/fujinami-dev/fujinami/internal/keycode"
)

const wordBits = 64
const words = keycode.KeyCount / wordBits

// Keyset is an unordered set of Key, stored as a fixed bitmask over
// [0, keycode.KeyCount). It is small enough to copy by value: equality,
// hashing (via native Go comparison, since Keyset is a comparable array of
// words), union, and difference are all a handful of machine words.
type Keyset struct {
	bits [words]uint64
}

// Of builds a Keyset from the given keys. keycode.Unknown is ignored.
func Of(keys ...keycode.Key) Keyset {
	var s Keyset
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts key into the set in place. Adding the unknown key is a no-op.
func (s *Keyset) Add(key keycode.Key) {
	if key == keycode.Unknown {
		return
	}
	s.bits[key/wordBits] |= 1 << (key % wordBits)
}

// Remove deletes key from the set in place. Removing the unknown key is a
// no-op.
func (s *Keyset) Remove(key keycode.Key) {
	if key == keycode.Unknown {
		return
	}
	s.bits[key/wordBits] &^= 1 << (key % wordBits)
}

// Reset empties the set in place.
func (s *Keyset) Reset() {
	*s = Keyset{}
}

// Contains reports whether key is a member.
func (s Keyset) Contains(key keycode.Key) bool {
	if key == keycode.Unknown {
		return false
	}
	return s.bits[key/wordBits]&(1<<(key%wordBits)) != 0
}

// Plus returns a copy of s with key added.
func (s Keyset) Plus(key keycode.Key) Keyset {
	s.Add(key)
	return s
}

// Minus returns a copy of s with key removed.
func (s Keyset) Minus(key keycode.Key) Keyset {
	s.Remove(key)
	return s
}

// Union returns the union of s and other.
func (s Keyset) Union(other Keyset) Keyset {
	var out Keyset
	for i := range s.bits {
		out.bits[i] = s.bits[i] | other.bits[i]
	}
	return out
}

// Difference returns the members of s that are not in other.
func (s Keyset) Difference(other Keyset) Keyset {
	var out Keyset
	for i := range s.bits {
		out.bits[i] = s.bits[i] &^ other.bits[i]
	}
	return out
}

// Equal reports whether s and other have the same members. Equality (and
// therefore the native Go map-key hash over Keyset) ignores insertion order
// by construction, since membership is a bitmask.
func (s Keyset) Equal(other Keyset) bool {
	return s.bits == other.bits
}

// IsEmpty reports whether the set has no members.
func (s Keyset) IsEmpty() bool {
	return s.bits == [words]uint64{}
}

// Count returns the number of members (cardinality).
func (s Keyset) Count() int {
	n := 0
	for _, w := range s.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// ContainsAll reports whether every member of other is also a member of s.
func (s Keyset) ContainsAll(other Keyset) bool {
	for i := range s.bits {
		if s.bits[i]&other.bits[i] != other.bits[i] {
			return false
		}
	}
	return true
}

// Intersects reports whether s and other share any member.
func (s Keyset) Intersects(other Keyset) bool {
	for i := range s.bits {
		if s.bits[i]&other.bits[i] != 0 {
			return true
		}
	}
	return false
}

// Keys returns the members of s in ascending Key order.
func (s Keyset) Keys() []keycode.Key {
	var out []keycode.Key
	for i, w := range s.bits {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			out = append(out, keycode.Key(i*wordBits+bit))
			w &= w - 1
		}
	}
	return out
}

func (s Keyset) String() string {
	keys := s.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	sort.Strings(parts)
	return "[" + strings.Join(parts, " ") + "]"
}

// GoString supports %#v and debug printing in tests.
func (s Keyset) GoString() string {
	return fmt.Sprintf("keyset.Of(%v)", s.Keys())
}
