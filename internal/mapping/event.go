// Package mapping implements the second stage of the pipeline: translating
// the buffering stage's resolved keyset transitions into actual emitted
// output, by looking up the active layout's Command table and running its
// press/repeat/release elision logic.
package mapping

import (
	"github.com/fujinami-dev/fujinami/internal/keyset"
	"github.com/fujinami-dev/fujinami/internal/layout"
)

// Event is one entry on the mapping engine's channel.
type Event interface {
	isMappingEvent()
}

// KeyPressEvent reports that active is a freshly committed chord.
type KeyPressEvent struct {
	ActiveKeyset keyset.Keyset
}

// KeyRepeatEvent reports that active's trigger key is autorepeating.
type KeyRepeatEvent struct {
	ActiveKeyset keyset.Keyset
}

// KeyReleaseEvent reports that the previously committed chord's trigger
// key was released.
type KeyReleaseEvent struct {
	ActiveKeyset keyset.Keyset
}

// LayoutEvent installs l (possibly nil) as the active layout.
type LayoutEvent struct {
	Layout *layout.Layout
}

func (KeyPressEvent) isMappingEvent()   {}
func (KeyRepeatEvent) isMappingEvent()  {}
func (KeyReleaseEvent) isMappingEvent() {}
func (LayoutEvent) isMappingEvent()     {}
