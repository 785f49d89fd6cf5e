package buffering

import (
	"github.com/fujinami-dev/fujinami/internal/keycode"
	"github.com/fujinami-dev/fujinami/internal/keyset"
	"github.com/fujinami-dev/fujinami/internal/layout"
)

// State is the buffering engine's mutable scratch space: the active
// Config/Layout, the pending event FIFO a flow peeks and consumes from, and
// the four keysets that describe what is currently "going on" — which keys
// are recognized as an active chord, which of those commit it on release,
// which are modifiers, and which are simply being ignored (dontcare).
type State struct {
	config *layout.Config
	layout *layout.Layout

	events []Event

	activeKeyset   keyset.Keyset
	triggerKeyset  keyset.Keyset
	modifierKeyset keyset.Keyset
	dontcareKeyset keyset.Keyset
}

// NewState returns an unconfigured, idle State.
func NewState() *State {
	return &State{}
}

// PressNoneKey records that key was pressed but resolved to no mapping: the
// active chord is cleared and key becomes dontcare (so its eventual release
// is silently absorbed rather than treated as "releasing a trigger").
func (s *State) PressNoneKey(key keycode.Key) {
	s.activeKeyset.Reset()
	s.triggerKeyset.Reset()
	s.dontcareKeyset.Add(key)
}

// TryReleaseTriggerKey reports whether key commits the active chord (it is
// a member of triggerKeyset); if so, the chord is cleared.
func (s *State) TryReleaseTriggerKey(key keycode.Key) bool {
	if !s.triggerKeyset.Contains(key) {
		return false
	}
	s.activeKeyset.Reset()
	s.triggerKeyset.Reset()
	s.dontcareKeyset.Remove(key)
	return true
}

// TryReleaseModifierKey reports whether key is a held modifier of the
// active chord; if so, it is dropped from the active and modifier keysets.
func (s *State) TryReleaseModifierKey(key keycode.Key) bool {
	if !s.modifierKeyset.Contains(key) {
		return false
	}
	s.activeKeyset.Remove(key)
	s.modifierKeyset.Remove(key)
	s.dontcareKeyset.Remove(key)
	return true
}

// TryReleaseDontcareKey reports whether key is an ignored key; if so, it is
// dropped from the dontcare keyset.
func (s *State) TryReleaseDontcareKey(key keycode.Key) bool {
	if !s.dontcareKeyset.Contains(key) {
		return false
	}
	s.dontcareKeyset.Remove(key)
	return true
}

// ApplyKey installs a fresh active/trigger/modifier keyset and adds a
// single key to the dontcare keyset, without disturbing dontcare's other
// members.
func (s *State) ApplyKey(active, trigger, modifier keyset.Keyset, dontcareKey keycode.Key) {
	s.activeKeyset = active
	s.triggerKeyset = trigger
	s.modifierKeyset = modifier
	s.dontcareKeyset.Add(dontcareKey)
}

// ApplyKeyset installs a fresh active/trigger/modifier/dontcare keyset,
// replacing dontcare wholesale.
func (s *State) ApplyKeyset(active, trigger, modifier, dontcare keyset.Keyset) {
	s.activeKeyset = active
	s.triggerKeyset = trigger
	s.modifierKeyset = modifier
	s.dontcareKeyset = dontcare
}

// Reset reconfigures the engine: config may be nil to disable it. The
// active layout is set to config's default layout (or cleared, if config is
// nil), and every keyset is emptied.
func (s *State) Reset(config *layout.Config) {
	s.config = config
	s.layout = nil
	if config != nil {
		s.layout, _ = config.Default()
	}
	s.activeKeyset.Reset()
	s.triggerKeyset.Reset()
	s.modifierKeyset.Reset()
	s.dontcareKeyset.Reset()
}

// FindKeyProperty looks up key's flow assignment in the active layout.
func (s *State) FindKeyProperty(key keycode.Key) (keycode.KeyProperty, bool) {
	if s.layout == nil {
		return keycode.KeyProperty{}, false
	}
	return s.layout.FindKeyProperty(key)
}

// FindKeysetProperty looks up ks's registered property in the active
// layout.
func (s *State) FindKeysetProperty(ks keyset.Keyset) (layout.KeysetProperty, bool) {
	if s.layout == nil {
		return layout.KeysetProperty{}, false
	}
	return s.layout.FindKeysetProperty(ks)
}

// SetLayout installs l as the active layout directly (used when a
// DefaultLayoutEvent or auto-layout IME switch fires).
func (s *State) SetLayout(l *layout.Layout) {
	s.layout = l
}

// SetNextLayout switches to the layout registered (if any) for the
// currently active keyset. Calling this after a chord commits is how a
// Layout's CreateTransition takes effect.
func (s *State) SetNextLayout() {
	if s.layout == nil {
		return
	}
	if next, ok := s.layout.FindNextLayout(s.activeKeyset); ok {
		s.layout = next
	}
}

// PushEvent appends event to the pending queue.
func (s *State) PushEvent(event Event) {
	s.events = append(s.events, event)
}

// PopEvent drops the oldest pending event.
func (s *State) PopEvent() {
	if len(s.events) == 0 {
		return
	}
	s.events = s.events[1:]
}

// ConsumeEvents drops the first n pending events.
func (s *State) ConsumeEvents(n int) {
	if n > len(s.events) {
		n = len(s.events)
	}
	s.events = s.events[n:]
}

func (s *State) Config() *layout.Config        { return s.config }
func (s *State) Layout() *layout.Layout        { return s.layout }
func (s *State) Events() []Event               { return s.events }
func (s *State) ActiveKeyset() keyset.Keyset   { return s.activeKeyset }
func (s *State) TriggerKeyset() keyset.Keyset  { return s.triggerKeyset }
func (s *State) ModifierKeyset() keyset.Keyset { return s.modifierKeyset }
func (s *State) DontcareKeyset() keyset.Keyset { return s.dontcareKeyset }
