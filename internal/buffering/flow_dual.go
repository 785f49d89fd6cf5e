package buffering

import (
	"time"

	"github.com/fujinami-dev/fujinami/internal/keycode"
	"github.com/fujinami-dev/fujinami/internal/keyset"
)

// DualFlow handles a dual-role key: if another key is pressed before this
// one is released, it acts as a modifier for that key; if it is released
// first, it acts as its own trigger.
type DualFlow struct {
	modifierKeyset keyset.Keyset
	dontcareKeyset keyset.Keyset
	firstKey       keycode.Key
}

// Reset begins tracking the front KeyPressEvent as the dual-role key.
func (f *DualFlow) Reset(state *State) FlowResult {
	front, ok := state.Events()[0].(KeyPressEvent)
	if !ok {
		state.PopEvent()
		return FlowDone
	}

	f.modifierKeyset = state.ModifierKeyset()
	f.dontcareKeyset = state.DontcareKeyset().Plus(front.Key)
	f.firstKey = front.Key
	state.PopEvent()
	return FlowContinue
}

// Update watches for either a second key being pressed (the dual-role key
// becomes a modifier) or its own release (it becomes a trigger).
func (f *DualFlow) Update(state *State) FlowResult {
	events := state.Events()
	if len(events) == 0 {
		return FlowContinue
	}

	switch e := events[0].(type) {
	case KeyPressEvent:
		if e.Key != f.firstKey {
			f.finish(state, true)
			return FlowDone
		}
		state.PopEvent()
		return FlowContinue

	case KeyReleaseEvent:
		if e.Key != f.firstKey {
			f.modifierKeyset = f.modifierKeyset.Minus(e.Key)
			f.dontcareKeyset = f.dontcareKeyset.Minus(e.Key)
			return FlowContinue
		}
		f.finish(state, false)
		return FlowDone

	default:
		f.finish(state, false)
		return FlowDone
	}
}

func (f *DualFlow) finish(state *State, mod bool) {
	if mod {
		// The dual key joins the modifier keyset only: it must not appear
		// in the active keyset this commit emits, or a solo tap mapping
		// registered for it would fire (and a layout transition keyed on
		// it would be followed) the moment it is used as a held modifier.
		state.ApplyKeyset(state.ModifierKeyset(), keyset.Keyset{},
			f.modifierKeyset.Plus(f.firstKey), f.dontcareKeyset)
		return
	}

	active := state.ModifierKeyset().Plus(f.firstKey)
	prop, ok := state.FindKeysetProperty(active)
	if ok && prop.IsMapped() {
		state.ApplyKeyset(active, prop.TriggerKeyset, prop.ModifierKeyset, f.dontcareKeyset)
	} else {
		state.ApplyKeyset(keyset.Keyset{}, keyset.Keyset{}, f.modifierKeyset, f.dontcareKeyset)
	}
}

// IsIdle reports whether there is no pending event left to examine.
func (f *DualFlow) IsIdle(state *State) bool {
	return len(state.Events()) == 0
}

// TimeoutTP reports NoTimeout: a dual-role key waits indefinitely for
// either a second key or its own release.
func (f *DualFlow) TimeoutTP() time.Time { return NoTimeout }
