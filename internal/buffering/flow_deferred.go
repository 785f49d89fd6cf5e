package buffering

import (
	"time"

	"github.com/fujinami-dev/fujinami/internal/keycode"
	"github.com/fujinami-dev/fujinami/internal/keyset"
	"github.com/fujinami-dev/fujinami/internal/layout"
)

// DeferredFlow incrementally commits the longest matching prefix of a
// chord: each additional key pressed within the configured timeout window
// either extends the active mapping (if the new keyset is itself mapped)
// or, once no further key can combine, commits whatever was last mapped.
type DeferredFlow struct {
	timeoutTP         time.Time
	observedEventLast int
	consumedEventLast int
	repeatKey         keycode.Key
	pressedKeyset     keyset.Keyset
	dontcareKeyset    keyset.Keyset
	keysetProperty    layout.KeysetProperty
	hasProperty       bool
}

// Reset begins tracking the front KeyPressEvent.
func (f *DeferredFlow) Reset(state *State) FlowResult {
	front, ok := state.Events()[0].(KeyPressEvent)
	if !ok {
		state.PopEvent()
		return FlowDone
	}

	active := state.ModifierKeyset().Plus(front.Key)
	prop, hasProp := state.FindKeysetProperty(active)
	if !hasProp {
		state.PressNoneKey(front.Key)
		state.PopEvent()
		return FlowDone
	}

	if prop.IsMapped() {
		state.ApplyKey(active, prop.TriggerKeyset, prop.ModifierKeyset, front.Key)
	} else {
		state.PressNoneKey(front.Key)
	}

	if !prop.IsNode() {
		state.PopEvent()
		return FlowDone
	}

	f.timeoutTP = deadline(front.Time, timeoutDuration(state))
	f.observedEventLast = 1
	f.consumedEventLast = 1
	f.repeatKey = front.Key
	f.pressedKeyset = active
	f.dontcareKeyset = state.DontcareKeyset()
	f.keysetProperty = prop
	f.hasProperty = true
	return FlowContinue
}

// Update peeks the next pending event, if any, or checks for timeout.
func (f *DeferredFlow) Update(state *State) FlowResult {
	if f.observedEventLast == len(state.Events()) {
		if !f.timeoutTP.After(time.Now()) {
			state.ConsumeEvents(f.consumedEventLast)
			return FlowDone
		}
		return FlowContinue
	}

	event := state.Events()[f.observedEventLast]
	f.observedEventLast++

	switch e := event.(type) {
	case KeyPressEvent:
		return f.updatePress(e, state)
	case KeyReleaseEvent:
		return f.updateRelease(e, state)
	default:
		state.ConsumeEvents(f.consumedEventLast)
		return FlowDone
	}
}

func (f *DeferredFlow) updatePress(event KeyPressEvent, state *State) FlowResult {
	if !f.timeoutTP.After(event.Time) {
		state.ConsumeEvents(f.consumedEventLast)
		return FlowDone
	}

	prop, ok := state.FindKeyProperty(event.Key)
	if !ok || prop.FlowType != keycode.FlowDeferred {
		state.ConsumeEvents(f.consumedEventLast)
		return FlowDone
	}

	if event.Key == f.repeatKey {
		state.ConsumeEvents(f.consumedEventLast)
		return FlowDone
	}

	if !f.keysetProperty.CombinableKeyset.Contains(event.Key) {
		state.ConsumeEvents(f.consumedEventLast)
		return FlowDone
	}

	f.repeatKey = event.Key
	f.pressedKeyset = f.pressedKeyset.Plus(event.Key)
	f.dontcareKeyset = f.dontcareKeyset.Plus(event.Key)

	keysetProp, hasProp := state.FindKeysetProperty(f.pressedKeyset)
	if !hasProp {
		state.ConsumeEvents(f.consumedEventLast)
		return FlowDone
	}
	f.keysetProperty = keysetProp
	f.hasProperty = true

	if keysetProp.IsMapped() {
		state.ApplyKeyset(f.pressedKeyset, keysetProp.TriggerKeyset, keysetProp.ModifierKeyset, f.dontcareKeyset)
		f.consumedEventLast = f.observedEventLast
	}

	if !keysetProp.IsNode() {
		state.ConsumeEvents(f.consumedEventLast)
		return FlowDone
	}
	return FlowContinue
}

func (f *DeferredFlow) updateRelease(event KeyReleaseEvent, state *State) FlowResult {
	if !f.timeoutTP.After(event.Time) {
		state.ConsumeEvents(f.consumedEventLast)
		return FlowDone
	}

	if f.pressedKeyset.Contains(event.Key) {
		state.ConsumeEvents(f.consumedEventLast)
		return FlowDone
	}

	f.dontcareKeyset.Remove(event.Key)
	return FlowContinue
}

// IsIdle reports whether there is no unexamined pending event left.
func (f *DeferredFlow) IsIdle(state *State) bool {
	return f.observedEventLast == len(state.Events())
}

// TimeoutTP reports when this flow commits on its own if no more relevant
// events arrive.
func (f *DeferredFlow) TimeoutTP() time.Time { return f.timeoutTP }
