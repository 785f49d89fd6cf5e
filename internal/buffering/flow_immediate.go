package buffering

import "time"

// ImmediateFlow handles a key meant to be recognized the instant it is
// pressed, combined with whatever modifiers are already held — no waiting
// for more keys.
type ImmediateFlow struct{}

// Reset consumes the front KeyPressEvent and resolves it immediately: a
// single-shot flow, it always returns FlowDone.
func (f *ImmediateFlow) Reset(state *State) FlowResult {
	front, ok := state.Events()[0].(KeyPressEvent)
	if !ok {
		state.PopEvent()
		return FlowDone
	}

	active := state.ModifierKeyset().Plus(front.Key)
	prop, hasProp := state.FindKeysetProperty(active)
	if hasProp && prop.IsMapped() {
		state.ApplyKey(active, prop.TriggerKeyset, prop.ModifierKeyset, front.Key)
	} else {
		state.PressNoneKey(front.Key)
	}

	state.PopEvent()
	return FlowDone
}

// Update is never called: Reset always returns FlowDone.
func (f *ImmediateFlow) Update(state *State) FlowResult { return FlowDone }

// IsIdle is always true: there is nothing left for this flow to track.
func (f *ImmediateFlow) IsIdle(state *State) bool { return true }

// TimeoutTP reports NoTimeout: immediate resolution never waits.
func (f *ImmediateFlow) TimeoutTP() time.Time { return NoTimeout }
