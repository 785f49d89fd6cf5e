package buffering

import (
	"time"

	"github.com/fujinami-dev/fujinami/internal/keycode"
	"github.com/fujinami-dev/fujinami/internal/keyset"
)

// SimulFlow detects two or three keys pressed close enough together to
// count as a simultaneous chord, falling back to treating the first key as
// a solo press if no qualifying second key shows up in time.
type SimulFlow struct {
	timeoutTP          time.Time
	pressTimeoutTP     time.Time
	releaseTimeoutTP   time.Time
	observedEventLast  int
	modifierKeyset     keyset.Keyset
	dontcareKeyset     keyset.Keyset
	preReleasedKeyset  keyset.Keyset
	postReleasedKeyset keyset.Keyset

	firstKey     keycode.Key
	firstBeginTP time.Time
	firstEndTP   time.Time

	secondKey                keycode.Key
	secondBeginTP            time.Time
	secondConsumedEventLast  int
	secondDontcareKeyset     keyset.Keyset
	secondPostReleasedKeyset keyset.Keyset

	thirdKey     keycode.Key
	thirdBeginTP time.Time
}

// Reset begins tracking the front KeyPressEvent as a candidate first key of
// a simultaneous chord.
func (f *SimulFlow) Reset(state *State) FlowResult {
	events := state.Events()
	if len(events) == 0 {
		return FlowDone
	}
	front, ok := events[0].(KeyPressEvent)
	if !ok {
		return FlowDone
	}

	dur := timeoutDuration(state)
	f.timeoutTP = deadline(front.Time, dur)
	f.pressTimeoutTP = front.Time.Add(dur / 2)
	f.releaseTimeoutTP = front.Time.Add(dur / 2)
	f.observedEventLast = 0
	f.modifierKeyset = state.ModifierKeyset()
	f.dontcareKeyset = state.DontcareKeyset().Plus(front.Key)
	f.preReleasedKeyset.Reset()
	f.postReleasedKeyset.Reset()
	f.firstKey = front.Key
	f.firstBeginTP = front.Time
	f.firstEndTP = NoTimeout
	f.secondKey = keycode.Unknown
	f.secondBeginTP = NoTimeout
	f.secondDontcareKeyset.Reset()
	f.secondPostReleasedKeyset.Reset()
	f.thirdKey = keycode.Unknown
	f.thirdBeginTP = NoTimeout
	state.PopEvent()
	return FlowContinue
}

// Update peeks the next pending event, registering it as the second or
// third key of the chord, or resolves on timeout/interruption.
func (f *SimulFlow) Update(state *State) FlowResult {
	events := state.Events()
	if f.observedEventLast >= len(events) {
		if !f.timeoutTP.After(time.Now()) {
			f.firstEndTP = f.timeoutTP
			f.consume(state)
			return FlowDone
		}
		return FlowContinue
	}

	event := events[f.observedEventLast]
	f.observedEventLast++

	switch e := event.(type) {
	case KeyPressEvent:
		if !f.timeoutTP.After(e.Time) {
			f.firstEndTP = f.timeoutTP
			f.consume(state)
			return FlowDone
		}
		prop, ok := state.FindKeyProperty(e.Key)
		if !ok || prop.FlowType != keycode.FlowSimul {
			f.firstEndTP = e.Time
			f.consume(state)
			return FlowDone
		}
		if e.Key == f.firstKey {
			f.firstEndTP = e.Time
			f.consume(state)
			return FlowDone
		}
		if !f.dontcareKeyset.Contains(e.Key) {
			switch {
			case f.thirdKey != keycode.Unknown:
				// a fourth-or-later key changes nothing further.
			case f.secondKey != keycode.Unknown:
				f.dontcareKeyset = f.dontcareKeyset.Plus(e.Key)
				f.postReleasedKeyset = f.postReleasedKeyset.Minus(e.Key)
				f.thirdKey = e.Key
				f.thirdBeginTP = e.Time
			default:
				f.dontcareKeyset = f.dontcareKeyset.Plus(e.Key)
				f.postReleasedKeyset = f.postReleasedKeyset.Minus(e.Key)
				f.secondKey = e.Key
				f.secondBeginTP = e.Time
				f.secondConsumedEventLast = f.observedEventLast
				f.secondDontcareKeyset = f.dontcareKeyset
				f.secondPostReleasedKeyset = f.postReleasedKeyset
			}
		}
		return FlowContinue

	case KeyReleaseEvent:
		if !f.timeoutTP.After(e.Time) {
			f.firstEndTP = f.timeoutTP
			f.consume(state)
			return FlowDone
		}
		prop, ok := state.FindKeyProperty(e.Key)
		if !ok || prop.FlowType != keycode.FlowSimul {
			f.firstEndTP = e.Time
			f.consume(state)
			return FlowDone
		}
		if e.Key == f.firstKey {
			f.firstEndTP = e.Time
			f.consume(state)
			return FlowDone
		}
		if f.modifierKeyset.Contains(e.Key) {
			if e.Time.Before(f.releaseTimeoutTP) {
				f.preReleasedKeyset = f.preReleasedKeyset.Plus(e.Key)
			} else {
				f.postReleasedKeyset = f.postReleasedKeyset.Plus(e.Key)
			}
			f.modifierKeyset = f.modifierKeyset.Minus(e.Key)
			f.dontcareKeyset = f.dontcareKeyset.Minus(e.Key)
		} else if f.dontcareKeyset.Contains(e.Key) {
			f.dontcareKeyset = f.dontcareKeyset.Minus(e.Key)
		}
		return FlowContinue

	default:
		f.firstEndTP = time.Now()
		f.consume(state)
		return FlowDone
	}
}

// IsIdle reports whether there is no unexamined pending event left.
func (f *SimulFlow) IsIdle(state *State) bool {
	return f.observedEventLast == len(state.Events())
}

// TimeoutTP reports when the first key, lacking a qualifying partner,
// resolves to a solo press.
func (f *SimulFlow) TimeoutTP() time.Time { return f.timeoutTP }

// consume decides whether first+second counted as simultaneous and applies
// the resulting state.
func (f *SimulFlow) consume(state *State) {
	isSimul := false
	if f.secondKey != keycode.Unknown {
		if f.thirdKey != keycode.Unknown {
			p1 := f.secondBeginTP.Sub(f.firstBeginTP)
			p3 := f.thirdBeginTP.Sub(f.secondBeginTP)
			if p1 <= p3 && f.secondBeginTP.Before(f.pressTimeoutTP) {
				isSimul = true
			}
		} else if f.secondBeginTP.Before(f.pressTimeoutTP) {
			isSimul = true
		}
	}

	fixedModifier := state.ModifierKeyset().Difference(f.preReleasedKeyset)

	if isSimul {
		active := fixedModifier.Plus(f.firstKey).Plus(f.secondKey)
		prop, ok := state.FindKeysetProperty(active)
		if !ok || !prop.IsMapped() {
			isSimul = false
		}
	}

	if isSimul {
		active := fixedModifier.Plus(f.firstKey).Plus(f.secondKey)
		prop, ok := state.FindKeysetProperty(active)
		if ok && prop.IsMapped() {
			state.ApplyKeyset(active, prop.TriggerKeyset,
				prop.ModifierKeyset.Difference(f.secondPostReleasedKeyset),
				f.secondDontcareKeyset)
		} else {
			state.ApplyKeyset(keyset.Keyset{}, keyset.Keyset{},
				fixedModifier.Difference(f.secondPostReleasedKeyset),
				f.secondDontcareKeyset)
		}
		state.ConsumeEvents(f.secondConsumedEventLast)
		return
	}

	active := fixedModifier.Plus(f.firstKey)
	prop, ok := state.FindKeysetProperty(active)
	if ok && prop.IsMapped() {
		state.ApplyKey(active, prop.TriggerKeyset, prop.ModifierKeyset, f.firstKey)
	} else {
		state.PressNoneKey(f.firstKey)
	}
}
