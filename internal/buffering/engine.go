package buffering

import (
	"time"

	"github.com/fujinami-dev/fujinami/internal/keycode"
	"github.com/fujinami-dev/fujinami/internal/keyset"
	"github.com/fujinami-dev/fujinami/internal/layout"
)

// Sink is the downstream collaborator an Engine reports resolved chord
// transitions to: the mapping channel. internal/pipeline wires this to an
// eventqueue.Queue[mapping.Event].
type Sink interface {
	SendPress(active keyset.Keyset, next *layout.Layout) bool
	SendRepeat(active keyset.Keyset) bool
	SendRelease(active keyset.Keyset) bool
	SendLayout(l *layout.Layout) bool
}

// IMProbe reports whether the system's input method is currently composing
// (e.g. a Japanese IME mid-conversion). When a Config has AutoLayout set,
// the engine consults this on every key press to switch between the
// default layout and the IME layout. internal/imeprobe implements this
// over D-Bus/IBus; a nil IMProbe disables the feature.
type IMProbe interface {
	Status() bool
}

// Engine is the buffering stage's state machine: it owns a State and the
// four flows, and decides which flow (if any) is currently resolving a
// chord. At most one flow is active at a time; every other pending event
// waits in the State's queue until the active flow commits or hands back.
type Engine struct {
	state *State

	immediateFlow ImmediateFlow
	deferredFlow  DeferredFlow
	simulFlow     SimulFlow
	dualFlow      DualFlow
	currentFlow   keycode.FlowType

	defaultLayout   *layout.Layout
	defaultIMLayout *layout.Layout
	autoLayout      bool
	prevIMStatus    bool
	imProbe         IMProbe
}

// NewEngine returns an idle, unconfigured Engine. probe may be nil.
func NewEngine(probe IMProbe) *Engine {
	return &Engine{state: NewState(), imProbe: probe}
}

// State exposes the engine's State, mainly for tests.
func (e *Engine) State() *State { return e.state }

// Reset clears the engine back to its initial, unconfigured state.
func (e *Engine) Reset() {
	e.defaultLayout = nil
	e.defaultIMLayout = nil
	e.autoLayout = false
	e.prevIMStatus = false
	e.state.Reset(nil)
	e.currentFlow = keycode.FlowUnknown
}

// IsIdle reports whether the engine has no unresolved work: either no
// flow is active and the event queue is empty, or the active flow has
// caught up with every pending event.
func (e *Engine) IsIdle() bool {
	switch e.currentFlow {
	case keycode.FlowImmediate:
		return e.immediateFlow.IsIdle(e.state)
	case keycode.FlowDeferred:
		return e.deferredFlow.IsIdle(e.state)
	case keycode.FlowSimul:
		return e.simulFlow.IsIdle(e.state)
	case keycode.FlowDual:
		return e.dualFlow.IsIdle(e.state)
	default:
		return len(e.state.Events()) == 0
	}
}

// TimeoutTP reports when the engine should be driven again even without a
// new event arriving (NoTimeout if nothing is currently pending).
func (e *Engine) TimeoutTP() time.Time {
	switch e.currentFlow {
	case keycode.FlowImmediate:
		return e.immediateFlow.TimeoutTP()
	case keycode.FlowDeferred:
		return e.deferredFlow.TimeoutTP()
	case keycode.FlowSimul:
		return e.simulFlow.TimeoutTP()
	case keycode.FlowDual:
		return e.dualFlow.TimeoutTP()
	default:
		return NoTimeout
	}
}

// UpdateEvent pushes event onto the pending queue and drives the engine.
func (e *Engine) UpdateEvent(event Event, sink Sink) {
	e.state.PushEvent(event)
	e.Update(sink)
}

// Update drives the engine one round: if a flow is active, it is advanced;
// otherwise the front pending event (if any) is dispatched fresh.
func (e *Engine) Update(sink Sink) {
	switch e.currentFlow {
	case keycode.FlowUnknown:
		if len(e.state.Events()) == 0 {
			return
		}
		switch event := e.state.Events()[0].(type) {
		case KeyPressEvent:
			e.updateKeyPress(event, sink)
		case KeyReleaseEvent:
			e.updateKeyRelease(event, sink)
		case DefaultLayoutEvent:
			e.updateDefaultLayout(event, sink)
		case ControlEvent:
			e.updateControl(event, sink)
		}
	case keycode.FlowImmediate:
		if e.immediateFlow.Update(e.state) == FlowContinue {
			return
		}
		e.commitFlow(sink)
	case keycode.FlowDeferred:
		if e.deferredFlow.Update(e.state) == FlowContinue {
			return
		}
		e.commitFlow(sink)
	case keycode.FlowSimul:
		if e.simulFlow.Update(e.state) == FlowContinue {
			return
		}
		e.commitFlow(sink)
	case keycode.FlowDual:
		if e.dualFlow.Update(e.state) == FlowContinue {
			return
		}
		e.commitFlow(sink)
	}
}

func (e *Engine) commitFlow(sink Sink) {
	e.state.SetNextLayout()
	sink.SendPress(e.state.ActiveKeyset(), e.state.Layout())
	e.currentFlow = keycode.FlowUnknown
}

func (e *Engine) updateKeyPress(event KeyPressEvent, sink Sink) {
	if !e.state.TriggerKeyset().IsEmpty() && e.state.ActiveKeyset().Contains(event.Key) {
		sink.SendRepeat(e.state.ActiveKeyset())
		e.state.PopEvent()
		return
	}

	if e.state.DontcareKeyset().Contains(event.Key) {
		e.state.PopEvent()
		return
	}

	if e.autoLayout && e.imProbe != nil {
		imStatus := e.imProbe.Status()
		if e.prevIMStatus && !imStatus {
			e.state.SetLayout(e.defaultLayout)
			sink.SendLayout(e.defaultLayout)
		} else if !e.prevIMStatus && imStatus {
			e.state.SetLayout(e.defaultIMLayout)
			sink.SendLayout(e.defaultIMLayout)
		}
		e.prevIMStatus = imStatus
	}

	keyProp, ok := e.state.FindKeyProperty(event.Key)
	if !ok || keyProp.FlowType == keycode.FlowUnknown {
		e.state.PressNoneKey(event.Key)
		e.state.PopEvent()
		return
	}

	switch keyProp.FlowType {
	case keycode.FlowImmediate:
		if e.immediateFlow.Reset(e.state) == FlowContinue {
			e.currentFlow = keycode.FlowImmediate
		} else {
			e.commitFlow(sink)
		}
	case keycode.FlowDeferred:
		if e.deferredFlow.Reset(e.state) == FlowContinue {
			e.currentFlow = keycode.FlowDeferred
		} else {
			e.commitFlow(sink)
		}
	case keycode.FlowSimul:
		if e.simulFlow.Reset(e.state) == FlowContinue {
			e.currentFlow = keycode.FlowSimul
		} else {
			e.commitFlow(sink)
		}
	case keycode.FlowDual:
		if e.dualFlow.Reset(e.state) == FlowContinue {
			e.currentFlow = keycode.FlowDual
		} else {
			e.commitFlow(sink)
		}
	}
}

func (e *Engine) updateKeyRelease(event KeyReleaseEvent, sink Sink) {
	switch {
	case e.state.TryReleaseTriggerKey(event.Key):
		sink.SendRelease(e.state.ActiveKeyset())
	case e.state.TryReleaseModifierKey(event.Key):
		if e.state.TriggerKeyset().IsEmpty() {
			sink.SendRelease(e.state.ActiveKeyset())
		}
	default:
		e.state.TryReleaseDontcareKey(event.Key)
	}
	e.state.PopEvent()
}

func (e *Engine) updateDefaultLayout(event DefaultLayoutEvent, sink Sink) {
	e.defaultLayout = event.Default
	e.defaultIMLayout = event.DefaultIM
	e.prevIMStatus = false
	e.state.SetLayout(e.defaultLayout)
	sink.SendLayout(e.defaultLayout)
	e.state.PopEvent()
}

func (e *Engine) updateControl(event ControlEvent, sink Sink) {
	if event.Config != nil {
		e.defaultLayout, _ = event.Config.Default()
		e.defaultIMLayout, _ = event.Config.DefaultIM()
		e.autoLayout = event.Config.AutoLayout
		e.prevIMStatus = false
		e.state.Reset(event.Config)
		sink.SendLayout(e.defaultLayout)
	} else {
		e.defaultLayout = nil
		e.defaultIMLayout = nil
		e.autoLayout = false
		e.prevIMStatus = false
		e.state.Reset(nil)
		sink.SendLayout(nil)
	}
	e.state.PopEvent()
}
