package buffering

import "time"

// FlowResult reports whether a flow has more work to do on State's pending
// event queue (Continue) or has resolved a chord and should be
// relinquished back to the engine's idle dispatch (Done).
type FlowResult uint8

const (
	FlowContinue FlowResult = iota
	FlowDone
)

// NoTimeout is the sentinel deadline of a flow that never times out on
// its own and only advances when a new event arrives.
var NoTimeout = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

// MaxDuration as a configured timeout means "never time out", same as
// NoTimeout does for a deadline.
const MaxDuration = 1<<63 - 1

// timeoutDuration reads the active config's timeout, or zero if
// unconfigured. A zero duration yields an already-elapsed deadline, so
// DeferredFlow and SimulFlow commit on their very next update.
func timeoutDuration(state *State) time.Duration {
	if state.Config() == nil {
		return 0
	}
	return state.Config().TimeoutDuration
}

// deadline computes from+dur, or NoTimeout if dur is MaxDuration.
func deadline(from time.Time, dur time.Duration) time.Time {
	if dur == MaxDuration {
		return NoTimeout
	}
	return from.Add(dur)
}

// flow is the common shape of the four buffering flows. A flow is
// stateful: Reset begins tracking a freshly pressed key, and Update is
// called again each time a new pending event arrives or (once idle) the
// flow's own timeout elapses.
type flow interface {
	Reset(state *State) FlowResult
	Update(state *State) FlowResult
	IsIdle(state *State) bool
	TimeoutTP() time.Time
}
