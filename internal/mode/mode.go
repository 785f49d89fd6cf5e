// Package mode tracks the engine's host-level run mode — Enabled,
// Disabled, or Passthrough — as an explicit state machine, promoted from a
// plain enabled bool to a three-state machine so a distinct passthrough
// mode (forward everything unmapped, but keep watching for the toggle
// key) can sit alongside plain enabled/disabled.
package mode

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/looplab/fsm/v2"
)

const (
	Enabled     = "enabled"
	Disabled    = "disabled"
	Passthrough = "passthrough"
)

const (
	EventToggle   = "toggle"   // Enabled <-> Disabled
	EventPassthru = "passthru" // Enabled/Disabled -> Passthrough
	EventResume   = "resume"   // Passthrough -> Enabled
)

// Mode wraps a looplab/fsm/v2 machine (string events over string states)
// with the three run states. The capture read loop consults IsPassthrough
// before handing a key event to the pipeline; the buffering and mapping
// engines do not consult Mode.
type Mode struct {
	mu     sync.Mutex
	fsm    *fsm.FSM[string, string]
	logger *slog.Logger
}

// New returns a Mode starting in Enabled.
func New(logger *slog.Logger) *Mode {
	return &Mode{
		logger: logger,
		fsm: fsm.New[string, string](
			Enabled,
			fsm.Transitions[string, string]{
				{Event: EventToggle, Src: []string{Enabled}, Dst: Disabled},
				{Event: EventToggle, Src: []string{Disabled}, Dst: Enabled},
				{Event: EventPassthru, Src: []string{Enabled, Disabled}, Dst: Passthrough},
				{Event: EventResume, Src: []string{Passthrough}, Dst: Enabled},
			},
			nil,
		),
	}
}

// Current returns the current mode name (Enabled, Disabled, or Passthrough).
func (m *Mode) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fsm.Current()
}

// fire runs event against the machine under lock and logs the resulting
// transition. ctx is accepted (rather than threaded into fsm.Event, which
// takes none) to keep the signature the tray's menu-callback wiring expects.
func (m *Mode) fire(_ context.Context, event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	from := m.fsm.Current()
	if err := m.fsm.Event(event); err != nil {
		return err
	}
	m.logger.Info("mode changed", "from", from, "to", m.fsm.Current())
	return nil
}

// Toggle flips between Enabled and Disabled; it is a no-op (returns an
// error) from Passthrough, which must exit via Resume first.
func (m *Mode) Toggle(ctx context.Context) error {
	if err := m.fire(ctx, EventToggle); err != nil {
		return fmt.Errorf("mode: toggle: %w", err)
	}
	return nil
}

// EnterPassthrough switches to Passthrough from either Enabled or Disabled.
func (m *Mode) EnterPassthrough(ctx context.Context) error {
	if err := m.fire(ctx, EventPassthru); err != nil {
		return fmt.Errorf("mode: enter passthrough: %w", err)
	}
	return nil
}

// Resume leaves Passthrough and returns to Enabled.
func (m *Mode) Resume(ctx context.Context) error {
	if err := m.fire(ctx, EventResume); err != nil {
		return fmt.Errorf("mode: resume: %w", err)
	}
	return nil
}

// IsEnabled reports whether the engine should actively remap keys.
func (m *Mode) IsEnabled() bool {
	return m.Current() == Enabled
}

// IsPassthrough reports whether raw key events should bypass the
// remapping pipeline entirely and be forwarded unchanged: true in both
// Disabled and Passthrough, since a grabbed device stops delivering events
// to the desktop any other way.
func (m *Mode) IsPassthrough() bool {
	c := m.Current()
	return c == Disabled || c == Passthrough
}
