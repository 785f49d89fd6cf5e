package mapping

import "github.com/fujinami-dev/fujinami/internal/layout"

// Engine holds the currently active Layout and the last Command it ran,
// so that each new committed chord can elide against what was previously
// held.
type Engine struct {
	emitter     layout.Emitter
	layout      *layout.Layout
	prevCommand *layout.Command
}

// NewEngine returns an Engine that drives e for every Command it runs.
func NewEngine(e layout.Emitter) *Engine {
	return &Engine{emitter: e}
}

// Close releases whatever command is currently held, so teardown never
// leaves a synthetic key stuck down.
func (m *Engine) Close() error {
	if m.prevCommand == nil {
		return nil
	}
	err := m.prevCommand.Release(m.emitter)
	m.prevCommand = nil
	return err
}

// Reset releases any held command and forgets the active layout.
func (m *Engine) Reset() error {
	err := m.Close()
	m.layout = nil
	return err
}

// Update dispatches event to the matching handler.
func (m *Engine) Update(event Event) error {
	switch e := event.(type) {
	case KeyPressEvent:
		return m.updatePress(e)
	case KeyRepeatEvent:
		return m.updateRepeat(e)
	case KeyReleaseEvent:
		return m.updateRelease(e)
	case LayoutEvent:
		return m.updateLayout(e)
	}
	return nil
}

func (m *Engine) updatePress(e KeyPressEvent) error {
	var cmd layout.Command
	var found bool
	if m.layout != nil {
		cmd, found = m.layout.FindCommand(e.ActiveKeyset)
	}
	if found {
		if err := cmd.Press(m.emitter, m.prevCommand); err != nil {
			return err
		}
		m.prevCommand = &cmd
		return nil
	}
	return m.Close()
}

func (m *Engine) updateRepeat(e KeyRepeatEvent) error {
	var cmd layout.Command
	var found bool
	if m.layout != nil {
		cmd, found = m.layout.FindCommand(e.ActiveKeyset)
	}
	if found {
		if err := cmd.Repeat(m.emitter, m.prevCommand); err != nil {
			return err
		}
		m.prevCommand = &cmd
		return nil
	}
	return m.Close()
}

func (m *Engine) updateRelease(KeyReleaseEvent) error {
	return m.Close()
}

func (m *Engine) updateLayout(e LayoutEvent) error {
	m.layout = e.Layout
	return nil
}
