package layout

// Command is an ordered sequence of Actions executed together whenever a
// keyset is recognized as mapped. Adjacent actions (and the boundary with
// whatever Command was active immediately before) elide redundant
// release/press pairs — see Action.Press.
type Command struct {
	Actions []Action
}

// NewCommand builds a Command from the given actions, in order.
func NewCommand(actions ...Action) Command {
	return Command{Actions: append([]Action(nil), actions...)}
}

// IsEmpty reports whether c has no actions, i.e. it maps to "do nothing"
// (used for NODE keysets and explicit passthrough-suppression entries).
func (c Command) IsEmpty() bool {
	return len(c.Actions) == 0
}

func (c Command) last() Action {
	if len(c.Actions) == 0 {
		return nil
	}
	return c.Actions[len(c.Actions)-1]
}

// Press transitions the emitter from prev (the Command active immediately
// before this one, or nil if none) to c. An empty c simply releases prev.
func (c Command) Press(e Emitter, prev *Command) error {
	if c.IsEmpty() {
		if prev != nil {
			return prev.Release(e)
		}
		return nil
	}
	var before Action
	if prev != nil {
		before = prev.last()
	}
	if err := c.Actions[0].Press(e, before); err != nil {
		return err
	}
	for i := 1; i < len(c.Actions); i++ {
		if err := c.Actions[i].Press(e, c.Actions[i-1]); err != nil {
			return err
		}
	}
	return nil
}

// Repeat re-emits c as an autorepeat of an already-held key. Only the first
// action actually repeats; any subsequent actions in the same Command still
// press over their predecessor.
func (c Command) Repeat(e Emitter, prev *Command) error {
	if c.IsEmpty() {
		if prev != nil {
			return prev.Release(e)
		}
		return nil
	}
	var before Action
	if prev != nil {
		before = prev.last()
	}
	if err := c.Actions[0].Repeat(e, before); err != nil {
		return err
	}
	for i := 1; i < len(c.Actions); i++ {
		if err := c.Actions[i].Press(e, c.Actions[i-1]); err != nil {
			return err
		}
	}
	return nil
}

// Release tears down only the last action: every earlier action in the
// sequence was already superseded (elided) by its successor's Press.
func (c Command) Release(e Emitter) error {
	last := c.last()
	if last == nil {
		return nil
	}
	return last.Release(e)
}
