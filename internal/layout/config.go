package layout

import (
	"errors"
	"time"
)

// ErrUnknownLayout is returned when a Config references a layout name that
// was never built.
var ErrUnknownLayout = errors.New("layout: unknown layout name")

// Config is the fully-resolved, in-memory form of a loaded configuration:
// every named Layout plus the handful of engine-wide knobs that aren't
// per-layout. internal/config builds one of these from YAML.
type Config struct {
	Layouts         map[string]*Layout
	DefaultLayout   string
	DefaultIMLayout string

	// TimeoutDuration bounds how long DeferredFlow and SimulFlow wait for
	// more keys before falling back. Zero means "no window": both flows
	// commit on their next update.
	TimeoutDuration time.Duration
	HasTimeout      bool

	// AutoLayout switches to DefaultIMLayout whenever the active window's
	// input method context reports IME composition is active (see
	// internal/imeprobe), and back to DefaultLayout otherwise.
	AutoLayout bool
}

// NewConfig returns an empty Config ready for layouts to be added.
func NewConfig() *Config {
	return &Config{Layouts: make(map[string]*Layout)}
}

// AddLayout registers l under its own Name. Re-adding the same name
// replaces the previous Layout.
func (c *Config) AddLayout(l *Layout) {
	c.Layouts[l.Name] = l
}

// Layout looks up a registered layout by name.
func (c *Config) Layout(name string) (*Layout, bool) {
	l, ok := c.Layouts[name]
	return l, ok
}

// Default returns the configured default layout.
func (c *Config) Default() (*Layout, error) {
	l, ok := c.Layouts[c.DefaultLayout]
	if !ok {
		return nil, ErrUnknownLayout
	}
	return l, nil
}

// DefaultIM returns the configured default IME-composition layout, used
// when AutoLayout is enabled.
func (c *Config) DefaultIM() (*Layout, error) {
	l, ok := c.Layouts[c.DefaultIMLayout]
	if !ok {
		return nil, ErrUnknownLayout
	}
	return l, nil
}
