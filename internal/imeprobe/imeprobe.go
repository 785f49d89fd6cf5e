// Package imeprobe implements buffering.IMProbe over D-Bus, asking IBus
// whether its global input context is currently composing — the bit the
// auto-layout feature needs to decide between the default layout and the
// IME layout.
package imeprobe

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	ibusServiceName   = "org.freedesktop.IBus"
	ibusObjectPath    = "/org/freedesktop/IBus"
	ibusInterface     = "org.freedesktop.IBus"
	ibusInputContext  = "org.freedesktop.IBus.InputContext"
	propIsEnabled     = "Enabled"
)

// Probe queries IBus's global input context over the session bus.
type Probe struct {
	conn *dbus.Conn
}

// New connects to the session bus and returns a Probe. Status returns false
// (as if no IME were composing) for every call if the session bus or IBus
// itself is unreachable — the same fail-open behavior as a nil IMProbe.
func New() (*Probe, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("imeprobe: connecting to session bus: %w", err)
	}
	return &Probe{conn: conn}, nil
}

// Close disconnects from the session bus.
func (p *Probe) Close() error {
	return p.conn.Close()
}

// Status reports whether IBus's global input context is currently enabled
// (i.e. actively composing), implementing buffering.IMProbe.
func (p *Probe) Status() bool {
	ibus := p.conn.Object(ibusServiceName, dbus.ObjectPath(ibusObjectPath))

	var contextPath dbus.ObjectPath
	if err := ibus.Call(ibusInterface+".CurrentInputContext", 0).Store(&contextPath); err != nil {
		return false
	}

	context := p.conn.Object(ibusServiceName, contextPath)
	variant, err := context.GetProperty(ibusInputContext + "." + propIsEnabled)
	if err != nil {
		return false
	}

	enabled, ok := variant.Value().(bool)
	return ok && enabled
}
