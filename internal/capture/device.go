// Package capture discovers physical keyboards, grabs them exclusively via
// evdev, and turns their raw scancode events into buffering.Event values on
// an eventqueue.Queue, generalized away from a single hardcoded virtual
// device name and wired to the abstract keycode.Key space instead of raw
// evdev codes.
package capture

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/fujinami-dev/fujinami/internal/keycode"
)

// KeyEventKind tags what a KeyEvent represents: one kind for each evdev
// EV_KEY value (1 press, 0 release, 2 repeat), expressed as the domain's own
// vocabulary rather than a bare int a caller has to remember. Its own
// numeric values do not match the evdev ones.
type KeyEventKind uint8

const (
	KeyEventPress KeyEventKind = iota
	KeyEventRelease
	KeyEventRepeat
)

// KeyEvent is one physical key transition already translated from a raw
// evdev scancode into the engine's abstract Key space, alongside the
// original scancode (RawCode) for the passthrough forwarder, which speaks
// native evdev codes rather than Key. Key is keycode.Unknown when RawCode
// has no registered translation (see keycode.ToKey): callers that only
// care about the buffering pipeline should drop these; the passthrough
// forwarder still wants RawCode regardless.
type KeyEvent struct {
	Kind    KeyEventKind
	Key     keycode.Key
	RawCode uint16
	Time    time.Time
}

// Device is a single grabbed physical input device.
type Device struct {
	path   string
	device *evdev.InputDevice
	name   string
}

func (d *Device) Path() string { return d.path }
func (d *Device) Name() string { return d.name }

// ReadKeyEvent blocks for the device's next EV_KEY event and translates it
// into the domain's KeyEvent, looping past any non-key event (EV_SYN,
// EV_MSC, etc.) the kernel interleaves into the stream. This is where the
// native scancode meets keycode.ToKey — the "stable Key<->native-scancode
// translation" the core treats as an external concern — rather than
// leaving that lookup scattered across the caller's dispatch loop.
func (d *Device) ReadKeyEvent() (KeyEvent, error) {
	for {
		ev, err := d.device.ReadOne()
		if err != nil {
			return KeyEvent{}, err
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}

		var kind KeyEventKind
		switch ev.Value {
		case 1:
			kind = KeyEventPress
		case 0:
			kind = KeyEventRelease
		case 2:
			kind = KeyEventRepeat
		default:
			continue
		}

		return KeyEvent{
			Kind:    kind,
			Key:     keycode.ToKey(uint16(ev.Code)),
			RawCode: uint16(ev.Code),
			Time:    time.Unix(int64(ev.Time.Sec), int64(ev.Time.Usec)*1000),
		}, nil
	}
}

// Manager discovers and owns the lifetime of every grabbed Device.
type Manager struct {
	mu      sync.RWMutex
	devices map[string]*Device
	logger  *slog.Logger

	// excludeName, when non-empty, is matched case-insensitively against
	// each candidate device's name so the manager never grabs its own
	// virtual output device.
	excludeName string
}

// NewManager returns a Manager that will skip any candidate device whose
// name contains excludeName (case-insensitive); pass "" to skip nothing.
func NewManager(logger *slog.Logger, excludeName string) *Manager {
	return &Manager{
		devices:     make(map[string]*Device),
		logger:      logger,
		excludeName: excludeName,
	}
}

// FindKeyboards discovers keyboard-capable devices under /dev/input.
func (m *Manager) FindKeyboards() ([]*Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("globbing input devices: %w", err)
	}

	var keyboards []*Device
	for _, path := range matches {
		dev, err := evdev.Open(path)
		if err != nil {
			m.logger.Debug("cannot open device", "path", path, "error", err)
			continue
		}

		name, err := dev.Name()
		if err != nil {
			dev.Close()
			continue
		}

		if !isKeyboard(dev) {
			dev.Close()
			continue
		}

		if m.excludeName != "" && strings.Contains(strings.ToLower(name), strings.ToLower(m.excludeName)) {
			dev.Close()
			continue
		}

		device := &Device{path: path, device: dev, name: name}
		m.devices[path] = device
		keyboards = append(keyboards, device)

		m.logger.Info("found keyboard", "name", name, "path", path)
	}

	return keyboards, nil
}

func isKeyboard(dev *evdev.InputDevice) bool {
	for _, t := range dev.CapableTypes() {
		if t != evdev.EV_KEY {
			continue
		}
		for _, code := range dev.CapableEvents(evdev.EV_KEY) {
			if code >= 30 && code <= 52 { // KEY_A..KEY_DOT
				return true
			}
		}
	}
	return false
}

// Grab takes exclusive control of dev, so raw events stop reaching every
// other consumer (X11, Wayland, the console) and only this process sees
// them.
func (m *Manager) Grab(dev *Device) error {
	if err := dev.device.Grab(); err != nil {
		return fmt.Errorf("grabbing device %s: %w", dev.path, err)
	}
	m.logger.Info("grabbed device", "name", dev.name)
	return nil
}

// Release gives up exclusive control of dev.
func (m *Manager) Release(dev *Device) error {
	if err := dev.device.Ungrab(); err != nil {
		return fmt.Errorf("releasing device %s: %w", dev.path, err)
	}
	m.logger.Info("released device", "name", dev.name)
	return nil
}

// Close closes every device the Manager has opened.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, dev := range m.devices {
		dev.device.Close()
	}
	m.devices = make(map[string]*Device)
}
