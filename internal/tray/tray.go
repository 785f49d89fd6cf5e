// Package tray provides system tray integration using fyne.io/systray for
// the three-mode (enabled/disabled/passthrough) engine and the
// config-driven set of named keyboard layouts.
package tray

import (
	"context"
	"log/slog"
	"time"

	"fyne.io/systray"

	"github.com/fujinami-dev/fujinami/internal/mode"
)

// Config holds tray configuration.
type Config struct {
	CurrentLayout    string
	AvailableLayouts []string
	Mode             string // one of mode.Enabled, mode.Disabled, mode.Passthrough
	OnLayoutChange   func(layout string)
	OnToggle         func(ctx context.Context) error
	OnPassthrough    func(ctx context.Context) error
	OnResume         func(ctx context.Context) error
	OnQuit           func()
	Logger           *slog.Logger
}

// Tray represents the system tray icon and menu.
type Tray struct {
	logger *slog.Logger

	onLayoutChange func(layout string)
	onToggle       func(ctx context.Context) error
	onPassthrough  func(ctx context.Context) error
	onResume       func(ctx context.Context) error
	onQuit         func()

	currentMode      string
	currentLayout    string
	availableLayouts []string

	statusItem      *systray.MenuItem
	passthroughItem *systray.MenuItem
	layoutItems     []*systray.MenuItem
}

// New creates a new system tray icon.
func New(cfg Config) *Tray {
	m := cfg.Mode
	if m == "" {
		m = mode.Enabled
	}
	return &Tray{
		currentMode:      m,
		currentLayout:    cfg.CurrentLayout,
		availableLayouts: cfg.AvailableLayouts,
		onLayoutChange:   cfg.OnLayoutChange,
		onToggle:         cfg.OnToggle,
		onPassthrough:    cfg.OnPassthrough,
		onResume:         cfg.OnResume,
		onQuit:           cfg.OnQuit,
		logger:           cfg.Logger,
	}
}

// Run starts the system tray. This blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(t.iconForMode())
	systray.SetTitle("Fujinami")
	t.updateTooltip()

	t.statusItem = systray.AddMenuItem(t.statusLabel(), "Toggle key remapping")
	t.passthroughItem = systray.AddMenuItem("Passthrough", "Forward every key unchanged")

	systray.AddSeparator()

	layoutMenu := systray.AddMenuItem("Layout", "Select keyboard layout")
	t.layoutItems = make([]*systray.MenuItem, len(t.availableLayouts))
	for i, name := range t.availableLayouts {
		t.layoutItems[i] = layoutMenu.AddSubMenuItem(t.layoutLabel(name), "Switch to "+name)
	}

	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit", "Exit Fujinami")

	go t.handleClicks(quitItem)
}

func (t *Tray) handleClicks(quitItem *systray.MenuItem) {
	for {
		select {
		case <-t.statusItem.ClickedCh:
			t.handleToggle()
		case <-t.passthroughItem.ClickedCh:
			t.handlePassthroughClick()
		case <-quitItem.ClickedCh:
			if t.onQuit != nil {
				t.onQuit()
			}
			systray.Quit()
			return
		default:
			for i, item := range t.layoutItems {
				select {
				case <-item.ClickedCh:
					t.selectLayout(t.availableLayouts[i])
				default:
				}
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
}

func (t *Tray) handleToggle() {
	if t.currentMode == mode.Passthrough {
		if t.onResume != nil {
			if err := t.onResume(context.Background()); err != nil {
				t.logger.Warn("resume failed", "error", err)
				return
			}
		}
		t.SetMode(mode.Enabled)
		return
	}
	if t.onToggle != nil {
		if err := t.onToggle(context.Background()); err != nil {
			t.logger.Warn("toggle failed", "error", err)
			return
		}
	}
	if t.currentMode == mode.Enabled {
		t.SetMode(mode.Disabled)
	} else {
		t.SetMode(mode.Enabled)
	}
}

func (t *Tray) handlePassthroughClick() {
	if t.currentMode == mode.Passthrough {
		if t.onResume != nil {
			if err := t.onResume(context.Background()); err != nil {
				t.logger.Warn("resume failed", "error", err)
				return
			}
		}
		t.SetMode(mode.Enabled)
		return
	}
	if t.onPassthrough != nil {
		if err := t.onPassthrough(context.Background()); err != nil {
			t.logger.Warn("enter passthrough failed", "error", err)
			return
		}
	}
	t.SetMode(mode.Passthrough)
}

func (t *Tray) selectLayout(layout string) {
	if layout == t.currentLayout {
		return
	}
	t.currentLayout = layout
	for i, name := range t.availableLayouts {
		t.layoutItems[i].SetTitle(t.layoutLabel(name))
	}
	t.updateTooltip()
	t.logger.Info("layout changed", "layout", layout)
	if t.onLayoutChange != nil {
		t.onLayoutChange(layout)
	}
}

// SetMode updates the tray's displayed mode without going through a click
// handler, e.g. when the mode changed via the passthrough toggle key
// instead of the tray menu.
func (t *Tray) SetMode(m string) {
	t.currentMode = m
	if t.statusItem != nil {
		t.statusItem.SetTitle(t.statusLabel())
	}
	systray.SetIcon(t.iconForMode())
	t.updateTooltip()
}

func (t *Tray) statusLabel() string {
	switch t.currentMode {
	case mode.Disabled:
		return "✗ Disabled"
	case mode.Passthrough:
		return "↦ Passthrough (click to resume)"
	default:
		return "✓ Enabled"
	}
}

func (t *Tray) layoutLabel(name string) string {
	if name == t.currentLayout {
		return "● " + name
	}
	return "  " + name
}

func (t *Tray) iconForMode() []byte {
	switch t.currentMode {
	case mode.Disabled:
		return iconDisabled
	case mode.Passthrough:
		return iconPassthrough
	default:
		return iconEnabled
	}
}

func (t *Tray) updateTooltip() {
	systray.SetTooltip("Fujinami: " + t.currentMode + " (" + t.currentLayout + ")")
}

func (t *Tray) onExit() {
	t.logger.Info("tray exiting")
}

// Quit stops the system tray.
func (t *Tray) Quit() {
	systray.Quit()
}
