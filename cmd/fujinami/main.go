// Fujinami: a buffering key remapper for Linux, remapping chords,
// dual-role keys, and simultaneous presses per a YAML keyboard config.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fujinami-dev/fujinami/internal/buffering"
	"github.com/fujinami-dev/fujinami/internal/capture"
	"github.com/fujinami-dev/fujinami/internal/config"
	"github.com/fujinami-dev/fujinami/internal/emission"
	"github.com/fujinami-dev/fujinami/internal/imeprobe"
	"github.com/fujinami-dev/fujinami/internal/keycode"
	"github.com/fujinami-dev/fujinami/internal/mode"
	"github.com/fujinami-dev/fujinami/internal/pipeline"
	"github.com/fujinami-dev/fujinami/internal/tray"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to app config file")
	keyboardName := flag.String("keyboard", "", "Keyboard config name to use")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version information")
	noTray := flag.Bool("no-tray", false, "Run without system tray")
	flag.Parse()

	if *showVersion {
		fmt.Printf("fujinami %s (%s) built %s\n", version, commit, buildDate)
		os.Exit(0)
	}

	logger := newLogger(*logLevel)
	slog.SetDefault(logger)

	appCfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load app config", "error", err)
		os.Exit(1)
	}
	if *keyboardName != "" {
		appCfg.KeyboardConfig = *keyboardName
	}

	logger.Info("fujinami starting", "version", version, "keyboard", appCfg.KeyboardConfig)

	kbCfg, err := config.LoadKeyboardConfig(appCfg.KeyboardConfigPath(appCfg.KeyboardConfig))
	if err != nil {
		logger.Error("failed to load keyboard config", "keyboard", appCfg.KeyboardConfig, "error", err)
		os.Exit(1)
	}

	emitter, err := emission.New("fujinami-virtual", nil, logger)
	if err != nil {
		logger.Error("failed to create virtual keyboard", "error", err)
		logger.Error("make sure you have write access to /dev/uinput")
		os.Exit(1)
	}
	defer emitter.Close()

	var probe buffering.IMProbe
	if kbCfg.AutoLayout {
		p, err := imeprobe.New()
		if err != nil {
			logger.Warn("ime probe unavailable, disabling auto layout", "error", err)
		} else {
			defer p.Close()
			probe = p
		}
	}

	pl := pipeline.New(emitter, probe, logger)

	defaultLayout, _ := kbCfg.Default()
	defaultIMLayout, _ := kbCfg.DefaultIM()
	pl.PostBuffering(buffering.DefaultLayoutEvent{Default: defaultLayout, DefaultIM: defaultIMLayout})
	pl.PostBuffering(buffering.ControlEvent{Config: kbCfg})

	devManager := capture.NewManager(logger, "fujinami-virtual")
	defer devManager.Close()

	keyboards, err := devManager.FindKeyboards()
	if err != nil {
		logger.Error("failed to find keyboards", "error", err)
		os.Exit(1)
	}
	if len(keyboards) == 0 {
		logger.Error("no keyboards found")
		os.Exit(1)
	}

	for _, kb := range keyboards {
		if err := devManager.Grab(kb); err != nil {
			logger.Error("failed to grab keyboard", "name", kb.Name(), "error", err)
			continue
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runMode := mode.New(logger)

	var toggleKey keycode.Key
	if name := appCfg.PassthroughToggleKey; name != "" {
		k, ok := keycode.ByName(name)
		if !ok {
			logger.Warn("unknown passthrough toggle key, disabling toggle", "key", name)
		}
		toggleKey = k
	}
	toggle := capture.PassthroughToggle{
		Key: toggleKey,
		Flip: func() {
			var err error
			if runMode.Current() == mode.Passthrough {
				err = runMode.Resume(ctx)
			} else {
				err = runMode.EnterPassthrough(ctx)
			}
			if err != nil {
				logger.Warn("passthrough toggle failed", "error", err)
			}
		},
	}

	for _, kb := range keyboards {
		go func(dev *capture.Device) {
			err := capture.ReadLoop(ctx, dev, pl.BufferingQueue(), runMode.IsPassthrough, emitter, toggle)
			if err != nil && ctx.Err() == nil {
				logger.Error("error reading events", "device", dev.Name(), "error", err)
			}
		}(kb)
	}

	go func() {
		if err := pl.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("pipeline stopped unexpectedly", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if *noTray {
		logger.Info("running without system tray, press Ctrl+C to quit")
		<-sigChan
		logger.Info("shutting down...")
		cancel()
		<-pl.Done()
		return
	}

	availableLayouts, err := appCfg.AvailableKeyboardConfigs()
	if err != nil {
		logger.Warn("could not list keyboard configs", "error", err)
		availableLayouts = []string{appCfg.KeyboardConfig}
	}

	trayCfg := tray.Config{
		CurrentLayout:    appCfg.KeyboardConfig,
		AvailableLayouts: availableLayouts,
		Mode:             runMode.Current(),
		OnLayoutChange: func(name string) {
			newCfg, err := config.LoadKeyboardConfig(appCfg.KeyboardConfigPath(name))
			if err != nil {
				logger.Error("failed to load keyboard config", "keyboard", name, "error", err)
				return
			}
			appCfg.KeyboardConfig = name
			appCfg.Save()
			pl.PostBuffering(buffering.ControlEvent{Config: newCfg})
		},
		OnToggle:      runMode.Toggle,
		OnPassthrough: runMode.EnterPassthrough,
		OnResume:      runMode.Resume,
		OnQuit: func() {
			logger.Info("shutting down...")
			cancel()
		},
		Logger: logger,
	}
	trayIcon := tray.New(trayCfg)

	go func() {
		<-sigChan
		logger.Info("shutting down...")
		cancel()
		trayIcon.Quit()
	}()

	trayIcon.Run()
	<-pl.Done()
	logger.Info("fujinami stopped")
}

func newLogger(levelName string) *slog.Logger {
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
