// Package config loads application settings and keyboard configuration
// from YAML, using an XDG-ish search-path precedence: explicit path, the
// invoking (or sudo'ing) user's home, the executable's own directory, then
// /etc.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// AppConfig is the top-level application configuration: which keyboard
// config file to load and how to run.
type AppConfig struct {
	KeyboardConfig string `yaml:"keyboard_config"`
	LogLevel       string `yaml:"log_level"`
	KeyboardDevice string `yaml:"keyboard_device"`

	// PassthroughToggleKey names the key whose press flips passthrough
	// mode (see internal/capture.PassthroughToggle). Empty disables the
	// toggle entirely.
	PassthroughToggleKey string `yaml:"passthrough_toggle_key"`

	ConfigDir string `yaml:"-"`
}

// DefaultAppConfig returns the built-in defaults, used whenever no config
// file is found on the search path.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		KeyboardConfig:       "default",
		LogLevel:             "info",
		KeyboardDevice:       "auto",
		PassthroughToggleKey: "scrolllock",
	}
}

// Load reads AppConfig from the first readable file among configPath (if
// non-empty) and a fixed list of search paths; a configPath that cannot be
// read falls through to the search paths.
func Load(configPath string) (*AppConfig, error) {
	cfg := DefaultAppConfig()

	var searchPaths []string
	if configPath != "" {
		searchPaths = append(searchPaths, configPath)
	}
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		searchPaths = append(searchPaths, filepath.Join("/home", sudoUser, ".config", "fujinami", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "fujinami", "config.yaml"))
	}
	if exe, err := os.Executable(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(filepath.Dir(exe), "configs", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/fujinami/config.yaml")

	var loadedPath string
	for _, path := range searchPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		loadedPath = path
		break
	}

	switch {
	case loadedPath != "":
		cfg.ConfigDir = filepath.Dir(loadedPath)
	default:
		if exe, err := os.Executable(); err == nil {
			cfg.ConfigDir = filepath.Join(filepath.Dir(exe), "configs")
		} else if home, err := os.UserHomeDir(); err == nil {
			cfg.ConfigDir = filepath.Join(home, ".config", "fujinami")
		} else {
			cfg.ConfigDir = "/etc/fujinami"
		}
	}

	return cfg, nil
}

// KeyboardConfigPath returns the path of the named keyboard config file
// (the document parsed by LoadKeyboardConfig).
func (c *AppConfig) KeyboardConfigPath(name string) string {
	return filepath.Join(c.ConfigDir, "keyboards", name+".yaml")
}

// AvailableKeyboardConfigs lists the keyboard config names found in the
// config directory's keyboards subdirectory.
func (c *AppConfig) AvailableKeyboardConfigs() ([]string, error) {
	dir := filepath.Join(c.ConfigDir, "keyboards")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading keyboards directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".yaml" {
			name := entry.Name()
			names = append(names, name[:len(name)-len(".yaml")])
		}
	}
	slices.Sort(names)
	return names, nil
}

// Save writes cfg back to ConfigDir/config.yaml.
func (c *AppConfig) Save() error {
	if err := os.MkdirAll(c.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(c.ConfigDir, "config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
