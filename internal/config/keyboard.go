package config

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/fujinami-dev/fujinami/internal/keycode"
	"github.com/fujinami-dev/fujinami/internal/keyset"
	"github.com/fujinami-dev/fujinami/internal/layout"
)

// keyboardDocument is the on-disk YAML shape of a keyboard config: a set
// of named layouts plus the handful of engine-wide knobs.
type keyboardDocument struct {
	TimeoutMS       int64           `yaml:"timeout_ms"`
	AutoLayout      bool            `yaml:"auto_layout"`
	DefaultLayout   string          `yaml:"default_layout"`
	DefaultIMLayout string          `yaml:"default_im_layout"`
	Layouts         []layoutDocument `yaml:"layouts"`
}

type layoutDocument struct {
	Name        string              `yaml:"name"`
	Flows       []flowDocument      `yaml:"flows"`
	Mappings    []mappingDocument   `yaml:"mappings"`
	Transitions []transitionDocument `yaml:"transitions"`
}

type flowDocument struct {
	Key  string `yaml:"key"`
	Flow string `yaml:"flow"`
}

type mappingDocument struct {
	Keys    []string         `yaml:"keys"`
	Roles   []string         `yaml:"roles"`
	Actions []actionDocument `yaml:"actions"`
}

type actionDocument struct {
	Type      string   `yaml:"type"` // "key" or "char"
	Key       string   `yaml:"key,omitempty"`
	Modifiers []string `yaml:"modifiers,omitempty"`
	Rune      string   `yaml:"rune,omitempty"`
}

type transitionDocument struct {
	Active []string `yaml:"active"`
	Next   string   `yaml:"next"`
}

// LoadKeyboardConfig reads and resolves a keyboard config document from
// path into a ready-to-use *layout.Config.
func LoadKeyboardConfig(path string) (*layout.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keyboard config %s: %w", path, err)
	}
	var doc keyboardDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing keyboard config %s: %w", path, err)
	}
	return buildConfig(&doc)
}

func buildConfig(doc *keyboardDocument) (*layout.Config, error) {
	cfg := layout.NewConfig()
	cfg.TimeoutDuration = time.Duration(doc.TimeoutMS) * time.Millisecond
	cfg.HasTimeout = doc.TimeoutMS > 0
	cfg.AutoLayout = doc.AutoLayout
	cfg.DefaultLayout = doc.DefaultLayout
	cfg.DefaultIMLayout = doc.DefaultIMLayout

	// Pass 1: create every named layout (empty) so transitions below, in
	// any layout and referencing any other, always resolve — layouts form
	// a graph and may cycle back on themselves.
	for _, ld := range doc.Layouts {
		if _, exists := cfg.Layout(ld.Name); exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLayoutName, ld.Name)
		}
		cfg.AddLayout(layout.NewLayout(ld.Name))
	}

	// Pass 2: fill in flows and mappings, which only reference keys.
	for _, ld := range doc.Layouts {
		l, _ := cfg.Layout(ld.Name)
		if err := applyFlows(l, ld.Flows); err != nil {
			return nil, fmt.Errorf("layout %q: %w", ld.Name, err)
		}
		if err := applyMappings(l, ld.Mappings); err != nil {
			return nil, fmt.Errorf("layout %q: %w", ld.Name, err)
		}
	}

	// Pass 3: wire transitions, which reference other layouts by name.
	for _, ld := range doc.Layouts {
		l, _ := cfg.Layout(ld.Name)
		if err := applyTransitions(cfg, l, ld.Transitions); err != nil {
			return nil, fmt.Errorf("layout %q: %w", ld.Name, err)
		}
	}

	if doc.DefaultLayout != "" {
		if _, ok := cfg.Layout(doc.DefaultLayout); !ok {
			return nil, fmt.Errorf("default_layout: %w: %q", ErrUnknownLayoutName, doc.DefaultLayout)
		}
	}
	if doc.DefaultIMLayout != "" {
		if _, ok := cfg.Layout(doc.DefaultIMLayout); !ok {
			return nil, fmt.Errorf("default_im_layout: %w: %q", ErrUnknownLayoutName, doc.DefaultIMLayout)
		}
	}

	return cfg, nil
}

func applyFlows(l *layout.Layout, flows []flowDocument) error {
	for _, fd := range flows {
		key, ok := keycode.ByName(fd.Key)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownKeyName, fd.Key)
		}
		flowType, ok := keycode.ParseFlowType(fd.Flow)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFlowTypeName, fd.Flow)
		}
		if err := l.CreateFlow(key, flowType); err != nil {
			return err
		}
	}
	return nil
}

func applyMappings(l *layout.Layout, mappings []mappingDocument) error {
	for _, md := range mappings {
		keys := make([]keycode.Key, len(md.Keys))
		for i, name := range md.Keys {
			k, ok := keycode.ByName(name)
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnknownKeyName, name)
			}
			keys[i] = k
		}

		roles := make([]layout.KeyRole, len(md.Roles))
		for i, name := range md.Roles {
			role, err := parseRole(name)
			if err != nil {
				return err
			}
			roles[i] = role
		}

		actions := make([]layout.Action, 0, len(md.Actions))
		for _, ad := range md.Actions {
			action, err := parseAction(ad)
			if err != nil {
				return err
			}
			actions = append(actions, action)
		}

		if err := l.CreateMapping(keys, roles, layout.NewCommand(actions...)); err != nil {
			return err
		}
	}
	return nil
}

func applyTransitions(cfg *layout.Config, l *layout.Layout, transitions []transitionDocument) error {
	for _, td := range transitions {
		var active []keycode.Key
		for _, name := range td.Active {
			k, ok := keycode.ByName(name)
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnknownKeyName, name)
			}
			active = append(active, k)
		}
		next, ok := cfg.Layout(td.Next)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownLayoutName, td.Next)
		}
		activeKeyset := keysetOf(active)
		if err := l.CreateTransition(activeKeyset, next); err != nil {
			return err
		}
	}
	return nil
}

func keysetOf(keys []keycode.Key) keyset.Keyset {
	return keyset.Of(keys...)
}

func parseRole(name string) (layout.KeyRole, error) {
	switch name {
	case "none", "":
		return layout.RoleNone, nil
	case "trigger":
		return layout.RoleTrigger, nil
	case "modifier":
		return layout.RoleModifier, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRoleName, name)
	}
}

func parseModifier(name string) (keycode.Modifier, error) {
	switch name {
	case "shift_left":
		return keycode.ShiftLeft, nil
	case "shift_right":
		return keycode.ShiftRight, nil
	case "control_left":
		return keycode.ControlLeft, nil
	case "control_right":
		return keycode.ControlRight, nil
	case "alt_left":
		return keycode.AltLeft, nil
	case "alt_right":
		return keycode.AltRight, nil
	case "os_left":
		return keycode.OSLeft, nil
	case "os_right":
		return keycode.OSRight, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownModifierName, name)
	}
}

func parseAction(ad actionDocument) (layout.Action, error) {
	switch ad.Type {
	case "key":
		key, ok := keycode.ByName(ad.Key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKeyName, ad.Key)
		}
		var mods keycode.Modifiers
		for _, name := range ad.Modifiers {
			flag, err := parseModifier(name)
			if err != nil {
				return nil, err
			}
			mods = mods.With(flag)
		}
		return layout.KeyAction{Key: key, Modifiers: mods}, nil
	case "char":
		r, size := utf8.DecodeRuneInString(ad.Rune)
		if r == utf8.RuneError || size != len(ad.Rune) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRune, ad.Rune)
		}
		return layout.CharAction{Rune: r}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionType, ad.Type)
	}
}
