package keycode

// Linux evdev scancode translation. Every key this module cares about has
// an evdev code below KeyCount (256), so ToKey/ToKeyCode are simply the
// identity function clamped to that range: Key(code) == Key(uint8(code))
// for any code < 256, and any code >= 256 collapses to Unknown. This keeps
// the round-trip invariant ToKey(ToKeyCode(k)) == k trivially true for
// every Key that ever originates from a real scancode, without needing a
// second lookup table alongside keyNames below.
//
// Names mirror linux/input-event-codes.h.
const (
	KeyEsc        Key = 1
	Key1          Key = 2
	Key2          Key = 3
	Key3          Key = 4
	Key4          Key = 5
	Key5          Key = 6
	Key6          Key = 7
	Key7          Key = 8
	Key8          Key = 9
	Key9          Key = 10
	Key0          Key = 11
	KeyMinus      Key = 12
	KeyEqual      Key = 13
	KeyBackspace  Key = 14
	KeyTab        Key = 15
	KeyQ          Key = 16
	KeyW          Key = 17
	KeyE          Key = 18
	KeyR          Key = 19
	KeyT          Key = 20
	KeyY          Key = 21
	KeyU          Key = 22
	KeyI          Key = 23
	KeyO          Key = 24
	KeyP          Key = 25
	KeyLeftBrace  Key = 26
	KeyRightBrace Key = 27
	KeyEnter      Key = 28
	KeyLeftCtrl   Key = 29
	KeyA          Key = 30
	KeyS          Key = 31
	KeyD          Key = 32
	KeyF          Key = 33
	KeyG          Key = 34
	KeyH          Key = 35
	KeyJ          Key = 36
	KeyK          Key = 37
	KeyL          Key = 38
	KeySemicolon  Key = 39
	KeyApostrophe Key = 40
	KeyGrave      Key = 41
	KeyLeftShift  Key = 42
	KeyBackslash  Key = 43
	KeyZ          Key = 44
	KeyX          Key = 45
	KeyC          Key = 46
	KeyV          Key = 47
	KeyB          Key = 48
	KeyN          Key = 49
	KeyM          Key = 50
	KeyComma      Key = 51
	KeyDot        Key = 52
	KeySlash      Key = 53
	KeyRightShift Key = 54
	KeyKPAsterisk Key = 55
	KeyLeftAlt    Key = 56
	KeySpace      Key = 57
	KeyCapsLock   Key = 58
	KeyF1         Key = 59
	KeyF2         Key = 60
	KeyF3         Key = 61
	KeyF4         Key = 62
	KeyF5         Key = 63
	KeyF6         Key = 64
	KeyF7         Key = 65
	KeyF8         Key = 66
	KeyF9         Key = 67
	KeyF10        Key = 68
	Key102ND      Key = 86
	KeyF11        Key = 87
	KeyF12        Key = 88
	KeyRightCtrl  Key = 97
	KeyRightAlt   Key = 100
	KeyHome       Key = 102
	KeyUp         Key = 103
	KeyPageUp     Key = 104
	KeyLeft       Key = 105
	KeyRight      Key = 106
	KeyEnd        Key = 107
	KeyDown       Key = 108
	KeyPageDown   Key = 109
	KeyInsert     Key = 110
	KeyDelete     Key = 111
	KeyLeftMeta   Key = 125
	KeyRightMeta  Key = 126
	KeyScrollLock Key = 70
)

// ToKey translates a raw evdev scancode into the abstract Key space.
// Codes at or beyond KeyCount cannot be represented and map to Unknown.
func ToKey(scancode uint16) Key {
	if scancode == 0 || scancode >= KeyCount {
		return Unknown
	}
	return Key(scancode)
}

// ToKeyCode translates an abstract Key back into its native evdev scancode.
// Unknown maps to 0.
func ToKeyCode(key Key) uint16 {
	return uint16(key)
}

// IsModifierKey reports whether key is one of the 8 physical modifier keys
// evdev reports (as opposed to Modifiers, which describes an action's flag
// set).
func IsModifierKey(key Key) bool {
	switch key {
	case KeyLeftShift, KeyRightShift, KeyLeftCtrl, KeyRightCtrl,
		KeyLeftAlt, KeyRightAlt, KeyLeftMeta, KeyRightMeta:
		return true
	default:
		return false
	}
}

var keyNames = map[Key]string{
	KeyEsc: "esc", Key1: "1", Key2: "2", Key3: "3", Key4: "4", Key5: "5",
	Key6: "6", Key7: "7", Key8: "8", Key9: "9", Key0: "0",
	KeyMinus: "minus", KeyEqual: "equal", KeyBackspace: "backspace",
	KeyTab: "tab", KeyQ: "q", KeyW: "w", KeyE: "e", KeyR: "r", KeyT: "t",
	KeyY: "y", KeyU: "u", KeyI: "i", KeyO: "o", KeyP: "p",
	KeyLeftBrace: "leftbrace", KeyRightBrace: "rightbrace", KeyEnter: "enter",
	KeyLeftCtrl: "leftctrl", KeyA: "a", KeyS: "s", KeyD: "d", KeyF: "f",
	KeyG: "g", KeyH: "h", KeyJ: "j", KeyK: "k", KeyL: "l",
	KeySemicolon: "semicolon", KeyApostrophe: "apostrophe", KeyGrave: "grave",
	KeyLeftShift: "leftshift", KeyBackslash: "backslash", KeyZ: "z",
	KeyX: "x", KeyC: "c", KeyV: "v", KeyB: "b", KeyN: "n", KeyM: "m",
	KeyComma: "comma", KeyDot: "dot", KeySlash: "slash",
	KeyRightShift: "rightshift", KeyKPAsterisk: "kpasterisk",
	KeyLeftAlt: "leftalt", KeySpace: "space", KeyCapsLock: "capslock",
	KeyF1: "f1", KeyF2: "f2", KeyF3: "f3", KeyF4: "f4", KeyF5: "f5",
	KeyF6: "f6", KeyF7: "f7", KeyF8: "f8", KeyF9: "f9", KeyF10: "f10",
	Key102ND: "102nd", KeyF11: "f11", KeyF12: "f12",
	KeyRightCtrl: "rightctrl", KeyRightAlt: "rightalt", KeyHome: "home",
	KeyUp: "up", KeyPageUp: "pageup", KeyLeft: "left", KeyRight: "right",
	KeyEnd: "end", KeyDown: "down", KeyPageDown: "pagedown",
	KeyInsert: "insert", KeyDelete: "delete", KeyLeftMeta: "leftmeta",
	KeyRightMeta: "rightmeta", KeyScrollLock: "scrolllock",
}

// nameToKey is the reverse of keyNames, built once at init for the config
// loader's key-name resolution.
var nameToKey map[string]Key

func init() {
	nameToKey = make(map[string]Key, len(keyNames))
	for k, name := range keyNames {
		nameToKey[name] = k
	}
}

// ByName resolves a config-file key name (e.g. "a", "leftshift") to a Key.
func ByName(name string) (Key, bool) {
	k, ok := nameToKey[name]
	return k, ok
}
