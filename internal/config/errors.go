package config

import "errors"

// Sentinel errors describing exactly what is wrong with a keyboard config
// document, so that callers (and tests) can distinguish failure modes
// instead of matching on error strings.
var (
	ErrUnknownKeyName      = errors.New("config: unknown key name")
	ErrUnknownRoleName     = errors.New("config: unknown role name")
	ErrUnknownModifierName = errors.New("config: unknown modifier name")
	ErrUnknownFlowTypeName = errors.New("config: unknown flow type name")
	ErrUnknownActionType   = errors.New("config: unknown action type")
	ErrDuplicateLayoutName = errors.New("config: duplicate layout name")
	ErrUnknownLayoutName   = errors.New("config: reference to unknown layout name")
	ErrInvalidRune         = errors.New("config: char action rune must be exactly one character")
)
