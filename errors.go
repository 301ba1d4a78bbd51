package versiondb

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every error caused by a key naming an unknown
	// version or mod. HTTP callers map it to 404.
	ErrNotFound = errors.New("versiondb: not found")

	// ErrInvalidMod matches *InvalidModError.
	ErrInvalidMod = errors.New("versiondb: invalid mod")
)

// UnknownVersionError is returned for a key whose version is not configured.
// Available lists the configured versions, default last.
type UnknownVersionError struct {
	Version   string
	Available []string
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("versiondb: no such version: %q", e.Version)
}

func (e *UnknownVersionError) Is(target error) bool { return target == ErrNotFound }

// UnknownModError is returned for a key naming a mod that is not configured.
type UnknownModError struct {
	Mod       string
	Available []string
}

func (e *UnknownModError) Error() string {
	return fmt.Sprintf("versiondb: no such mod: %q. Available mods: %q", e.Mod, e.Available)
}

func (e *UnknownModError) Is(target error) bool { return target == ErrNotFound }

// InvalidModError is returned when a link asks to remove a mod that the
// current key does not contain.
type InvalidModError struct {
	Mod  string
	Mods []string
}

func (e *InvalidModError) Error() string {
	return fmt.Sprintf("versiondb: cannot remove mod %q: not in %q", e.Mod, e.Mods)
}

func (e *InvalidModError) Is(target error) bool { return target == ErrInvalidMod }
