//go:build !windows

package util

import "errors"

// ErrUnsupported is returned for Windows-only helpers.
var ErrUnsupported = errors.New("only available on Windows")

// IsRunFromGUI is always false off Windows.
func IsRunFromGUI() bool {
	return false
}

// OpenGameControllers opens the system game controller settings.
func OpenGameControllers() error {
	return ErrUnsupported
}

// WaitForEnter is a no-op off Windows.
func WaitForEnter() {}
