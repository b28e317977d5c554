// Package hotplug reports input device arrival and removal. Notifications
// carry no payload; consumers re-enumerate.
package hotplug

import (
	"errors"
	"log/slog"
	"strings"
)

// ErrUnsupported is returned by Run on platforms without a notification
// source.
var ErrUnsupported = errors.New("hotplug notifications unsupported on this platform")

// DefaultDir is the device node directory watched on Linux.
const DefaultDir = "/dev/input"

// Watcher forwards OS device-change notifications to a callback.
type Watcher struct {
	// Dir overrides DefaultDir on Linux.
	Dir    string
	logger *slog.Logger
}

// New returns a watcher over the platform's notification source.
func New(logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{Dir: DefaultDir, logger: logger}
}

// isInputNode reports whether a /dev/input entry is a joystick or event node.
func isInputNode(name string) bool {
	return strings.HasPrefix(name, "js") || strings.HasPrefix(name, "event")
}
