package cmd

import "log/slog"

// Install grants the logged-in user read access to raw HID game
// controllers, which the HID census needs on Linux.
type Install struct{}

func (c *Install) Run(logger *slog.Logger) error {
	return install(logger)
}

// Uninstall removes what Install added.
type Uninstall struct{}

func (c *Uninstall) Run(logger *slog.Logger) error {
	return uninstall(logger)
}
