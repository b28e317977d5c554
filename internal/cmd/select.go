package cmd

import (
	"fmt"
	"io"
	"log/slog"
)

// Select binds a device to a player.
type Select struct {
	Player int    `arg:"" help:"Player slot" enum:"1,2"`
	Device string `arg:"" help:"Device index, GUID or name; 'none' to unset"`

	out io.Writer
}

func (c *Select) Run(logger *slog.Logger, opts *Options) error {
	s, err := opts.open(logger, 0)
	if err != nil {
		return err
	}
	return c.apply(s)
}

func (c *Select) apply(s *session) error {
	player, err := parsePlayer(c.Player)
	if err != nil {
		return err
	}
	id, err := resolveDevice(s.manager.Devices(), c.Device)
	if err != nil {
		return err
	}
	if err := s.manager.SetSelection(player, id); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return err
	}
	s.logger.Info("Selection changed", "player", player.String(), "device", id.String())
	fmt.Fprintf(writerOr(c.out), "%s: %s\n", player, id)
	return nil
}
