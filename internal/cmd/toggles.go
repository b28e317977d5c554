package cmd

import (
	"fmt"
	"io"
	"log/slog"
)

// Override switches override mode.
type Override struct {
	Mode string `arg:"" help:"on or off" enum:"on,off"`

	out io.Writer
}

func (c *Override) Run(logger *slog.Logger, opts *Options) error {
	s, err := opts.open(logger, 0)
	if err != nil {
		return err
	}
	return c.apply(s)
}

func (c *Override) apply(s *session) error {
	enabled, err := parseSwitch(c.Mode)
	if err != nil {
		return err
	}
	if err := s.manager.SetOverrideEnabled(enabled); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return err
	}
	fmt.Fprintf(writerOr(c.out), "override: %s\n", onOff(enabled))
	return nil
}

// AutoRefresh switches periodic re-enumeration.
type AutoRefresh struct {
	Mode string `arg:"" help:"on or off" enum:"on,off"`

	out io.Writer
}

func (c *AutoRefresh) Run(logger *slog.Logger, opts *Options) error {
	s, err := opts.open(logger, 0)
	if err != nil {
		return err
	}
	return c.apply(s)
}

func (c *AutoRefresh) apply(s *session) error {
	enabled, err := parseSwitch(c.Mode)
	if err != nil {
		return err
	}
	s.manager.SetAutoRefresh(enabled)
	if err := s.save(); err != nil {
		return err
	}
	fmt.Fprintf(writerOr(c.out), "autorefresh: %s\n", onOff(enabled))
	return nil
}
