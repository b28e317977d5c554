package cmd

import (
	"io"
	"log/slog"
	"os"
)

// Devices lists the canonical device set with the current assignment.
type Devices struct {
	JSON bool `help:"Print JSON instead of a table"`

	out io.Writer
}

func (d *Devices) Run(logger *slog.Logger, opts *Options) error {
	s, err := opts.open(logger, 0)
	if err != nil {
		return err
	}
	return render(writerOr(d.out), newView(s.manager), d.JSON)
}

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
