package cmd

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/padorder/dinput"
	"github.com/Alia5/padorder/internal/util"
)

// Panel opens the game controller settings, or a device's own
// DirectInput property sheet.
type Panel struct {
	Device string `arg:"" optional:"" help:"Device index, GUID or name"`
}

func (p *Panel) Run(logger *slog.Logger, opts *Options) error {
	if p.Device == "" {
		logger.Debug("Opening game controller settings")
		return util.OpenGameControllers()
	}

	s, err := opts.open(logger, 0)
	if err != nil {
		return err
	}
	id, err := resolveDevice(s.manager.Devices(), p.Device)
	if err != nil {
		return err
	}
	if id.IsZero() {
		return util.OpenGameControllers()
	}

	di, err := dinput.Create(opts.DInputDLL, dinput.Wide)
	if err != nil {
		return err
	}
	defer di.Release()

	dev, err := di.CreateDevice(id)
	if err != nil {
		return fmt.Errorf("CreateDevice %s: %w", id, err)
	}
	defer dev.Release()
	return dev.RunControlPanel(0)
}
