package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Alia5/padorder/dinput"
	"github.com/Alia5/padorder/intercept"
	ilog "github.com/Alia5/padorder/internal/log"
)

// Preview shows what a game would see through the interceptor.
type Preview struct {
	Create bool `help:"Create every delivered device and bounce the handles once"`

	out io.Writer
}

func (p *Preview) Run(logger *slog.Logger, opts *Options, calls ilog.CallLogger) error {
	s, err := opts.open(logger, 0)
	if err != nil {
		return err
	}
	di, err := dinput.Create(opts.DInputDLL, dinput.Wide)
	if err != nil {
		return err
	}
	defer di.Release()
	return p.preview(s, di, calls)
}

func (p *Preview) preview(s *session, di dinput.DirectInput, calls ilog.CallLogger) error {
	out := writerOr(p.out)
	ic := intercept.New(di, s.manager, intercept.NewTracker(s.logger), s.logger, calls)
	defer ic.Tracker().Close()
	detach := intercept.BounceOnRefresh(s.manager, ic.Tracker())
	defer detach()

	v := newView(s.manager)
	var delivered []dinput.DeviceInstance
	err := ic.EnumDevices(dinput.ClassGameCtrl, func(inst dinput.DeviceInstance) bool {
		delivered = append(delivered, inst)
		return dinput.Continue
	}, dinput.EnumAttachedOnly)
	if err != nil {
		return fmt.Errorf("EnumDevices: %w", err)
	}

	fmt.Fprintf(out, "override: %s\n", onOff(v.Override))
	if len(delivered) == 0 {
		fmt.Fprintln(out, "no game controllers delivered")
	}
	for i, inst := range delivered {
		fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", i, v.player(inst.Instance), inst.InstanceName, inst.Instance)
	}

	if !p.Create {
		return nil
	}

	var devs []dinput.Device
	defer func() {
		for _, d := range devs {
			d.Release()
		}
	}()
	for _, inst := range delivered {
		d, err := ic.CreateDevice(inst.Instance)
		if err != nil {
			fmt.Fprintf(out, "create %s: %v\n", inst.InstanceName, err)
			continue
		}
		devs = append(devs, d)
	}
	fmt.Fprintf(out, "tracked handles: %d\n", ic.Tracker().Len())

	s.manager.Refresh()
	fmt.Fprintf(out, "tracked handles after refresh: %d\n", ic.Tracker().Len())
	return nil
}
