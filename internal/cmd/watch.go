package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/padorder/hotplug"
	"github.com/Alia5/padorder/internal/state"
	"github.com/Alia5/padorder/override"
)

// Watch keeps the device set current: it reacts to hot-plug events, runs
// auto refresh, follows edits of the state file and persists repairs.
type Watch struct {
	Interval     time.Duration `help:"Auto refresh interval" default:"1s" env:"PADORDER_REFRESH_INTERVAL"`
	TickInterval time.Duration `help:"How often pending refreshes are processed" default:"100ms" env:"PADORDER_TICK_INTERVAL"`
	Hotplug      bool          `help:"Listen for device arrival and removal" default:"true" negatable:"" env:"PADORDER_HOTPLUG"`
}

// Run is called by Kong when the watch command is executed.
func (w *Watch) Run(logger *slog.Logger, opts *Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := opts.open(logger, w.Interval)
	if err != nil {
		return err
	}
	return w.run(ctx, s, hotplug.New(logger))
}

type notifier interface {
	Run(ctx context.Context, notify func()) error
}

func (w *Watch) run(ctx context.Context, s *session, hp notifier) error {
	logger := s.logger
	m := s.manager

	unsubscribe := m.OnRefresh(func(ev override.Event) {
		logger.Info("Devices refreshed", "generation", ev.Generation, "devices", len(ev.Devices))
		if ev.OverrideDisabled {
			logger.Warn("Override switched off: Steam Input appears to be active")
		}
		if len(ev.Repairs) > 0 || ev.OverrideDisabled {
			if err := s.save(); err != nil {
				logger.Error("Failed to persist state", "error", err)
			}
		}
	})
	defer unsubscribe()

	if w.Hotplug && hp != nil {
		go func() {
			err := hp.Run(ctx, m.NotifyDeviceChange)
			switch {
			case errors.Is(err, hotplug.ErrUnsupported):
				logger.Info("Hot-plug notifications unavailable; relying on auto refresh")
			case err != nil:
				logger.Warn("Hot-plug watcher stopped", "error", err)
			}
		}()
	}

	go func() {
		err := state.Watch(ctx, s.path, 50*time.Millisecond, logger, func(st override.State) {
			if err := m.ApplyState(st); err != nil {
				logger.Warn("Override not applied", "error", err)
			}
		})
		if err != nil {
			logger.Warn("State file watcher stopped", "error", err)
		}
	}()

	tick := w.TickInterval
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	st := m.State()
	logger.Info("Watching devices",
		"devices", len(m.Devices()),
		"override", st.Override,
		"autoRefresh", st.AutoRefresh,
		"player1", st.Player1.String(),
		"player2", st.Player2.String(),
		"steamInput", m.SteamInputLikely())

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopped watching")
			return nil
		case <-ticker.C:
			m.Tick()
		}
	}
}
