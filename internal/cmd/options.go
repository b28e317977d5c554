package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/padorder/enumerate"
	"github.com/Alia5/padorder/internal/configpaths"
	"github.com/Alia5/padorder/internal/state"
	"github.com/Alia5/padorder/override"
	"github.com/Alia5/padorder/steaminput"
)

// Options are shared by every command.
type Options struct {
	StateFile      string `help:"Operator state file (defaults to the config directory)" env:"PADORDER_STATE_FILE"`
	DInputDLL      string `name:"dinput-dll" help:"Chained dinput8.dll to load instead of the system copy" env:"PADORDER_DINPUT_DLL"`
	SteamThreshold int    `help:"Length of SDL_GAMECONTROLLER_IGNORE_DEVICES above which Steam Input is assumed" default:"96" env:"PADORDER_STEAM_THRESHOLD"`
}

func (o *Options) statePath() (string, error) {
	if o.StateFile != "" {
		return o.StateFile, nil
	}
	p, err := configpaths.DefaultStatePath()
	if err != nil {
		return "", fmt.Errorf("failed to resolve state file path: %w", err)
	}
	return p, nil
}

func (o *Options) enumerator(logger *slog.Logger) override.Enumerator {
	return enumerate.NewSystem(o.DInputDLL, logger)
}

func (o *Options) detector() override.SteamDetector {
	return &steaminput.Detector{Threshold: o.SteamThreshold}
}

// session is a manager restored from the state file.
type session struct {
	manager *override.Manager
	path    string
	logger  *slog.Logger
}

func (o *Options) open(logger *slog.Logger, interval time.Duration) (*session, error) {
	path, err := o.statePath()
	if err != nil {
		return nil, err
	}
	return openSession(o.enumerator(logger), o.detector(), path, logger, interval)
}

func openSession(enum override.Enumerator, det override.SteamDetector, path string, logger *slog.Logger, interval time.Duration) (*session, error) {
	saved, err := state.Load(path)
	switch {
	case errors.Is(err, state.ErrNotFound):
		logger.Debug("No state file yet", "path", path)
	case err != nil:
		return nil, err
	}

	m := override.New(enum, det, logger, override.Config{AutoRefresh: saved.AutoRefresh, RefreshInterval: interval})
	if err := m.ApplyState(saved); err != nil {
		logger.Warn("Override not restored", "error", err)
	}
	// restored selections may be stale
	m.Refresh()
	return &session{manager: m, path: path, logger: logger}, nil
}

func (s *session) save() error {
	if err := state.Save(s.path, s.manager.State()); err != nil {
		return err
	}
	s.logger.Debug("State saved", "path", s.path)
	return nil
}
