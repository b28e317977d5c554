// Package state persists the operator's override settings as TOML.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	toml "github.com/pelletier/go-toml"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/override"
)

// ErrNotFound is returned by Load when no state file exists yet.
var ErrNotFound = errors.New("state file not found")

// file is the on-disk shape. Identities are GUID strings, empty when unset.
type file struct {
	Override    bool   `toml:"override"`
	AutoRefresh bool   `toml:"auto_refresh"`
	Player1     string `toml:"player1"`
	Player2     string `toml:"player2"`
}

// Load reads the state file at path.
func Load(path string) (override.State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return override.State{}, ErrNotFound
	}
	if err != nil {
		return override.State{}, fmt.Errorf("Load state: %w", err)
	}
	return Decode(data)
}

// Decode parses state file contents.
func Decode(data []byte) (override.State, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return override.State{}, fmt.Errorf("Decode state: %w", err)
	}
	s := override.State{Override: f.Override, AutoRefresh: f.AutoRefresh}
	for _, slot := range []struct {
		raw string
		dst *device.Identity
	}{{f.Player1, &s.Player1}, {f.Player2, &s.Player2}} {
		if err := slot.dst.UnmarshalText([]byte(slot.raw)); err != nil {
			return override.State{}, fmt.Errorf("Decode state: %w", err)
		}
	}
	return s, nil
}

// Encode renders s as TOML.
func Encode(s override.State) ([]byte, error) {
	f := file{Override: s.Override, AutoRefresh: s.AutoRefresh}
	if !s.Player1.IsZero() {
		f.Player1 = s.Player1.GUID().String()
	}
	if !s.Player2.IsZero() {
		f.Player2 = s.Player2.GUID().String()
	}
	data, err := toml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("Encode state: %w", err)
	}
	return data, nil
}

// Save writes s to path through a temporary file and rename, so readers
// never observe a partial file.
func Save(path string, s override.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("Save state: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.toml")
	if err != nil {
		return fmt.Errorf("Save state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("Save state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("Save state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("Save state: %w", err)
	}
	return nil
}

// Watch reloads path whenever it changes on disk and passes the decoded
// state to onChange. Bursts of events within settle are collapsed. It
// returns when ctx is done.
func Watch(ctx context.Context, path string, settle time.Duration, logger *slog.Logger, onChange func(override.State)) error {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Watch state: %w", err)
	}
	defer w.Close()

	// the directory is watched because Save replaces the file
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("Watch state: %w", err)
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("Watch state: %w", err)
	}

	base := filepath.Base(path)
	timer := time.NewTimer(settle)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(settle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("State watcher error", "error", err)
		case <-timer.C:
			s, err := Load(path)
			if err != nil {
				logger.Warn("Failed to reload state file", "path", path, "error", err)
				continue
			}
			logger.Info("State file reloaded", "path", path)
			onChange(s)
		}
	}
}
