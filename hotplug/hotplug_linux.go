package hotplug

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	ilog "github.com/Alia5/padorder/internal/log"
)

// Run watches the device node directory until ctx is done, calling notify
// for every node created or removed.
func (w *Watcher) Run(ctx context.Context, notify func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Watch: %w", err)
	}
	defer fw.Close()

	dir := w.Dir
	if dir == "" {
		dir = DefaultDir
	}
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("Watch %s: %w", dir, err)
	}
	w.logger.Debug("Watching for input devices", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if !isInputNode(filepath.Base(ev.Name)) {
				continue
			}
			w.logger.Log(ctx, ilog.LevelTrace, "Input node changed", "path", ev.Name, "op", ev.Op.String())
			notify()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Device watcher error", "error", err)
		}
	}
}
