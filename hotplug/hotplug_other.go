//go:build !linux && !windows

package hotplug

import "context"

func (w *Watcher) Run(ctx context.Context, notify func()) error {
	return ErrUnsupported
}
