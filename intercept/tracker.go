package intercept

import (
	"log/slog"
	"sync"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/dinput"
)

type tracked struct {
	id device.Identity
	// generation of the last bounce; a handle is bounced once per refresh.
	generation uint64
}

// Tracker holds one extra reference on every device handle the host created
// so the handles can be bounced after the device set changes.
type Tracker struct {
	logger *slog.Logger

	mu      sync.Mutex
	handles map[dinput.Device]*tracked
	order   []dinput.Device
}

// NewTracker returns an empty tracker.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{logger: logger, handles: make(map[dinput.Device]*tracked)}
}

// Track takes a reference on dev. Tracking the same handle twice is a no-op
// and reports false.
func (t *Tracker) Track(id device.Identity, dev dinput.Device) bool {
	if dev == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.handles[dev]; ok {
		return false
	}
	dev.AddRef()
	t.handles[dev] = &tracked{id: id}
	t.order = append(t.order, dev)
	return true
}

// Untrack drops dev and releases the tracker's reference.
func (t *Tracker) Untrack(dev dinput.Device) bool {
	t.mu.Lock()
	ok := t.removeLocked(dev)
	t.mu.Unlock()
	if ok {
		dev.Release()
	}
	return ok
}

func (t *Tracker) removeLocked(dev dinput.Device) bool {
	if _, ok := t.handles[dev]; !ok {
		return false
	}
	delete(t.handles, dev)
	for i, d := range t.order {
		if d == dev {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of tracked handles.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handles)
}

// Tracked reports whether dev is tracked.
func (t *Tracker) Tracked(dev dinput.Device) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.handles[dev]
	return ok
}

// BounceResult summarises one Bounce pass.
type BounceResult struct {
	Bounced int
	Dropped int
	Skipped int
}

// Bounce unacquires and reacquires every tracked handle not yet bounced for
// generation. A failed acquire is retried once; a handle that still fails is
// dropped and its reference released. Device calls run without the lock
// held.
func (t *Tracker) Bounce(generation uint64) BounceResult {
	var res BounceResult
	type job struct {
		dev dinput.Device
		id  device.Identity
	}

	t.mu.Lock()
	jobs := make([]job, 0, len(t.order))
	for _, dev := range t.order {
		h := t.handles[dev]
		if h.generation >= generation {
			res.Skipped++
			continue
		}
		h.generation = generation
		// held across the unlocked section so a concurrent Untrack cannot
		// free the handle under us
		dev.AddRef()
		jobs = append(jobs, job{dev: dev, id: h.id})
	}
	t.mu.Unlock()

	for _, j := range jobs {
		_ = j.dev.Unacquire()
		err := j.dev.Acquire()
		if err != nil {
			t.logger.Debug("Reacquire failed, retrying", "device", j.id.String(), "error", err)
			err = j.dev.Acquire()
		}
		if err == nil {
			res.Bounced++
			j.dev.Release()
			continue
		}

		t.logger.Warn("Dropping device handle after failed reacquire", "device", j.id.String(), "error", err)
		t.mu.Lock()
		removed := t.removeLocked(j.dev)
		t.mu.Unlock()
		if removed {
			j.dev.Release()
			res.Dropped++
		}
		j.dev.Release()
	}

	if res.Bounced+res.Dropped > 0 {
		t.logger.Debug("Bounced device handles", "generation", generation, "bounced", res.Bounced, "dropped", res.Dropped)
	}
	return res
}

// Close releases every tracked handle.
func (t *Tracker) Close() error {
	t.mu.Lock()
	devs := t.order
	t.order = nil
	t.handles = make(map[dinput.Device]*tracked)
	t.mu.Unlock()

	for _, dev := range devs {
		dev.Release()
	}
	return nil
}
