// Package intercept enforces the controller override on a DirectInput
// interface: CreateDevice is gated, EnumDevices is filtered and reordered and
// created device handles are tracked so they can be bounced after a refresh.
package intercept

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/dinput"
	ilog "github.com/Alia5/padorder/internal/log"
	"github.com/Alia5/padorder/override"
)

// Policy decides what the host may see.
type Policy interface {
	IsAllowed(id device.Identity) bool
	Arrange(ids []device.Identity) []int
}

// Interceptor decorates a dinput.DirectInput. It satisfies the same
// interface and can be handed to the host in place of the real one.
type Interceptor struct {
	next    dinput.DirectInput
	policy  Policy
	tracker *Tracker
	logger  *slog.Logger
	calls   ilog.CallLogger
}

var _ dinput.DirectInput = (*Interceptor)(nil)

// New wraps next. A nil calls logger disables the call trace.
func New(next dinput.DirectInput, policy Policy, tracker *Tracker, logger *slog.Logger, calls ilog.CallLogger) *Interceptor {
	if logger == nil {
		logger = slog.Default()
	}
	if calls == nil {
		calls = ilog.NewCall(nil)
	}
	if tracker == nil {
		tracker = NewTracker(logger)
	}
	return &Interceptor{next: next, policy: policy, tracker: tracker, logger: logger, calls: calls}
}

// Tracker returns the handle tracker fed by CreateDevice.
func (i *Interceptor) Tracker() *Tracker {
	return i.tracker
}

// CreateDevice rejects disallowed devices with DIERR_DEVICENOTREG, the code
// DirectInput itself reports for unknown instance GUIDs.
func (i *Interceptor) CreateDevice(id device.Identity) (dinput.Device, error) {
	if !i.policy.IsAllowed(id) {
		i.logger.Debug("Rejected CreateDevice", "device", id.String())
		i.calls.Log("CreateDevice", id.String(), dinput.DIERR_DEVICENOTREG)
		return nil, dinput.DIERR_DEVICENOTREG
	}

	dev, err := i.next.CreateDevice(id)
	i.calls.Log("CreateDevice", id.String(), err)
	if err != nil {
		return nil, err
	}
	i.tracker.Track(id, dev)
	return newTrackedDevice(dev, i.tracker), nil
}

// EnumDevices collects the full underlying enumeration, applies the policy
// and replays the survivors to fn until it returns dinput.Stop. When the
// underlying call fails, or fn is nil, nothing is replayed and the result of
// the underlying call is returned unchanged.
func (i *Interceptor) EnumDevices(class dinput.DeviceClass, fn dinput.EnumFunc, flags dinput.EnumFlags) error {
	var collected []dinput.DeviceInstance
	err := i.next.EnumDevices(class, func(inst dinput.DeviceInstance) bool {
		collected = append(collected, inst)
		return dinput.Continue
	}, flags)
	if err != nil || fn == nil {
		i.calls.Log("EnumDevices", fmt.Sprintf("class=%d flags=0x%x seen=%d delivered=0", class, uint32(flags), len(collected)), err)
		return err
	}

	ids := make([]device.Identity, len(collected))
	for n, inst := range collected {
		ids[n] = inst.Instance
	}
	order := i.policy.Arrange(ids)

	delivered := 0
	for _, idx := range order {
		delivered++
		if fn(collected[idx]) == dinput.Stop {
			break
		}
	}

	i.calls.Log("EnumDevices", fmt.Sprintf("class=%d flags=0x%x seen=%d delivered=%d", class, uint32(flags), len(collected), delivered), nil)
	return nil
}

func (i *Interceptor) GetDeviceStatus(id device.Identity) error {
	err := i.next.GetDeviceStatus(id)
	i.calls.Log("GetDeviceStatus", id.String(), err)
	return err
}

func (i *Interceptor) RunControlPanel(owner uintptr, flags uint32) error {
	err := i.next.RunControlPanel(owner, flags)
	i.calls.Log("RunControlPanel", fmt.Sprintf("owner=0x%x flags=0x%x", owner, flags), err)
	return err
}

func (i *Interceptor) Initialize(instance uintptr, version uint32) error {
	err := i.next.Initialize(instance, version)
	i.calls.Log("Initialize", fmt.Sprintf("version=0x%04x", version), err)
	return err
}

func (i *Interceptor) FindDevice(class device.Identity, name string) (device.Identity, error) {
	id, err := i.next.FindDevice(class, name)
	i.calls.Log("FindDevice", fmt.Sprintf("class=%s name=%q", class.String(), name), err)
	return id, err
}

func (i *Interceptor) AddRef() uint32 {
	return i.next.AddRef()
}

func (i *Interceptor) Release() uint32 {
	n := i.next.Release()
	i.calls.Log("Release", fmt.Sprintf("refs=%d", n), nil)
	return n
}

// trackedDevice counts the host's references itself and untracks the
// handle once the host holds none. COM Release return values cannot be
// relied on while a bounce holds its own reference.
type trackedDevice struct {
	dinput.Device
	tracker *Tracker
	host    atomic.Int32
}

func newTrackedDevice(dev dinput.Device, tracker *Tracker) *trackedDevice {
	d := &trackedDevice{Device: dev, tracker: tracker}
	d.host.Store(1)
	return d
}

func (d *trackedDevice) AddRef() uint32 {
	d.host.Add(1)
	return d.Device.AddRef()
}

func (d *trackedDevice) Release() uint32 {
	if d.host.Add(-1) == 0 {
		d.tracker.Untrack(d.Device)
	}
	return d.Device.Release()
}

// BounceOnRefresh bounces tracked handles after every refresh of m. The
// returned function detaches it.
func BounceOnRefresh(m *override.Manager, t *Tracker) func() {
	return m.OnRefresh(func(ev override.Event) {
		t.Bounce(ev.Generation)
	})
}
