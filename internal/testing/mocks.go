package testing

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/dinput"
)

// FakeDevice is an in-memory dinput.Device with a COM-like reference count.
type FakeDevice struct {
	ID device.Identity

	refs         atomic.Int32
	acquires     atomic.Int32
	unacquires   atomic.Int32
	controlPanel atomic.Int32

	mu sync.Mutex
	// AcquireErrs is consumed one entry per Acquire call; nil entries succeed.
	AcquireErrs []error
	acquireHook func()
}

// NewFakeDevice returns a device holding one reference, as CreateDevice does.
func NewFakeDevice(id device.Identity) *FakeDevice {
	d := &FakeDevice{ID: id}
	d.refs.Store(1)
	return d
}

func (d *FakeDevice) Acquire() error {
	d.acquires.Add(1)
	d.mu.Lock()
	hook := d.acquireHook
	d.mu.Unlock()
	if hook != nil {
		hook()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.AcquireErrs) == 0 {
		return nil
	}
	err := d.AcquireErrs[0]
	d.AcquireErrs = d.AcquireErrs[1:]
	return err
}

func (d *FakeDevice) Unacquire() error {
	d.unacquires.Add(1)
	return nil
}

func (d *FakeDevice) RunControlPanel(owner uintptr) error {
	d.controlPanel.Add(1)
	return nil
}

func (d *FakeDevice) AddRef() uint32  { return uint32(d.refs.Add(1)) }
func (d *FakeDevice) Release() uint32 { return uint32(d.refs.Add(-1)) }

// OnAcquire runs hook at the start of every Acquire call.
func (d *FakeDevice) OnAcquire(hook func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.acquireHook = hook
}

// FailNextAcquires makes the next acquire calls return err.
func (d *FakeDevice) FailNextAcquires(err error, n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < n; i++ {
		d.AcquireErrs = append(d.AcquireErrs, err)
	}
}

func (d *FakeDevice) Refs() int32       { return d.refs.Load() }
func (d *FakeDevice) Acquires() int32   { return d.acquires.Load() }
func (d *FakeDevice) Unacquires() int32 { return d.unacquires.Load() }

// FakeDirectInput serves a fixed device list.
type FakeDirectInput struct {
	mu        sync.Mutex
	Instances []dinput.DeviceInstance
	// EnumErr makes EnumDevices fail after reporting EnumFailAfter
	// instances.
	EnumErr       error
	EnumFailAfter int
	Created       []*FakeDevice

	refs      atomic.Int32
	forwarded map[string]int
	lastFlags dinput.EnumFlags
	lastClass dinput.DeviceClass
}

// NewFakeDirectInput returns a fake reporting the given instances in order.
func NewFakeDirectInput(t *testing.T, instances ...dinput.DeviceInstance) *FakeDirectInput {
	t.Helper()
	f := &FakeDirectInput{Instances: instances, forwarded: map[string]int{}}
	f.refs.Store(1)
	return f
}

// Instance builds a game controller instance named name.
func Instance(data1 uint32, name string) dinput.DeviceInstance {
	return dinput.DeviceInstance{
		Instance:     device.Identity{Data1: data1, Data2: 0xBEEF},
		InstanceName: name,
		ProductName:  name,
		DevType:      0x15, // DI8DEVTYPE_GAMEPAD
	}
}

func (f *FakeDirectInput) CreateDevice(id device.Identity) (dinput.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inst := range f.Instances {
		if inst.Instance == id {
			d := NewFakeDevice(id)
			f.Created = append(f.Created, d)
			return d, nil
		}
	}
	return nil, dinput.DIERR_DEVICENOTREG
}

func (f *FakeDirectInput) EnumDevices(class dinput.DeviceClass, fn dinput.EnumFunc, flags dinput.EnumFlags) error {
	f.mu.Lock()
	f.lastClass, f.lastFlags = class, flags
	instances := append([]dinput.DeviceInstance(nil), f.Instances...)
	enumErr := f.EnumErr
	if enumErr != nil {
		instances = instances[:min(f.EnumFailAfter, len(instances))]
	}
	f.mu.Unlock()

	for _, inst := range instances {
		if !fn(inst) {
			break
		}
	}
	return enumErr
}

func (f *FakeDirectInput) GetDeviceStatus(id device.Identity) error {
	f.count("GetDeviceStatus")
	return nil
}

func (f *FakeDirectInput) RunControlPanel(owner uintptr, flags uint32) error {
	f.count("RunControlPanel")
	return nil
}

func (f *FakeDirectInput) Initialize(instance uintptr, version uint32) error {
	f.count("Initialize")
	return nil
}

func (f *FakeDirectInput) FindDevice(class device.Identity, name string) (device.Identity, error) {
	f.count("FindDevice")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inst := range f.Instances {
		if inst.ProductName == name {
			return inst.Instance, nil
		}
	}
	return device.Identity{}, dinput.DIERR_DEVICENOTREG
}

func (f *FakeDirectInput) AddRef() uint32  { return uint32(f.refs.Add(1)) }
func (f *FakeDirectInput) Release() uint32 { return uint32(f.refs.Add(-1)) }

func (f *FakeDirectInput) count(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forwarded[method]++
}

// Forwarded returns how often a pass-through method reached the fake.
func (f *FakeDirectInput) Forwarded(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forwarded[method]
}

// LastEnum returns the class and flags of the latest EnumDevices call.
func (f *FakeDirectInput) LastEnum() (dinput.DeviceClass, dinput.EnumFlags) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastClass, f.lastFlags
}

// Refs returns the interface reference count.
func (f *FakeDirectInput) Refs() int32 { return f.refs.Load() }
