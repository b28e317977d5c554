// Package dinput describes the DirectInput 8 surface the host application
// talks to, as Go interfaces, plus a COM-backed implementation on Windows.
package dinput

import (
	"errors"

	"github.com/Alia5/padorder/device"
)

// DeviceClass selects which devices EnumDevices reports (DI8DEVCLASS_*).
type DeviceClass uint32

const (
	ClassAll      DeviceClass = 0
	ClassDevice   DeviceClass = 1
	ClassPointer  DeviceClass = 2
	ClassKeyboard DeviceClass = 3
	ClassGameCtrl DeviceClass = 4
)

// EnumFlags are the DIEDFL_* flags.
type EnumFlags uint32

const (
	EnumAllDevices     EnumFlags = 0x00000000
	EnumAttachedOnly   EnumFlags = 0x00000001
	EnumForceFeedback  EnumFlags = 0x00000100
	EnumIncludeAliases EnumFlags = 0x00010000
	EnumIncludePhantom EnumFlags = 0x00020000
	EnumIncludeHidden  EnumFlags = 0x00040000
)

// Variant selects the character width of the COM interface.
type Variant int

const (
	// Wide is IDirectInput8W.
	Wide Variant = iota
	// Narrow is IDirectInput8A.
	Narrow
)

func (v Variant) String() string {
	if v == Narrow {
		return "IDirectInput8A"
	}
	return "IDirectInput8W"
}

// DeviceInstance is the subset of DIDEVICEINSTANCE the arbitration needs.
type DeviceInstance struct {
	Instance     device.Identity
	Product      device.Identity
	DevType      uint32
	InstanceName string
	ProductName  string
	UsagePage    uint16
	Usage        uint16
}

// VidPid extracts the USB ids DirectInput encodes into the product GUID of
// HID devices ({PID:VID-0000-0000-0000-504944564944}).
func (d DeviceInstance) VidPid() (device.VidPid, bool) {
	p := d.Product
	if p.Data2 != 0 || p.Data3 != 0 {
		return device.VidPid{}, false
	}
	if p.Data4 != [8]byte{0x00, 0x00, 'P', 'I', 'D', 'V', 'I', 'D'} {
		return device.VidPid{}, false
	}
	return device.VidPid{Vendor: uint16(p.Data1 & 0xffff), Product: uint16(p.Data1 >> 16)}, true
}

// EnumFunc receives one device per call and returns Continue or Stop.
type EnumFunc func(inst DeviceInstance) bool

const (
	// Continue is DIENUM_CONTINUE.
	Continue = true
	// Stop is DIENUM_STOP.
	Stop = false
)

// Device is a created IDirectInputDevice8. Reference counting follows COM:
// the creator owns one reference, AddRef/Release adjust it.
type Device interface {
	Acquire() error
	Unacquire() error
	RunControlPanel(owner uintptr) error
	AddRef() uint32
	Release() uint32
}

// DirectInput mirrors IDirectInput8. EnumDevicesBySemantics and
// ConfigureDevices are deprecated action-mapping entry points; nothing in
// this module forwards them.
type DirectInput interface {
	CreateDevice(id device.Identity) (Device, error)
	EnumDevices(class DeviceClass, fn EnumFunc, flags EnumFlags) error
	GetDeviceStatus(id device.Identity) error
	RunControlPanel(owner uintptr, flags uint32) error
	Initialize(instance uintptr, version uint32) error
	FindDevice(class device.Identity, name string) (device.Identity, error)
	AddRef() uint32
	Release() uint32
}

// ErrUnavailable is returned when DirectInput cannot be loaded at all.
var ErrUnavailable = errors.New("DirectInput unavailable")
