//go:build windows

package enumerate

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Alia5/padorder/device"
)

const (
	maxPNameLen              = 32
	maxJoystickOEMVXDNameLen = 260

	joyErrNoError = 0
	joyReturnAll  = 0xFF
)

type joyInfoEx struct {
	Size      uint32
	Flags     uint32
	Xpos      uint32
	Ypos      uint32
	Zpos      uint32
	Rpos      uint32
	Upos      uint32
	Vpos      uint32
	Buttons   uint32
	ButtonNum uint32
	POV       uint32
	Reserved1 uint32
	Reserved2 uint32
}

type joyCapsW struct {
	Mid        uint16
	Pid        uint16
	Pname      [maxPNameLen]uint16
	Xmin       uint32
	Xmax       uint32
	Ymin       uint32
	Ymax       uint32
	Zmin       uint32
	Zmax       uint32
	NumButtons uint32
	PeriodMin  uint32
	PeriodMax  uint32
	Rmin       uint32
	Rmax       uint32
	Umin       uint32
	Umax       uint32
	Vmin       uint32
	Vmax       uint32
	Caps       uint32
	MaxAxes    uint32
	NumAxes    uint32
	MaxButtons uint32
	RegKey     [maxPNameLen]uint16
	OEMVxD     [maxJoystickOEMVXDNameLen]uint16
}

var (
	winmm              = windows.NewLazySystemDLL("winmm.dll")
	procJoyGetNumDevs  = winmm.NewProc("joyGetNumDevs")
	procJoyGetDevCapsW = winmm.NewProc("joyGetDevCapsW")
	procJoyGetPosEx    = winmm.NewProc("joyGetPosEx")
)

// WinMMSource lists legacy joystick slots. joyGetDevCaps alone reports
// stale slots, so a slot only counts when joyGetPosEx answers too.
type WinMMSource struct{}

func (WinMMSource) Joysticks() ([]device.Record, error) {
	if err := winmm.Load(); err != nil {
		return nil, fmt.Errorf("%w: winmm: %w", ErrUnavailable, err)
	}
	if err := procJoyGetNumDevs.Find(); err != nil {
		return nil, fmt.Errorf("%w: joyGetNumDevs: %w", ErrUnavailable, err)
	}

	n, _, _ := procJoyGetNumDevs.Call()
	var out []device.Record
	for slot := uint32(0); slot < uint32(n); slot++ {
		var caps joyCapsW
		ret, _, _ := procJoyGetDevCapsW.Call(uintptr(slot), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
		if ret != joyErrNoError {
			continue
		}

		var info joyInfoEx
		info.Size = uint32(unsafe.Sizeof(info))
		info.Flags = joyReturnAll
		ret, _, _ = procJoyGetPosEx.Call(uintptr(slot), uintptr(unsafe.Pointer(&info)))
		if ret != joyErrNoError {
			continue
		}

		id := slot
		name := windows.UTF16ToString(caps.Pname[:])
		if name == "" {
			name = fmt.Sprintf("Joystick %d", slot+1)
		}
		out = append(out, device.Record{
			ID:       device.LegacyIdentity(slot),
			Name:     name,
			LegacyID: &id,
			VidPid:   &device.VidPid{Vendor: caps.Mid, Product: caps.Pid},
		})
	}
	return out, nil
}
