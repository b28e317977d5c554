//go:build windows

package dinput

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"

	"github.com/Alia5/padorder/device"
)

const directInputVersion = 0x0800

var (
	iidDirectInput8W = ole.NewGUID("{BF798031-483A-4DA2-AA99-5D64ED369700}")
	iidDirectInput8A = ole.NewGUID("{BF798030-483A-4DA2-AA99-5D64ED369700}")
)

// IDirectInput8 vtable slots.
const (
	vtAddRef          = 1
	vtRelease         = 2
	vtCreateDevice    = 3
	vtEnumDevices     = 4
	vtGetDeviceStatus = 5
	vtRunControlPanel = 6
	vtInitialize      = 7
	vtFindDevice      = 8
)

// IDirectInputDevice8 vtable slots.
const (
	vtDevAcquire         = 7
	vtDevUnacquire       = 8
	vtDevRunControlPanel = 16
)

type diDeviceInstanceW struct {
	Size         uint32
	GuidInstance ole.GUID
	GuidProduct  ole.GUID
	DevType      uint32
	InstanceName [windows.MAX_PATH]uint16
	ProductName  [windows.MAX_PATH]uint16
	GuidFFDriver ole.GUID
	UsagePage    uint16
	Usage        uint16
}

type diDeviceInstanceA struct {
	Size         uint32
	GuidInstance ole.GUID
	GuidProduct  ole.GUID
	DevType      uint32
	InstanceName [windows.MAX_PATH]byte
	ProductName  [windows.MAX_PATH]byte
	GuidFFDriver ole.GUID
	UsagePage    uint16
	Usage        uint16
}

// Create loads dllPath (the system dinput8.dll when empty), calls
// DirectInput8Create for the requested variant and returns the interface.
func Create(dllPath string, variant Variant) (DirectInput, error) {
	var dll *windows.LazyDLL
	if dllPath == "" {
		dll = windows.NewLazySystemDLL("dinput8.dll")
	} else {
		dll = windows.NewLazyDLL(dllPath)
	}
	if err := dll.Load(); err != nil {
		return nil, fmt.Errorf("Load: %s: %w: %w", dll.Name, ErrUnavailable, err)
	}
	proc := dll.NewProc("DirectInput8Create")
	if err := proc.Find(); err != nil {
		return nil, fmt.Errorf("Load: DirectInput8Create: %w: %w", ErrUnavailable, err)
	}

	var hinst windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &hinst); err != nil {
		return nil, fmt.Errorf("Create: GetModuleHandleEx: %w", err)
	}

	iid := iidDirectInput8W
	if variant == Narrow {
		iid = iidDirectInput8A
	}

	var obj uintptr
	r, _, _ := proc.Call(
		uintptr(hinst),
		directInputVersion,
		uintptr(unsafe.Pointer(iid)),
		uintptr(unsafe.Pointer(&obj)),
		0,
	)
	if err := FromHRESULT(r); err != nil {
		return nil, fmt.Errorf("Create: DirectInput8Create(%s): %w", variant, err)
	}
	if obj == 0 {
		return nil, fmt.Errorf("Create: DirectInput8Create(%s): %w", variant, E_POINTER)
	}
	return &comDirectInput{obj: obj, variant: variant}, nil
}

// comCall invokes vtable slot of obj. Pointers converted to uintptr in the
// call expression stay live and unmoved until it returns.
//
//go:uintptrescapes
func comCall(obj uintptr, slot int, args ...uintptr) uintptr {
	vtbl := *(*uintptr)(unsafe.Pointer(obj))
	fn := *(*uintptr)(unsafe.Pointer(vtbl + uintptr(slot)*unsafe.Sizeof(uintptr(0))))
	all := make([]uintptr, 0, len(args)+1)
	all = append(all, obj)
	all = append(all, args...)
	r, _, _ := syscall.SyscallN(fn, all...)
	return r
}

type comDirectInput struct {
	obj     uintptr
	variant Variant
}

func (c *comDirectInput) CreateDevice(id device.Identity) (Device, error) {
	dev := new(uintptr)
	r := comCall(c.obj, vtCreateDevice, uintptr(unsafe.Pointer(id.GUID())), uintptr(unsafe.Pointer(dev)), 0)
	if err := FromHRESULT(r); err != nil {
		return nil, err
	}
	return &comDevice{obj: *dev}, nil
}

func (c *comDirectInput) EnumDevices(class DeviceClass, fn EnumFunc, flags EnumFlags) error {
	ref := registerEnum(fn)
	defer unregisterEnum(ref)

	trampoline := enumTrampolineW
	if c.variant == Narrow {
		trampoline = enumTrampolineA
	}
	r := comCall(c.obj, vtEnumDevices, uintptr(class), trampoline, ref, uintptr(flags))
	return FromHRESULT(r)
}

func (c *comDirectInput) GetDeviceStatus(id device.Identity) error {
	r := comCall(c.obj, vtGetDeviceStatus, uintptr(unsafe.Pointer(id.GUID())))
	return FromHRESULT(r)
}

func (c *comDirectInput) RunControlPanel(owner uintptr, flags uint32) error {
	return FromHRESULT(comCall(c.obj, vtRunControlPanel, owner, uintptr(flags)))
}

func (c *comDirectInput) Initialize(instance uintptr, version uint32) error {
	return FromHRESULT(comCall(c.obj, vtInitialize, instance, uintptr(version)))
}

func (c *comDirectInput) FindDevice(class device.Identity, name string) (device.Identity, error) {
	var namePtr unsafe.Pointer
	if c.variant == Narrow {
		b, err := windows.BytePtrFromString(name)
		if err != nil {
			return device.Identity{}, DIERR_INVALIDPARAM
		}
		namePtr = unsafe.Pointer(b)
	} else {
		w, err := windows.UTF16PtrFromString(name)
		if err != nil {
			return device.Identity{}, DIERR_INVALIDPARAM
		}
		namePtr = unsafe.Pointer(w)
	}
	out := new(ole.GUID)
	r := comCall(c.obj, vtFindDevice, uintptr(unsafe.Pointer(class.GUID())), uintptr(namePtr), uintptr(unsafe.Pointer(out)))
	if err := FromHRESULT(r); err != nil {
		return device.Identity{}, err
	}
	return device.Identity(*out), nil
}

func (c *comDirectInput) AddRef() uint32 {
	return uint32(comCall(c.obj, vtAddRef))
}

func (c *comDirectInput) Release() uint32 {
	return uint32(comCall(c.obj, vtRelease))
}

type comDevice struct {
	obj uintptr
}

func (d *comDevice) Acquire() error {
	return FromHRESULT(comCall(d.obj, vtDevAcquire))
}

func (d *comDevice) Unacquire() error {
	return FromHRESULT(comCall(d.obj, vtDevUnacquire))
}

func (d *comDevice) RunControlPanel(owner uintptr) error {
	return FromHRESULT(comCall(d.obj, vtDevRunControlPanel, owner, 0))
}

func (d *comDevice) AddRef() uint32 {
	return uint32(comCall(d.obj, vtAddRef))
}

func (d *comDevice) Release() uint32 {
	return uint32(comCall(d.obj, vtRelease))
}

// Callbacks created with windows.NewCallback are never freed, so one
// trampoline per variant dispatches through a registry keyed by pvRef.
var (
	enumMu    sync.Mutex
	enumNext  uintptr
	enumFuncs = map[uintptr]EnumFunc{}

	enumTrampolineW = windows.NewCallback(func(inst, ref uintptr) uintptr {
		w := (*diDeviceInstanceW)(unsafe.Pointer(inst))
		return dispatchEnum(ref, DeviceInstance{
			Instance:     device.Identity(w.GuidInstance),
			Product:      device.Identity(w.GuidProduct),
			DevType:      w.DevType,
			InstanceName: windows.UTF16ToString(w.InstanceName[:]),
			ProductName:  windows.UTF16ToString(w.ProductName[:]),
			UsagePage:    w.UsagePage,
			Usage:        w.Usage,
		})
	})

	enumTrampolineA = windows.NewCallback(func(inst, ref uintptr) uintptr {
		a := (*diDeviceInstanceA)(unsafe.Pointer(inst))
		return dispatchEnum(ref, DeviceInstance{
			Instance:     device.Identity(a.GuidInstance),
			Product:      device.Identity(a.GuidProduct),
			DevType:      a.DevType,
			InstanceName: decodeANSI(a.InstanceName[:]),
			ProductName:  decodeANSI(a.ProductName[:]),
			UsagePage:    a.UsagePage,
			Usage:        a.Usage,
		})
	})
)

func registerEnum(fn EnumFunc) uintptr {
	enumMu.Lock()
	defer enumMu.Unlock()
	enumNext++
	enumFuncs[enumNext] = fn
	return enumNext
}

func unregisterEnum(ref uintptr) {
	enumMu.Lock()
	defer enumMu.Unlock()
	delete(enumFuncs, ref)
}

func dispatchEnum(ref uintptr, inst DeviceInstance) uintptr {
	enumMu.Lock()
	fn := enumFuncs[ref]
	enumMu.Unlock()
	if fn == nil || !fn(inst) {
		return 0 // DIENUM_STOP
	}
	return 1 // DIENUM_CONTINUE
}

func decodeANSI(b []byte) string {
	return decodeCodePage(windows.GetACP(), b)
}
