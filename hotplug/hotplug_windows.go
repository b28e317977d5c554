package hotplug

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	cfgmgr32                     = windows.NewLazySystemDLL("cfgmgr32.dll")
	procCMRegisterNotification   = cfgmgr32.NewProc("CM_Register_Notification")
	procCMUnregisterNotification = cfgmgr32.NewProc("CM_Unregister_Notification")
)

// GUID_DEVINTERFACE_HID
var hidInterfaceClass = windows.GUID{
	Data1: 0x4D1E55B2,
	Data2: 0xF16F,
	Data3: 0x11CF,
	Data4: [8]byte{0x88, 0xCB, 0x00, 0x11, 0x11, 0x00, 0x00, 0x30},
}

const (
	cmNotifyFilterTypeDeviceInterface = 0
	cmNotifyActionArrival             = 0
	cmNotifyActionRemoval             = 1
	crSuccess                         = 0
)

// cmNotifyFilter is CM_NOTIFY_FILTER with the device interface arm of the
// union; the union is sized by the 200 WCHAR instance id.
type cmNotifyFilter struct {
	cbSize     uint32
	flags      uint32
	filterType uint32
	reserved   uint32
	classGUID  windows.GUID
	_          [400 - unsafe.Sizeof(windows.GUID{})]byte
}

var (
	callbacksMu sync.Mutex
	callbacks           = map[uintptr]func(){}
	nextContext uintptr = 1
	trampoline          = windows.NewCallback(notificationCallback)
)

func notificationCallback(handle, context, action, data, size uintptr) uintptr {
	if action != cmNotifyActionArrival && action != cmNotifyActionRemoval {
		return 0
	}
	callbacksMu.Lock()
	fn := callbacks[context]
	callbacksMu.Unlock()
	if fn != nil {
		fn()
	}
	return 0
}

// Run registers for HID interface arrival and removal until ctx is done.
func (w *Watcher) Run(ctx context.Context, notify func()) error {
	callbacksMu.Lock()
	id := nextContext
	nextContext++
	callbacks[id] = notify
	callbacksMu.Unlock()
	defer func() {
		callbacksMu.Lock()
		delete(callbacks, id)
		callbacksMu.Unlock()
	}()

	filter := cmNotifyFilter{
		filterType: cmNotifyFilterTypeDeviceInterface,
		classGUID:  hidInterfaceClass,
	}
	filter.cbSize = uint32(unsafe.Sizeof(filter))

	var handle uintptr
	cr, _, _ := procCMRegisterNotification.Call(
		uintptr(unsafe.Pointer(&filter)),
		id,
		trampoline,
		uintptr(unsafe.Pointer(&handle)),
	)
	if cr != crSuccess {
		return fmt.Errorf("CM_Register_Notification: CONFIGRET %d", cr)
	}
	w.logger.Debug("Registered for HID interface notifications")

	<-ctx.Done()
	procCMUnregisterNotification.Call(handle)
	return nil
}
