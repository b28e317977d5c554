//go:build windows

package steaminput

import (
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

var overlayModules = []string{
	"GameOverlayRenderer.dll",
	"GameOverlayRenderer64.dll",
}

func overlayModuleLoaded() bool {
	for _, name := range overlayModules {
		p, err := windows.UTF16PtrFromString(name)
		if err != nil {
			continue
		}
		var h windows.Handle
		// GET_MODULE_HANDLE_EX_FLAG_UNCHANGED_REFCOUNT
		if err := windows.GetModuleHandleEx(0x2, p, &h); err == nil && h != 0 {
			return true
		}
	}
	return false
}

func wineDetected() bool {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Wine`, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	_ = k.Close()
	return true
}
