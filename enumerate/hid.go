package enumerate

import (
	"fmt"

	"github.com/sstallion/go-hid"

	"github.com/Alia5/padorder/device"
)

const (
	usagePageGenericDesktop = 0x01
	usageJoystick           = 0x04
	usageGamepad            = 0x05
)

// HIDDevice is one HID top-level collection.
type HIDDevice struct {
	Path         string        `json:"path"`
	Name         string        `json:"name"`
	Manufacturer string        `json:"manufacturer,omitempty"`
	VidPid       device.VidPid `json:"vidPid"`
	UsagePage    uint16        `json:"usagePage"`
	Usage        uint16        `json:"usage"`
}

// IsGameController reports whether the collection is a generic desktop
// joystick or gamepad.
func (d HIDDevice) IsGameController() bool {
	return d.UsagePage == usagePageGenericDesktop && (d.Usage == usageJoystick || d.Usage == usageGamepad)
}

// HIDAPISource lists game controllers through hidapi.
type HIDAPISource struct{}

func (HIDAPISource) GameControllers() ([]HIDDevice, error) {
	var out []HIDDevice
	err := hid.Enumerate(0, 0, func(info *hid.DeviceInfo) error {
		d := HIDDevice{
			Path:         info.Path,
			Name:         info.ProductStr,
			Manufacturer: info.MfrStr,
			VidPid:       device.VidPid{Vendor: info.VendorID, Product: info.ProductID},
			UsagePage:    info.UsagePage,
			Usage:        info.Usage,
		}
		if d.IsGameController() {
			out = append(out, d)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: hid enumerate: %w", ErrUnavailable, err)
	}
	return out, nil
}
