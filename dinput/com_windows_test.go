//go:build windows

package dinput_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/dinput"
)

func TestComRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		variant dinput.Variant
	}{
		{name: "wide", variant: dinput.Wide},
		{name: "narrow", variant: dinput.Narrow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			di, err := dinput.Create("", tt.variant)
			if errors.Is(err, dinput.ErrUnavailable) {
				t.Skip("dinput8.dll not available")
			}
			require.NoError(t, err)
			defer di.Release()

			var insts []dinput.DeviceInstance
			err = di.EnumDevices(dinput.ClassAll, func(inst dinput.DeviceInstance) bool {
				// move the stack while the callback is live
				runtime.GC()
				insts = append(insts, inst)
				return dinput.Continue
			}, dinput.EnumAllDevices)
			require.NoError(t, err)

			for _, inst := range insts {
				runtime.GC()
				assert.NotEqual(t, device.Identity{}, inst.Instance)
				dev, err := di.CreateDevice(inst.Instance)
				if err != nil {
					continue
				}
				dev.Release()
			}

			_, err = di.CreateDevice(device.Identity{Data1: 0xDEADBEEF})
			assert.Error(t, err)
			_, err = di.FindDevice(device.Identity{Data1: 0xDEADBEEF}, "no such device")
			assert.Error(t, err)
		})
	}
}
