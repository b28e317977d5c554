package steaminput_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/enumerate"
	"github.com/Alia5/padorder/steaminput"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func newDetector(vars map[string]string, overlay bool) *steaminput.Detector {
	return &steaminput.Detector{
		Threshold:     steaminput.DefaultThreshold,
		LookupEnv:     env(vars),
		OverlayLoaded: func() bool { return overlay },
		Wine:          func() bool { return false },
	}
}

func TestDetect(t *testing.T) {
	longMask := strings.Repeat("0x28de/0x1142,", 10)
	shortMask := "0x28de/0x1142"
	withPad := []device.Record{device.KeyboardRecord(), {ID: device.Identity{Data1: 1}, Name: "Pad"}}
	keyboardOnly := []device.Record{device.KeyboardRecord()}

	tests := []struct {
		name    string
		vars    map[string]string
		overlay bool
		devices []device.Record
		want    bool
	}{
		{
			name:    "mask absent",
			vars:    map[string]string{steaminput.EnvSteamClientLaunch: "1"},
			overlay: true,
			devices: withPad,
			want:    false,
		},
		{
			name:    "mask below threshold",
			vars:    map[string]string{steaminput.EnvIgnoreDevices: shortMask},
			overlay: true,
			devices: withPad,
			want:    false,
		},
		{
			name:    "mask exactly at threshold",
			vars:    map[string]string{steaminput.EnvIgnoreDevices: strings.Repeat("x", steaminput.DefaultThreshold)},
			devices: withPad,
			want:    false,
		},
		{
			name:    "mask above threshold with a pad",
			vars:    map[string]string{steaminput.EnvIgnoreDevices: longMask},
			devices: withPad,
			want:    true,
		},
		{
			name:    "mask above threshold but only the keyboard",
			vars:    map[string]string{steaminput.EnvIgnoreDevices: longMask},
			devices: keyboardOnly,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newDetector(tt.vars, tt.overlay).Detect(tt.devices, nil)
			assert.Equal(t, tt.want, r.Likely)
		})
	}
}

func TestDetectDiagnosticsDoNotDecide(t *testing.T) {
	vars := map[string]string{
		steaminput.EnvSteamClientLaunch:  "1",
		steaminput.EnvVirtualGamepadInfo: "x",
	}
	hid := []enumerate.HIDDevice{
		{UsagePage: 0x01, Usage: 0x05},
		{UsagePage: 0x01, Usage: 0x05},
		{UsagePage: 0x01, Usage: 0x06},
	}
	devices := []device.Record{device.KeyboardRecord(), {ID: device.Identity{Data1: 1}, Name: "Pad"}}

	r := newDetector(vars, true).Detect(devices, hid)

	assert.False(t, r.Likely)
	assert.True(t, r.OverlayLoaded)
	assert.True(t, r.EnvPresent[steaminput.EnvSteamClientLaunch])
	assert.False(t, r.EnvPresent[steaminput.EnvSteamAppID])
	assert.Equal(t, 2, r.HIDControllers)
	assert.Equal(t, 1, r.Controllers)
	assert.True(t, r.HIDMismatch)
}

func TestDetectCustomThreshold(t *testing.T) {
	d := newDetector(map[string]string{steaminput.EnvIgnoreDevices: "0123456789"}, false)
	d.Threshold = 5
	devices := []device.Record{device.KeyboardRecord(), {ID: device.Identity{Data1: 1}, Name: "Pad"}}

	r := d.Detect(devices, nil)
	assert.True(t, r.Likely)
	assert.Equal(t, 10, r.MaskLength)
	assert.Equal(t, 5, r.Threshold)
}
