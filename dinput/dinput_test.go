package dinput_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/dinput"
)

func TestDeviceInstanceVidPid(t *testing.T) {
	tests := []struct {
		name    string
		product device.Identity
		want    device.VidPid
		wantOK  bool
	}{
		{
			name: "xbox 360 pad",
			product: device.Identity{
				Data1: 0x028e045e,
				Data4: [8]byte{0x00, 0x00, 'P', 'I', 'D', 'V', 'I', 'D'},
			},
			want:   device.VidPid{Vendor: 0x045e, Product: 0x028e},
			wantOK: true,
		},
		{
			name:    "keyboard guid has no ids",
			product: device.KeyboardIdentity,
			wantOK:  false,
		},
		{
			name: "signature mismatch",
			product: device.Identity{
				Data1: 0x028e045e,
				Data4: [8]byte{0x00, 0x00, 'P', 'I', 'D', 'V', 'I', 'X'},
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := dinput.DeviceInstance{Product: tt.product}.VidPid()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHRESULT(t *testing.T) {
	assert.NoError(t, dinput.FromHRESULT(0))
	assert.NoError(t, dinput.FromHRESULT(uintptr(dinput.DI_NOTATTACHED)))

	err := dinput.FromHRESULT(uintptr(dinput.DIERR_DEVICENOTREG))
	assert.ErrorIs(t, err, dinput.DIERR_DEVICENOTREG)
	assert.Equal(t, "DIERR_DEVICENOTREG (0x80040154)", err.Error())

	wrapped := fmt.Errorf("CreateDevice: %w", dinput.DIERR_INPUTLOST)
	var h dinput.HRESULT
	assert.True(t, errors.As(wrapped, &h))
	assert.Equal(t, dinput.DIERR_INPUTLOST, h)

	assert.Equal(t, "HRESULT 0x80001234", dinput.HRESULT(0x80001234).Error())
}
