package enumerate_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/dinput"
	"github.com/Alia5/padorder/enumerate"
	th "github.com/Alia5/padorder/internal/testing"
)

func slot(v uint32) *uint32 { return &v }

func padRecord(data1 uint32, name string) device.Record {
	return device.Record{ID: device.Identity{Data1: data1, Data2: 0xBEEF}, Name: name}
}

func TestEnumerate(t *testing.T) {
	errBroken := errors.New("broken")

	tests := []struct {
		name        string
		modern      enumerate.ModernSource
		legacy      enumerate.LegacySource
		hid         enumerate.HIDSource
		wantNames   []string
		wantOK      bool
		wantVariant dinput.Variant
	}{
		{
			name: "wide answers and legacy duplicate merges",
			modern: enumerate.ModernFunc(func(v dinput.Variant) ([]device.Record, error) {
				return []device.Record{padRecord(1, "Pad One")}, nil
			}),
			legacy: enumerate.LegacyFunc(func() ([]device.Record, error) {
				return []device.Record{{ID: device.LegacyIdentity(0), Name: "PAD ONE", LegacyID: slot(0)}}, nil
			}),
			wantNames:   []string{"Keyboard", "Pad One"},
			wantOK:      true,
			wantVariant: dinput.Wide,
		},
		{
			name: "narrow fallback when wide fails",
			modern: enumerate.ModernFunc(func(v dinput.Variant) ([]device.Record, error) {
				if v == dinput.Wide {
					return nil, errBroken
				}
				return []device.Record{padRecord(2, "Stick")}, nil
			}),
			wantNames:   []string{"Keyboard", "Stick"},
			wantOK:      true,
			wantVariant: dinput.Narrow,
		},
		{
			name: "legacy only when DirectInput is missing",
			modern: enumerate.ModernFunc(func(v dinput.Variant) ([]device.Record, error) {
				return nil, enumerate.ErrUnavailable
			}),
			legacy: enumerate.LegacyFunc(func() ([]device.Record, error) {
				return []device.Record{{ID: device.LegacyIdentity(1), Name: "Old Stick", LegacyID: slot(1)}}, nil
			}),
			wantNames:   []string{"Keyboard", "Old Stick"},
			wantOK:      true,
			wantVariant: dinput.Narrow,
		},
		{
			name:      "nothing answers",
			wantNames: []string{"Keyboard"},
			wantOK:    false,
		},
		{
			name: "empty but working DirectInput is ok",
			modern: enumerate.ModernFunc(func(v dinput.Variant) ([]device.Record, error) {
				return nil, nil
			}),
			hid: enumerate.HIDFunc(func() ([]enumerate.HIDDevice, error) {
				return nil, errBroken
			}),
			wantNames:   []string{"Keyboard"},
			wantOK:      true,
			wantVariant: dinput.Wide,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := enumerate.New(tt.modern, tt.legacy, tt.hid, slog.Default())
			res := e.Enumerate()

			names := make([]string, 0, len(res.Devices))
			for _, d := range res.Devices {
				names = append(names, d.Name)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantOK, res.OK)
			if tt.wantOK && tt.modern != nil && res.ModernErr == nil {
				assert.Equal(t, tt.wantVariant, res.Variant)
			}
			require.NotEmpty(t, res.Devices)
			assert.True(t, res.Devices[0].Keyboard)
			assert.Equal(t, device.KeyboardIdentity, res.Devices[0].ID)
		})
	}
}

func TestEnumerateCarriesLegacyID(t *testing.T) {
	e := enumerate.New(
		enumerate.ModernFunc(func(v dinput.Variant) ([]device.Record, error) {
			return []device.Record{padRecord(1, "Pad One"), padRecord(2, "Pad Two")}, nil
		}),
		enumerate.LegacyFunc(func() ([]device.Record, error) {
			return []device.Record{
				{ID: device.LegacyIdentity(4), Name: "pad two", LegacyID: slot(4)},
				{ID: device.LegacyIdentity(5), Name: "Wheel", LegacyID: slot(5)},
			}, nil
		}),
		nil,
		slog.Default(),
	)

	res := e.Enumerate()
	require.Len(t, res.Devices, 4)
	assert.Nil(t, res.Devices[1].LegacyID)
	assert.Equal(t, slot(4), res.Devices[2].LegacyID)
	assert.Equal(t, "Wheel", res.Devices[3].Name)
	assert.True(t, res.Devices[3].Legacy)
	assert.ErrorIs(t, res.HIDErr, enumerate.ErrUnavailable)
}

func TestCanonicalDropsDuplicateIdentities(t *testing.T) {
	kb := device.KeyboardRecord()
	got := enumerate.Canonical([]device.Record{kb, padRecord(1, "A"), padRecord(1, "A again")}, nil)

	require.Len(t, got, 2)
	assert.Equal(t, "Keyboard", got[0].Name)
	assert.Equal(t, "A", got[1].Name)
}

func TestDirectInputSource(t *testing.T) {
	vidpid := dinput.DeviceInstance{
		Instance:    device.Identity{Data1: 7},
		Product:     device.Identity{Data1: 0x028e045e, Data4: [8]byte{0, 0, 'P', 'I', 'D', 'V', 'I', 'D'}},
		ProductName: "Controller (XBOX 360 For Windows)",
	}
	fake := th.NewFakeDirectInput(t, vidpid, th.Instance(8, "Arcade Stick"))

	src := &enumerate.DirectInputSource{
		Create: func(dll string, variant dinput.Variant) (dinput.DirectInput, error) {
			return fake, nil
		},
	}
	recs, err := src.Controllers(dinput.Wide)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.NotNil(t, recs[0].VidPid)
	assert.Equal(t, device.VidPid{Vendor: 0x045e, Product: 0x028e}, *recs[0].VidPid)
	assert.Equal(t, "Arcade Stick", recs[1].Name)

	class, flags := fake.LastEnum()
	assert.Equal(t, dinput.ClassGameCtrl, class)
	assert.Equal(t, dinput.EnumAttachedOnly, flags)
	assert.Equal(t, int32(0), fake.Refs(), "interface must be released after enumeration")
}

func TestDirectInputSourceUnavailable(t *testing.T) {
	src := &enumerate.DirectInputSource{
		Create: func(dll string, variant dinput.Variant) (dinput.DirectInput, error) {
			return nil, dinput.ErrUnavailable
		},
	}
	_, err := src.Controllers(dinput.Wide)
	assert.ErrorIs(t, err, enumerate.ErrUnavailable)
	assert.ErrorIs(t, err, dinput.ErrUnavailable)
}

func TestHIDDeviceIsGameController(t *testing.T) {
	assert.True(t, enumerate.HIDDevice{UsagePage: 0x01, Usage: 0x05}.IsGameController())
	assert.True(t, enumerate.HIDDevice{UsagePage: 0x01, Usage: 0x04}.IsGameController())
	assert.False(t, enumerate.HIDDevice{UsagePage: 0x01, Usage: 0x06}.IsGameController())
	assert.False(t, enumerate.HIDDevice{UsagePage: 0x0C, Usage: 0x05}.IsGameController())
}
