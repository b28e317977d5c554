package intercept_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/dinput"
	"github.com/Alia5/padorder/intercept"
	th "github.com/Alia5/padorder/internal/testing"
	"github.com/Alia5/padorder/override"
)

type staticPolicy struct {
	enabled bool
	p1, p2  device.Identity
}

func (p staticPolicy) IsAllowed(id device.Identity) bool {
	return len(override.Arrange([]device.Identity{id}, p.enabled, p.p1, p.p2)) == 1
}

func (p staticPolicy) Arrange(ids []device.Identity) []int {
	return override.Arrange(ids, p.enabled, p.p1, p.p2)
}

func names(insts []dinput.DeviceInstance) []string {
	out := make([]string, len(insts))
	for i, inst := range insts {
		out[i] = inst.InstanceName
	}
	return out
}

func fourPads() []dinput.DeviceInstance {
	return []dinput.DeviceInstance{
		th.Instance(0xA, "A"),
		th.Instance(0xB, "B"),
		th.Instance(0xC, "C"),
		th.Instance(0xD, "D"),
	}
}

func TestEnumDevices(t *testing.T) {
	pads := fourPads()
	tests := []struct {
		name   string
		policy staticPolicy
		stopAt int
		want   []string
	}{
		{
			name: "override off passes everything in order",
			want: []string{"A", "B", "C", "D"},
		},
		{
			name:   "override off with players set still unchanged",
			policy: staticPolicy{p1: pads[2].Instance, p2: pads[0].Instance},
			want:   []string{"A", "B", "C", "D"},
		},
		{
			name:   "override on keeps only player 1",
			policy: staticPolicy{enabled: true, p1: pads[2].Instance},
			want:   []string{"C"},
		},
		{
			name:   "override on player 1 then player 2",
			policy: staticPolicy{enabled: true, p1: pads[2].Instance, p2: pads[0].Instance},
			want:   []string{"C", "A"},
		},
		{
			name:   "callback stop ends the replay",
			policy: staticPolicy{enabled: true, p1: pads[3].Instance, p2: pads[1].Instance},
			stopAt: 1,
			want:   []string{"D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := th.NewFakeDirectInput(t, pads...)
			ic := intercept.New(fake, tt.policy, nil, nil, nil)

			var got []dinput.DeviceInstance
			err := ic.EnumDevices(dinput.ClassGameCtrl, func(inst dinput.DeviceInstance) bool {
				got = append(got, inst)
				if tt.stopAt > 0 && len(got) == tt.stopAt {
					return dinput.Stop
				}
				return dinput.Continue
			}, dinput.EnumAttachedOnly)

			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))

			class, flags := fake.LastEnum()
			assert.Equal(t, dinput.ClassGameCtrl, class)
			assert.Equal(t, dinput.EnumAttachedOnly, flags)
		})
	}
}

func TestEnumDevicesReturnsUnderlyingError(t *testing.T) {
	tests := []struct {
		name      string
		failAfter int
		err       error
	}{
		{name: "fails before reporting", err: dinput.DIERR_NOTINITIALIZED},
		{name: "fails after reporting one device", failAfter: 1, err: dinput.DIERR_GENERIC},
		{name: "fails after reporting every device", failAfter: 4, err: dinput.DIERR_GENERIC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := th.NewFakeDirectInput(t, fourPads()...)
			fake.EnumErr = tt.err
			fake.EnumFailAfter = tt.failAfter
			ic := intercept.New(fake, staticPolicy{}, nil, nil, nil)

			delivered := 0
			err := ic.EnumDevices(dinput.ClassAll, func(dinput.DeviceInstance) bool {
				delivered++
				return dinput.Continue
			}, dinput.EnumAllDevices)

			assert.ErrorIs(t, err, tt.err)
			assert.Zero(t, delivered, "nothing is delivered from a failed enumeration")
		})
	}
}

func TestEnumDevicesNilCallback(t *testing.T) {
	fake := th.NewFakeDirectInput(t, fourPads()...)
	ic := intercept.New(fake, staticPolicy{}, nil, nil, nil)

	assert.NotPanics(t, func() {
		assert.NoError(t, ic.EnumDevices(dinput.ClassGameCtrl, nil, dinput.EnumAttachedOnly))
	})

	fake.EnumErr = dinput.DIERR_INVALIDPARAM
	assert.NotPanics(t, func() {
		assert.ErrorIs(t, ic.EnumDevices(dinput.ClassGameCtrl, nil, dinput.EnumAttachedOnly), dinput.DIERR_INVALIDPARAM)
	})
}

func TestCreateDevice(t *testing.T) {
	pads := fourPads()
	fake := th.NewFakeDirectInput(t, pads...)
	ic := intercept.New(fake, staticPolicy{enabled: true, p1: pads[1].Instance}, nil, nil, nil)

	dev, err := ic.CreateDevice(pads[0].Instance)
	assert.Nil(t, dev)
	assert.ErrorIs(t, err, dinput.DIERR_DEVICENOTREG)
	assert.Empty(t, fake.Created, "rejected devices never reach the real interface")

	dev, err = ic.CreateDevice(pads[1].Instance)
	require.NoError(t, err)
	require.NotNil(t, dev)
	require.Len(t, fake.Created, 1)
	assert.Equal(t, 1, ic.Tracker().Len())
	assert.Equal(t, int32(2), fake.Created[0].Refs(), "host and tracker each hold a reference")

	assert.Equal(t, uint32(0), dev.Release())
	assert.Equal(t, 0, ic.Tracker().Len())
	assert.Equal(t, int32(0), fake.Created[0].Refs())
}

func TestCreateDeviceUnknownPassesThroughError(t *testing.T) {
	fake := th.NewFakeDirectInput(t)
	ic := intercept.New(fake, staticPolicy{}, nil, nil, nil)

	_, err := ic.CreateDevice(device.Identity{Data1: 42})
	var hr dinput.HRESULT
	require.True(t, errors.As(err, &hr))
	assert.Equal(t, dinput.DIERR_DEVICENOTREG, hr)
	assert.Equal(t, 0, ic.Tracker().Len())
}

func TestForwardedMethods(t *testing.T) {
	pads := fourPads()
	fake := th.NewFakeDirectInput(t, pads...)
	ic := intercept.New(fake, staticPolicy{enabled: true}, nil, nil, nil)

	require.NoError(t, ic.GetDeviceStatus(pads[0].Instance))
	require.NoError(t, ic.RunControlPanel(0, 0))
	require.NoError(t, ic.Initialize(0, 0x0800))
	id, err := ic.FindDevice(device.Identity{}, "B")
	require.NoError(t, err)
	assert.Equal(t, pads[1].Instance, id)

	for _, m := range []string{"GetDeviceStatus", "RunControlPanel", "Initialize", "FindDevice"} {
		assert.Equal(t, 1, fake.Forwarded(m), m)
	}

	assert.Equal(t, uint32(2), ic.AddRef())
	assert.Equal(t, uint32(1), ic.Release())
}

func TestCreatedDeviceHostReferences(t *testing.T) {
	pad := th.Instance(0xA, "A")
	fake := th.NewFakeDirectInput(t, pad)
	ic := intercept.New(fake, staticPolicy{}, nil, nil, nil)

	dev, err := ic.CreateDevice(pad.Instance)
	require.NoError(t, err)
	created := fake.Created[0]

	dev.AddRef()
	dev.Release()
	assert.True(t, ic.Tracker().Tracked(created), "host still holds a reference")
	assert.Equal(t, int32(2), created.Refs())

	dev.Release()
	assert.False(t, ic.Tracker().Tracked(created))
	assert.Equal(t, int32(0), created.Refs())
}

func TestHostReleaseDuringBounce(t *testing.T) {
	pad := th.Instance(0xA, "A")
	fake := th.NewFakeDirectInput(t, pad)
	ic := intercept.New(fake, staticPolicy{}, nil, nil, nil)

	dev, err := ic.CreateDevice(pad.Instance)
	require.NoError(t, err)
	created := fake.Created[0]

	started := make(chan struct{})
	unblock := make(chan struct{})
	var once sync.Once
	created.OnAcquire(func() {
		once.Do(func() { close(started) })
		<-unblock
	})

	done := make(chan intercept.BounceResult, 1)
	go func() { done <- ic.Tracker().Bounce(1) }()

	<-started
	dev.Release()
	close(unblock)
	<-done

	assert.False(t, ic.Tracker().Tracked(created))
	assert.Equal(t, 0, ic.Tracker().Len())
	assert.Equal(t, int32(0), created.Refs(), "no reference outlives the host")
}
