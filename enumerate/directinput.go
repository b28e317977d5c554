package enumerate

import (
	"fmt"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/dinput"
)

// DirectInputSource enumerates DI8DEVCLASS_GAMECTRL devices with
// DIEDFL_ATTACHEDONLY through a fresh IDirectInput8 per call.
type DirectInputSource struct {
	// DLL is an optional chained dinput8.dll.
	DLL string
	// Create defaults to dinput.Create.
	Create func(dll string, variant dinput.Variant) (dinput.DirectInput, error)
}

func (s *DirectInputSource) Controllers(variant dinput.Variant) ([]device.Record, error) {
	create := s.Create
	if create == nil {
		create = dinput.Create
	}
	di, err := create(s.DLL, variant)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer di.Release()

	var out []device.Record
	err = di.EnumDevices(dinput.ClassGameCtrl, func(inst dinput.DeviceInstance) bool {
		out = append(out, RecordFromInstance(inst))
		return dinput.Continue
	}, dinput.EnumAttachedOnly)
	if err != nil {
		return nil, fmt.Errorf("EnumDevices(%s): %w", variant, err)
	}
	return out, nil
}

// RecordFromInstance converts a DirectInput device instance to a record.
func RecordFromInstance(inst dinput.DeviceInstance) device.Record {
	r := device.Record{ID: inst.Instance, Name: inst.ProductName}
	if r.Name == "" {
		r.Name = inst.InstanceName
	}
	if vp, ok := inst.VidPid(); ok {
		r.VidPid = &vp
	}
	if inst.Instance == device.KeyboardIdentity {
		r.Keyboard = true
	}
	return r
}
