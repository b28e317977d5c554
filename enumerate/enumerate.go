// Package enumerate queries the input subsystems a Windows game can see
// (DirectInput, the WinMM joystick API and raw HID) and builds the canonical
// device set from their answers.
package enumerate

import (
	"errors"
	"log/slog"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/dinput"
)

// ErrUnavailable marks a subsystem that could not be loaded or initialised.
var ErrUnavailable = errors.New("subsystem unavailable")

// ModernSource lists attached game controllers through DirectInput using the
// requested interface variant.
type ModernSource interface {
	Controllers(variant dinput.Variant) ([]device.Record, error)
}

// LegacySource lists joystick slots that answer a live state query.
type LegacySource interface {
	Joysticks() ([]device.Record, error)
}

// HIDSource lists HID game controllers (generic desktop joystick/gamepad).
type HIDSource interface {
	GameControllers() ([]HIDDevice, error)
}

// ModernFunc adapts a function to ModernSource.
type ModernFunc func(variant dinput.Variant) ([]device.Record, error)

func (f ModernFunc) Controllers(variant dinput.Variant) ([]device.Record, error) { return f(variant) }

// LegacyFunc adapts a function to LegacySource.
type LegacyFunc func() ([]device.Record, error)

func (f LegacyFunc) Joysticks() ([]device.Record, error) { return f() }

// HIDFunc adapts a function to HIDSource.
type HIDFunc func() ([]HIDDevice, error)

func (f HIDFunc) GameControllers() ([]HIDDevice, error) { return f() }

// Result is the outcome of one enumeration pass.
type Result struct {
	// Devices is the canonical set; it always starts with the keyboard.
	Devices []device.Record
	Modern  []device.Record
	Legacy  []device.Record
	HID     []HIDDevice
	// Variant is the DirectInput variant that answered, if any did.
	Variant   dinput.Variant
	ModernErr error
	LegacyErr error
	HIDErr    error
	// OK is false only when neither DirectInput nor WinMM answered.
	OK bool
}

// Enumerator runs the three sources. A nil source counts as unavailable.
type Enumerator struct {
	modern ModernSource
	legacy LegacySource
	hid    HIDSource
	logger *slog.Logger
}

// New returns an enumerator over the given sources.
func New(modern ModernSource, legacy LegacySource, hid HIDSource, logger *slog.Logger) *Enumerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enumerator{modern: modern, legacy: legacy, hid: hid, logger: logger}
}

// NewSystem returns an enumerator over the platform's real subsystems.
// dinputDLL selects a chained dinput8.dll; empty means the system copy.
func NewSystem(dinputDLL string, logger *slog.Logger) *Enumerator {
	return New(&DirectInputSource{DLL: dinputDLL}, WinMMSource{}, HIDAPISource{}, logger)
}

// Enumerate never fails hard; unavailable subsystems are logged and skipped.
func (e *Enumerator) Enumerate() Result {
	var res Result

	res.Modern, res.Variant, res.ModernErr = e.enumerateModern()
	if res.ModernErr != nil {
		e.logger.Debug("DirectInput enumeration failed", "error", res.ModernErr)
	}

	if e.legacy == nil {
		res.LegacyErr = ErrUnavailable
	} else {
		res.Legacy, res.LegacyErr = e.legacy.Joysticks()
	}
	if res.LegacyErr != nil {
		e.logger.Debug("WinMM enumeration failed", "error", res.LegacyErr)
	}

	if e.hid == nil {
		res.HIDErr = ErrUnavailable
	} else {
		res.HID, res.HIDErr = e.hid.GameControllers()
	}
	if res.HIDErr != nil {
		e.logger.Debug("HID enumeration failed", "error", res.HIDErr)
	}

	res.OK = res.ModernErr == nil || res.LegacyErr == nil
	res.Devices = Canonical(res.Modern, res.Legacy)

	e.logger.Debug("Enumerated devices",
		"canonical", len(res.Devices),
		"modern", len(res.Modern),
		"legacy", len(res.Legacy),
		"hid", len(res.HID),
		"ok", res.OK)
	return res
}

func (e *Enumerator) enumerateModern() ([]device.Record, dinput.Variant, error) {
	if e.modern == nil {
		return nil, dinput.Wide, ErrUnavailable
	}
	recs, err := e.modern.Controllers(dinput.Wide)
	if err == nil {
		return recs, dinput.Wide, nil
	}
	e.logger.Debug("Wide DirectInput enumeration failed, trying narrow", "error", err)
	recs, narrowErr := e.modern.Controllers(dinput.Narrow)
	if narrowErr != nil {
		return nil, dinput.Narrow, errors.Join(err, narrowErr)
	}
	return recs, dinput.Narrow, nil
}

// Canonical builds the canonical set: the keyboard first, then the reconciled
// modern and legacy records. Repeated identities keep their first occurrence.
func Canonical(modern, legacy []device.Record) []device.Record {
	merged := device.Reconcile(modern, legacy)
	out := make([]device.Record, 0, len(merged)+1)
	out = append(out, device.KeyboardRecord())
	for _, r := range merged {
		if r.ID.IsZero() || device.Contains(out, r.ID) {
			continue
		}
		out = append(out, r)
	}
	return out
}
