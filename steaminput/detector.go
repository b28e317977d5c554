// Package steaminput guesses whether Steam Input (or a layer working like
// it) is hiding physical controllers from the game process.
//
// There is no authoritative signal. The decision only fires when the
// device-mask variable Steam hands to games is long, meaning most real pads
// are being suppressed, and at least one controller is still visible so
// there is something to protect. Everything else is reported for
// diagnostics only: the overlay DLL is often loaded for unrelated reasons
// and HID counts disagree with DirectInput on plenty of healthy setups.
// A missed detection is preferred over disabling a working override.
package steaminput

import (
	"os"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/enumerate"
)

// Environment variables Steam sets for launched games.
const (
	EnvIgnoreDevices       = "SDL_GAMECONTROLLER_IGNORE_DEVICES"
	EnvIgnoreDevicesExcept = "SDL_GAMECONTROLLER_IGNORE_DEVICES_EXCEPT"
	EnvSteamClientLaunch   = "SteamClientLaunch"
	EnvSteamGameID         = "SteamGameId"
	EnvSteamAppID          = "SteamAppId"
	EnvConfiguratorSupport = "EnableConfiguratorSupport"
	EnvVirtualGamepadInfo  = "SteamVirtualGamepadInfo"
)

// DefaultThreshold is the mask length above which the mask is considered to
// cover most attached controllers.
const DefaultThreshold = 96

var diagnosticEnv = []string{
	EnvIgnoreDevicesExcept,
	EnvSteamClientLaunch,
	EnvSteamGameID,
	EnvSteamAppID,
	EnvConfiguratorSupport,
	EnvVirtualGamepadInfo,
}

// Report is the outcome of one detection pass.
type Report struct {
	Likely bool `json:"likely"`

	MaskPresent bool `json:"maskPresent"`
	MaskLength  int  `json:"maskLength"`
	Threshold   int  `json:"threshold"`
	Controllers int  `json:"controllers"`

	// Diagnostics below never influence Likely.
	EnvPresent     map[string]bool `json:"envPresent"`
	OverlayLoaded  bool            `json:"overlayLoaded"`
	HIDControllers int             `json:"hidControllers"`
	HIDMismatch    bool            `json:"hidMismatch"`
	Wine           bool            `json:"wine"`
}

// Detector evaluates the heuristic. The zero value reads the real process
// environment with DefaultThreshold.
type Detector struct {
	Threshold int
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// OverlayLoaded defaults to a check of the current process modules.
	OverlayLoaded func() bool
	// Wine defaults to a registry probe.
	Wine func() bool
}

// Detect combines the mask variable with the canonical set.
func (d *Detector) Detect(devices []device.Record, hid []enumerate.HIDDevice) Report {
	lookup := d.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	threshold := d.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	r := Report{
		Threshold:   threshold,
		Controllers: device.CountControllers(devices),
		EnvPresent:  make(map[string]bool, len(diagnosticEnv)),
	}

	if mask, ok := lookup(EnvIgnoreDevices); ok {
		r.MaskPresent = true
		r.MaskLength = len(mask)
	}
	r.Likely = r.MaskPresent && r.MaskLength > threshold && r.Controllers > 0

	for _, name := range diagnosticEnv {
		_, ok := lookup(name)
		r.EnvPresent[name] = ok
	}

	overlay := d.OverlayLoaded
	if overlay == nil {
		overlay = overlayModuleLoaded
	}
	r.OverlayLoaded = overlay()

	wine := d.Wine
	if wine == nil {
		wine = wineDetected
	}
	r.Wine = wine()

	for _, h := range hid {
		if h.IsGameController() {
			r.HIDControllers++
		}
	}
	r.HIDMismatch = r.HIDControllers != r.Controllers

	return r
}
