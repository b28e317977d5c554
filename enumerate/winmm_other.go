//go:build !windows

package enumerate

import (
	"fmt"

	"github.com/Alia5/padorder/device"
)

// WinMMSource is unavailable off Windows.
type WinMMSource struct{}

func (WinMMSource) Joysticks() ([]device.Record, error) {
	return nil, fmt.Errorf("%w: winmm requires Windows", ErrUnavailable)
}
