//go:build !windows

package dinput

import "fmt"

// Create is only backed by dinput8.dll on Windows.
func Create(dllPath string, variant Variant) (DirectInput, error) {
	return nil, fmt.Errorf("Load: %w: DirectInput requires Windows", ErrUnavailable)
}
