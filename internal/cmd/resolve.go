package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/override"
)

// resolveDevice maps a CLI argument to a canonical identity. It accepts
// "none", a zero-based index, a GUID or a case-insensitive device name.
func resolveDevice(records []device.Record, arg string) (device.Identity, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" || strings.EqualFold(arg, "none") {
		return device.Identity{}, nil
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 0 || n >= len(records) {
			return device.Identity{}, fmt.Errorf("device index %d out of range (0-%d)", n, len(records)-1)
		}
		return records[n].ID, nil
	}
	if id, err := device.ParseIdentity(arg); err == nil {
		if !device.Contains(records, id) {
			return device.Identity{}, fmt.Errorf("device %s is not connected", id)
		}
		return id, nil
	}

	var match *device.Record
	for i := range records {
		if !strings.EqualFold(records[i].Name, arg) {
			continue
		}
		if match != nil {
			return device.Identity{}, fmt.Errorf("device name %q is ambiguous; use the index or GUID", arg)
		}
		match = &records[i]
	}
	if match == nil {
		return device.Identity{}, fmt.Errorf("no device matches %q", arg)
	}
	return match.ID, nil
}

func parsePlayer(n int) (override.Player, error) {
	switch n {
	case 1:
		return override.Player1, nil
	case 2:
		return override.Player2, nil
	}
	return 0, fmt.Errorf("%w: %d", override.ErrInvalidPlayer, n)
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
