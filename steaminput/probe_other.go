//go:build !windows

package steaminput

func overlayModuleLoaded() bool { return false }

func wineDetected() bool { return false }
