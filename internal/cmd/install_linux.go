//go:build linux

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

const rulePath = "/etc/udev/rules.d/70-padorder.rules"

const ruleContent = `# Installed by padorder: seat access to raw HID and joystick nodes.
KERNEL=="hidraw*", SUBSYSTEM=="hidraw", TAG+="uaccess"
KERNEL=="js[0-9]*", SUBSYSTEM=="input", TAG+="uaccess"
`

func install(logger *slog.Logger) error {
	if err := os.WriteFile(rulePath, []byte(ruleContent), 0o644); err != nil {
		return err
	}
	if err := reloadUdev(); err != nil {
		return err
	}
	logger.Info("udev rule installed", "path", rulePath)
	return nil
}

func uninstall(logger *slog.Logger) error {
	var errs []error
	if err := os.Remove(rulePath); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	if err := reloadUdev(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	logger.Info("udev rule removed", "path", rulePath)
	return nil
}

func reloadUdev() error {
	for _, args := range [][]string{
		{"control", "--reload-rules"},
		{"trigger", "--subsystem-match=hidraw"},
		{"trigger", "--subsystem-match=input"},
	} {
		if err := runUdevadm(args...); err != nil {
			return err
		}
	}
	return nil
}

func runUdevadm(args ...string) error {
	cmd := exec.Command("udevadm", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("udevadm %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return nil
}
