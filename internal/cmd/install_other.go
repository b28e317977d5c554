//go:build !linux

package cmd

import (
	"log/slog"

	"github.com/Alia5/padorder/internal/util"
)

func install(logger *slog.Logger) error {
	return util.ErrUnsupported
}

func uninstall(logger *slog.Logger) error {
	return util.ErrUnsupported
}
