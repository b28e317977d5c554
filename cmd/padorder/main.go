package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/sstallion/go-hid"

	"github.com/Alia5/padorder/internal/config"
	"github.com/Alia5/padorder/internal/configpaths"
	"github.com/Alia5/padorder/internal/log"
	"github.com/Alia5/padorder/internal/util"
)

func main() {
	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("padorder"),
		kong.Description("Choose which controllers a DirectInput game sees, and in which order"),
		kong.UsageOnError(),
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	var calls log.CallLogger
	switch {
	case cli.Log.CallFile != "":
		f, err := os.OpenFile(cli.Log.CallFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open call log file", "file", cli.Log.CallFile, "error", err)
			calls = log.NewCall(nil)
		} else {
			calls = log.NewCall(f)
			closeFiles = append(closeFiles, f)
		}
	case cli.Log.Level == "trace":
		calls = log.NewCall(os.Stdout)
	default:
		calls = log.NewCall(nil)
	}

	if err := hid.Init(); err != nil {
		logger.Warn("HID library unavailable", "error", err)
	} else {
		defer func() { _ = hid.Exit() }()
	}

	ctx.Bind(logger)
	ctx.Bind(&cli.Options)
	ctx.BindTo(calls, (*log.CallLogger)(nil))

	err = ctx.Run()
	if util.IsRunFromGUI() {
		if err != nil {
			logger.Error("command failed", "error", err)
		}
		util.WaitForEnter()
	}
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("PADORDER_CONFIG"); v != "" {
		return v
	}
	return ""
}
