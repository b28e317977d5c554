// Package config defines the command line surface.
package config

import "github.com/Alia5/padorder/internal/cmd"

// CLI is the root command.
type CLI struct {
	Config string         `help:"Configuration file (json, yaml or toml)" type:"path" env:"PADORDER_CONFIG"`
	Log    cmd.LogOptions `embed:"" prefix:"log."`

	cmd.Options `embed:""`

	Devices     cmd.Devices       `cmd:"" default:"1" help:"List input devices and the current assignment"`
	Select      cmd.Select        `cmd:"" help:"Bind a device to a player"`
	Override    cmd.Override      `cmd:"" help:"Turn controller override on or off"`
	AutoRefresh cmd.AutoRefresh   `cmd:"" name:"autorefresh" help:"Turn periodic re-enumeration on or off"`
	Watch       cmd.Watch         `cmd:"" help:"Keep the device set current and repair selections"`
	Preview     cmd.Preview       `cmd:"" help:"Show the controllers a game would see"`
	Panel       cmd.Panel         `cmd:"" help:"Open game controller settings"`
	ConfigCmd   cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
	Install     cmd.Install       `cmd:"" help:"Install a udev rule for HID controller access (Linux)"`
	Uninstall   cmd.Uninstall     `cmd:"" help:"Remove the udev rule (Linux)"`
}
