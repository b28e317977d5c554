package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/padorder/internal/configpaths"
)

// LogOptions configure logging.
type LogOptions struct {
	Level    string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"PADORDER_LOG_LEVEL"`
	File     string `help:"Also write logs to this file" env:"PADORDER_LOG_FILE"`
	CallFile string `help:"Write a trace of intercepted DirectInput calls to this file" env:"PADORDER_LOG_CALL_FILE"`
}

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit scaffolds a configuration file.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"What to generate config for" enum:"global,watch" default:"global" optional:""`
	Format  string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output  string `help:"Destination file path (defaults to the user config directory)"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

// globalTemplate holds the options shared by every command, laid out the
// way the CLI embeds them.
type globalTemplate struct {
	Log     LogOptions `embed:"" prefix:"log."`
	Options `embed:""`
}

// Run writes a template of the chosen command's flags and their defaults.
func (c *ConfigInit) Run() error {
	format := configpaths.Extension(strings.ToLower(c.Format))

	root, err := templateFor(c.Command)
	if err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		if dest, err = configpaths.DefaultConfigPath(format); err != nil {
			return err
		}
	}

	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	data, err := encodeTemplate(root, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	fmt.Println(dest)
	return nil
}

func templateFor(command string) (map[string]any, error) {
	switch command {
	case "global", "":
		return flagDefaults(&globalTemplate{})
	case "watch":
		return flagDefaults(&Watch{})
	}
	return nil, errors.New("unknown command; expected 'global' or 'watch'")
}

// flagDefaults lets Kong build the flag model of target and collects each
// flag's default, nested by the dots in its name. Environment variables are
// not consulted.
func flagDefaults(target any) (map[string]any, error) {
	parser, err := kong.New(target)
	if err != nil {
		return nil, fmt.Errorf("failed to build flag model: %w", err)
	}

	root := map[string]any{}
	for _, f := range parser.Model.Flags {
		if f.Name == "help" {
			continue
		}
		if f.HasDefault {
			scan := kong.ScanFromTokens(kong.Token{Type: kong.FlagValueToken, Value: f.Default})
			if err := f.Parse(scan, f.Target); err != nil {
				return nil, fmt.Errorf("invalid default for --%s: %w", f.Name, err)
			}
		}

		v := f.Target.Interface()
		if d, ok := v.(time.Duration); ok {
			v = d.String()
		}

		node := root
		path := strings.Split(f.Name, ".")
		for _, key := range path[:len(path)-1] {
			next, ok := node[key].(map[string]any)
			if !ok {
				next = map[string]any{}
				node[key] = next
			}
			node = next
		}
		node[path[len(path)-1]] = v
	}
	return root, nil
}

func encodeTemplate(root map[string]any, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(root)
	case "toml":
		return toml.Marshal(root)
	default:
		return json.MarshalIndent(root, "", "  ")
	}
}
