package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the optional TOML application configuration
type AppConfig struct {
	path string

	CommandName  string `toml:"command"`
	DefaultEmoji string `toml:"default_emoji"`
	PausedEmoji  string `toml:"paused_emoji"`
}

func (x *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to app config file (TOML)",
			Sources:     cli.EnvVars("SONGIFY_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Configure loads the config file when one is given and fills in defaults.
func (x *AppConfig) Configure() error {
	if x.path != "" {
		data, err := os.ReadFile(x.path)
		if err != nil {
			return goerr.Wrap(err, "failed to read app config", goerr.V("path", x.path))
		}
		if err := toml.Unmarshal(data, x); err != nil {
			return goerr.Wrap(err, "failed to parse app config", goerr.V("path", x.path))
		}
	}

	if x.CommandName == "" {
		x.CommandName = "/songify"
	}
	if x.DefaultEmoji == "" {
		x.DefaultEmoji = ":notes:"
	}
	if x.PausedEmoji == "" {
		x.PausedEmoji = ":double_vertical_bar:"
	}

	return x.validate()
}

func (x *AppConfig) validate() error {
	if x.CommandName[0] != '/' {
		return goerr.New("command name must start with '/'", goerr.V("command", x.CommandName))
	}
	return nil
}
