package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/doriantaylor/go-params-registry/paramlog"
	"github.com/doriantaylor/go-params-registry/profile"
)

// Flags holds CLI flag names for top-level paramreg configuration.
type Flags struct {
	Schema string
}

// Config holds CLI flag values shared across paramreg's subcommands: the
// schema file to load, plus the embedded logging and profiling
// configuration every subcommand inherits.
type Config struct {
	Flags  Flags
	Schema string
	Log    *paramlog.Config
	Prof   *profile.Config
}

// NewConfig returns a new [Config] with default flag names and fresh
// [paramlog.Config] and [profile.Config] values.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{Schema: "schema"},
		Log:   paramlog.NewConfig(),
		Prof:  profile.NewConfig(),
	}
}

// RegisterFlags adds paramreg's own flags plus the logging and profiling
// flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Schema, c.Flags.Schema, "s", "",
		"path to the YAML schema file describing the registry")

	c.Log.RegisterFlags(flags)
	c.Prof.RegisterFlags(flags)
}

// RegisterCompletions registers shell completions for every flag group on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Schema,
		cobra.FixedCompletions(nil, cobra.ShellCompDirectiveDefault))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Schema, err)
	}

	if err := c.Log.RegisterCompletions(cmd); err != nil {
		return err
	}

	return c.Prof.RegisterCompletions(cmd)
}
