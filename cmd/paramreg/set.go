package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/doriantaylor/go-params-registry/registry"
)

func newSetCmd(cfg *Config) *cobra.Command {
	var withDefaults bool

	cmd := &cobra.Command{
		Use:   "set <base-query-string> <override-query-string>",
		Short: "Process a base query string, apply overrides, and print the canonical result",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSet(cfg, args[0], args[1], withDefaults)
		},
	}

	cmd.Flags().BoolVar(&withDefaults, "defaults", false,
		"evaluate defaults when applying the overrides")

	return cmd
}

func runSet(cfg *Config, base, override string, withDefaults bool) error {
	reg, _, err := loadRegistry(cfg.Schema)
	if err != nil {
		return err
	}

	baseValues, err := url.ParseQuery(base)
	if err != nil {
		return fmt.Errorf("parsing base query string: %w", err)
	}

	inst, err := reg.Process(toRawValues(baseValues))
	if err != nil {
		return fmt.Errorf("processing base query: %w", err)
	}

	overrideValues, err := url.ParseQuery(override)
	if err != nil {
		return fmt.Errorf("parsing override query string: %w", err)
	}

	if err := inst.Set(toRawValues(overrideValues), registry.WithDefaults(withDefaults)); err != nil {
		return fmt.Errorf("applying overrides: %w", err)
	}

	_, err = fmt.Fprintln(os.Stdout, inst.AsString())

	return err
}

func toRawValues(values url.Values) map[string][]any {
	raw := make(map[string][]any, len(values))

	for k, vs := range values {
		atoms := make([]any, len(vs))
		for i, v := range vs {
			atoms[i] = v
		}

		raw[k] = atoms
	}

	return raw
}
