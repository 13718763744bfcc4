package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func newSerializeCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serialize <query-string>",
		Short: "Process a raw query string and re-serialize it in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSerialize(cfg, args[0])
		},
	}
}

func runSerialize(cfg *Config, query string) error {
	reg, _, err := loadRegistry(cfg.Schema)
	if err != nil {
		return err
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return fmt.Errorf("parsing query string: %w", err)
	}

	inst, err := reg.Process(toRawValues(values))
	if err != nil {
		return fmt.Errorf("processing query: %w", err)
	}

	_, err = fmt.Fprintln(os.Stdout, inst.AsString())

	return err
}
