package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func newProcessCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "process <query-string>",
		Short: "Process a raw query string against the schema and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runProcess(cfg, args[0])
		},
	}
}

func runProcess(cfg *Config, query string) error {
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

	out := struct {
		Content map[string]any `json:"content"`
		Other   map[string]any `json:"other,omitempty"`
	}{
		Content: inst.Content(),
		Other:   inst.Other(),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}
