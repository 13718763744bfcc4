// Package main provides the CLI entry point for paramreg, a tool for
// processing and inspecting query-parameter registries described by a YAML
// schema file.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/doriantaylor/go-params-registry/profile"
	"github.com/doriantaylor/go-params-registry/version"
)

// ErrMissingSchema is returned when a subcommand that requires a schema
// file is invoked without one.
var ErrMissingSchema = errors.New("missing schema")

func main() {
	cfg := NewConfig()

	var profiler *profile.Profiler

	rootCmd := &cobra.Command{
		Use:   "paramreg",
		Short: "Process and inspect query-parameter registries",
		Long: `paramreg loads a declarative YAML schema describing a set of query
parameters and their relationships, then processes, serializes, or
interactively inspects values against it.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			handler, err := cfg.Log.NewHandler(os.Stderr)
			if err != nil {
				return fmt.Errorf("configuring logging: %w", err)
			}

			slog.SetDefault(slog.New(handler))
			slog.Info("starting", "build", version.Summary())

			profiler = cfg.Prof.NewProfiler()

			fallback := cfg.Schema
			if fallback == "" {
				fallback = cmd.Name()
			}

			return profiler.Start(fallback)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return profiler.Stop()
		},
		// With no subcommand given, fall into the interactive inspector when
		// a schema was given and stdout is a terminal; otherwise just print
		// usage.
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Schema != "" && term.IsTerminal(int(os.Stdout.Fd())) {
				return runInspect(cfg)
			}

			return cmd.Help()
		},
	}

	cfg.RegisterFlags(rootCmd.PersistentFlags())

	if err := cfg.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	rootCmd.AddCommand(
		newProcessCmd(cfg),
		newSetCmd(cfg),
		newSerializeCmd(cfg),
		newInspectCmd(cfg),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
