// Package profile adds runtime profiling capabilities to the paramreg CLI.
//
// It supports CPU, heap, allocs, goroutine, threadcreate, block, and mutex
// profiles through command-line flags. Use [Config.RegisterFlags] to add CLI
// flags and [Config.RegisterCompletions] to wire up shell completions.
//
// Every profiling session is tagged with a "component" pprof label, either
// the path of the YAML schema the invoking subcommand loaded or, when no
// schema was given, the subcommand name itself. This lets `go tool pprof`
// break a profile down by which registry a sample came from, and can be
// overridden explicitly via [Config.Label] (the --profile-label flag).
//
// Typical usage creates a [Config], registers flags, then creates a
// [Profiler] once flags are parsed to wrap command execution
// ([Config.NewProfiler] copies the Config as it is at that moment):
//
//	cfg := profile.NewConfig()
//	var p *profile.Profiler
//
//	rootCmd := &cobra.Command{
//	    PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
//	        p = cfg.NewProfiler()
//	        fallback := schemaFlag
//	        if fallback == "" {
//	            fallback = cmd.Name()
//	        }
//	        return p.Start(fallback)
//	    },
//	}
//
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//	err := rootCmd.Execute()
//	stopErr := p.Stop()
//
// Users can then enable profiling via flags like --cpu-profile=cpu.prof.
package profile
