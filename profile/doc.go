// Package profile adds runtime profiling to the chanlog CLI.
//
// The logging engine serializes every emission through a spinning lock, so
// the block and mutex profiles are the interesting ones under load; CPU,
// heap, and goroutine snapshots round out the set. Use
// [Config.RegisterFlags] to add CLI flags and [Config.RegisterCompletions]
// to wire up shell completions.
//
// Typical usage creates a [Config], registers flags, then creates a
// [Profiler] to bracket command execution:
//
//	cfg := profile.NewConfig()
//	p := cfg.NewProfiler()
//
//	rootCmd := &cobra.Command{
//	    PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
//	        return p.Start()
//	    },
//	}
//
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	err := rootCmd.Execute()
//	stopErr := p.Stop()
//
// Users can then enable profiling via flags like --mutex-profile=mutex.prof.
package profile
