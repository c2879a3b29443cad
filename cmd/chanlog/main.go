// Command chanlog exercises the chanlog logging engine.
//
// The run subcommand drives a concurrent demonstration workload through the
// logger, optionally with a live terminal tail of the rendered output. The
// schema subcommand prints the JSON Schema for the YAML configuration file,
// and version prints build metadata.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/chanlog"
	"go.jacobcolvin.com/chanlog/profile"
	"go.jacobcolvin.com/chanlog/version"
)

func main() {
	logCfg := chanlog.NewConfig()
	profCfg := profile.NewConfig()
	profiler := profCfg.NewProfiler()

	var configFile string

	rootCmd := &cobra.Command{
		Use:           "chanlog",
		Short:         "Leveled, multi-destination logging demonstrator",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Values from the config file take precedence over flags.
			if configFile != "" {
				err := logCfg.LoadFile(configFile)
				if err != nil {
					return err
				}
			}

			return profiler.Start()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file")
	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profCfg.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newRunCmd(logCfg),
		newSchemaCmd(),
		newVersionCmd(),
	)

	for _, register := range []func(*cobra.Command) error{
		logCfg.RegisterCompletions,
		profCfg.RegisterCompletions,
	} {
		err := register(rootCmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
		}
	}

	err := rootCmd.Execute()

	stopErr := profiler.Stop()
	if stopErr != nil {
		fmt.Fprintf(os.Stderr, "stopping profiler: %v\n", stopErr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for the YAML configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := json.MarshalIndent(chanlog.ConfigSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling schema: %w", err)
			}

			out = append(out, '\n')

			_, err = cmd.OutOrStdout().Write(out)
			if err != nil {
				return fmt.Errorf("writing schema: %w", err)
			}

			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build metadata",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
