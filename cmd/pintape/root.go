package main

import (
	"fmt"
	"os"

	"github.com/aretw0/pintape/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pintape",
	Short: "pintape validates PINs with a step-by-step finite-state automaton",
	Long: `pintape reads an input as a tape of symbols and walks a finite-state automaton
over it, one transition at a time. Exactly 4 or 6 ASCII digits are accepted.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("policy", "", "Transition policy (positional, deferred)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log machine activity to stderr")
	rootCmd.PersistentFlags().String("log-json", "", "Also write JSON logs to this file")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().Bool("metrics", false, "Print Prometheus counters to stderr on exit")
}

// sharedOptions reads the persistent flags.
func sharedOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	policy, _ := flags.GetString("policy")
	debug, _ := flags.GetBool("debug")
	logJSON, _ := flags.GetString("log-json")
	noColor, _ := flags.GetBool("no-color")
	metrics, _ := flags.GetBool("metrics")

	opts := cli.Options{
		ConfigPath: configPath,
		Policy:     policy,
		Debug:      debug,
		LogJSON:    logJSON,
		NoColor:    noColor,
		Metrics:    metrics,
	}
	if flags.Lookup("interval") != nil && flags.Changed("interval") {
		opts.Interval, _ = flags.GetDuration("interval")
	}
	return opts
}

func exitOnError(err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
