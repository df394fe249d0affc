package main

import (
	"github.com/aretw0/pintape/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <input>",
	Short: "Load an input and run the automaton automatically",
	Long:  `Loads the input onto the tape and applies one transition per interval until the machine halts. Ctrl+C stops the run.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")

		err := cli.RunSession(cmd.Context(), cli.RunOptions{
			Options: sharedOptions(cmd),
			JSON:    jsonMode,
			Banner:  !quiet,
		}, args[0])
		exitOnError(err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Duration("interval", 0, "Delay between steps (default from config, 1s)")
	runCmd.Flags().Bool("json", false, "Emit events as NDJSON")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
