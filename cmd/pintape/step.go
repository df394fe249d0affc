package main

import (
	"github.com/aretw0/pintape/internal/cli"
	"github.com/spf13/cobra"
)

var stepCmd = &cobra.Command{
	Use:   "step [input]",
	Short: "Step through the automaton interactively",
	Long: `Loads the input (if given) and waits for commands: Enter applies one transition,
'r' runs the rest, 'x' resets, 'l <input>' loads another input and 'q' quits.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		quiet, _ := cmd.Flags().GetBool("quiet")
		var input string
		if len(args) > 0 {
			input = args[0]
		}

		err := cli.RunStepper(cmd.Context(), cli.StepOptions{
			Options: sharedOptions(cmd),
			Banner:  !quiet,
		}, input)
		exitOnError(err)
	},
}

func init() {
	rootCmd.AddCommand(stepCmd)

	stepCmd.Flags().Duration("interval", 0, "Delay between steps when running with 'r'")
	stepCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
