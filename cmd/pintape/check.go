package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/pintape/internal/cli"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [inputs...]",
	Short: "Print the verdict for each input",
	Long:  `Validates every argument, or every line of stdin when no argument is given. With --strict the exit code is 2 if any input is rejected.`,
	Run: func(cmd *cobra.Command, args []string) {
		jsonMode, _ := cmd.Flags().GetBool("json")
		strict, _ := cmd.Flags().GetBool("strict")

		err := cli.RunCheck(cmd.Context(), cli.CheckOptions{
			Options: sharedOptions(cmd),
			JSON:    jsonMode,
			Strict:  strict,
		}, args)
		if errors.Is(err, cli.ErrRejected) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		exitOnError(err)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Bool("json", false, "Emit one JSON object per input")
	checkCmd.Flags().Bool("strict", false, "Exit with code 2 if any input is rejected")
}
