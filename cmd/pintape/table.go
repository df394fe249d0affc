package main

import (
	"fmt"
	"os"

	"github.com/aretw0/pintape/internal/cli"
	"github.com/aretw0/pintape/internal/runtime"
	"github.com/aretw0/pintape/internal/validator"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the transition table of the active policy",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cli.Table(sharedOptions(cmd)))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [policy...]",
	Short: "Check transition policies for consistency",
	Long:  `Checks that every policy (all registered ones by default) is total, terminates in accept or reject and reaches every state it declares.`,
	Run: func(cmd *cobra.Command, args []string) {
		names := args
		if len(names) == 0 {
			names = runtime.PolicyNames()
		}

		failed := false
		for _, name := range names {
			p, err := runtime.PolicyByName(name)
			if err == nil {
				err = validator.ValidatePolicy(p)
			}
			if err != nil {
				fmt.Printf("Validation failed for %s: %v\n", name, err)
				failed = true
				continue
			}
			fmt.Printf("Policy %s is valid! ✅\n", name)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(validateCmd)
}
