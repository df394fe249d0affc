package main

import (
	"github.com/aretw0/pintape/internal/cli"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <input>",
	Short: "Show a report of every transition for an input",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cli.Explain(sharedOptions(cmd), args[0]))
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
