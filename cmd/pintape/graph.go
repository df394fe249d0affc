package main

import (
	"github.com/aretw0/pintape/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the state diagram",
	Long:  `Outputs a Mermaid diagram (graph LR) of the active policy. With --input, the states visited while validating it are highlighted.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		input, _ := cmd.Flags().GetString("input")
		exitOnError(cli.RenderGraph(sharedOptions(cmd), input))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().String("input", "", "Highlight the path taken by this input")
}
