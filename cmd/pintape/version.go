package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/pintape"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pintape",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pintape version %s\n", strings.TrimSpace(pintape.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
