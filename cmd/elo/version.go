package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/elo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of elo",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "elo version %s\n", strings.TrimSpace(elo.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
