package main

import (
	"github.com/spf13/cobra"
)

var enrichURLCmd = &cobra.Command{
	Use:   "enrich-url <note> <url>",
	Short: "Record a URL on a note and apply a template with its content",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		res, err := app.Service.EnrichWithURL(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enrichURLCmd)
}
