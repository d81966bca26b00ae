package main

import (
	"github.com/spf13/cobra"
)

var relocateCmd = &cobra.Command{
	Use:   "relocate <note>",
	Short: "Move a note next to the note its first place-like link points to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		res, err := app.Service.RelocateByLinkField(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(relocateCmd)
}
