package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the wiring and cache state as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		// Listing fills the index and template caches reported below.
		if _, err := app.Notes.List(cmd.Context()); err != nil {
			return err
		}
		if _, err := app.Service.Templates(cmd.Context(), ""); err != nil {
			return err
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(app.State())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
