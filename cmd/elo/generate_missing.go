package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/elo/pkg/enrich"
)

var (
	missingField    string
	missingTemplate string
)

var generateMissingCmd = &cobra.Command{
	Use:   "generate-missing <note>",
	Short: "Create the notes linked from a list field that do not exist yet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		res, err := app.Service.GenerateMissingNotes(cmd.Context(), args[0], enrich.GenerateOptions{
			Field:    missingField,
			Template: missingTemplate,
		})
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateMissingCmd)
	generateMissingCmd.Flags().StringVarP(&missingField, "field", "f", "", "List field holding the links")
	generateMissingCmd.Flags().StringVarP(&missingTemplate, "template", "t", "", "Template applied to each new note")
}
