package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/elo/pkg/enrich"
)

var (
	applyTemplate string
	applyURL      string
)

var applyCmd = &cobra.Command{
	Use:   "apply <note>",
	Short: "Apply a template to a note",
	Long: `Merge a template into the note, generate the missing metadata and body
with the configured model, then persist, relocate and run the template's
commands. Without --template the templates are ranked against the note
title and you are asked to choose.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		res, err := app.Service.ApplyTemplate(cmd.Context(), args[0], enrich.ApplyOptions{
			URL:      applyURL,
			Template: applyTemplate,
		})
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&applyTemplate, "template", "t", "", "Template name")
	applyCmd.Flags().StringVar(&applyURL, "url", "", "Context URL used when neither template nor note has one")
}
