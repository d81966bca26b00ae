package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/elo/pkg/core"
)

var enhancePrompt string

var enhanceCmd = &cobra.Command{
	Use:   "enhance <note>",
	Short: "Improve a note with its own !!prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		var cfg *core.TemplateConfig
		if enhancePrompt != "" {
			cfg = &core.TemplateConfig{Prompt: enhancePrompt, HasFrontmatter: true}
		}
		res, err := app.Service.Enhance(cmd.Context(), args[0], cfg)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enhanceCmd)
	enhanceCmd.Flags().StringVarP(&enhancePrompt, "prompt", "p", "", "Prompt to use instead of the note's")
}
