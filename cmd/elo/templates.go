package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var templatesJSON bool

var templatesCmd = &cobra.Command{
	Use:   "templates [query]",
	Short: "List the vault's templates, ranked against query when given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		matches, err := app.Service.Templates(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if templatesJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(matches)
		}
		for _, m := range matches {
			prompt := ""
			if m.Template.Config.Prompt != "" {
				prompt = " [prompt]"
			}
			if len(args) > 0 {
				fmt.Fprintf(out, "%.2f  %s (%s)%s\n", m.Score, m.Template.Name, m.Template.Path, prompt)
				continue
			}
			fmt.Fprintf(out, "%s (%s)%s\n", m.Template.Name, m.Template.Path, prompt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Output in JSON format")
}
