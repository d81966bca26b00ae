package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/elo/pkg/adapters/fs"
	"github.com/aretw0/elo/pkg/enrich"
)

var fromImagesTemplate string

var fromImagesCmd = &cobra.Command{
	Use:   "from-images <note> <dir>",
	Short: "Fill a note from the images of a folder",
	Long: `Send every jpg, png and webp file of <dir>, in natural order, to the
configured vision model together with the template's prompt.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		images, err := fs.LoadImages(args[1])
		if err != nil {
			return err
		}
		if len(images) == 0 {
			return fmt.Errorf("no images in %s", args[1])
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		res, err := app.Service.ApplyTemplateFromImages(cmd.Context(), args[0], images, enrich.ApplyOptions{
			Template: fromImagesTemplate,
		})
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fromImagesCmd)
	fromImagesCmd.Flags().StringVarP(&fromImagesTemplate, "template", "t", "", "Template name")
}
