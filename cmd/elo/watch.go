package main

import (
	"fmt"
	"log/slog"
	"path"

	"github.com/spf13/cobra"

	elolifecycle "github.com/aretw0/elo/pkg/adapters/lifecycle"
	"github.com/aretw0/elo/pkg/enrich"
)

var (
	watchDir      string
	watchPattern  string
	watchTemplate string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Apply a template to every note created in the inbox",
	Long: `Watch the inbox folder and apply a template to each new note until
interrupted. Each path is processed once per run, so the rewrites and moves
done by the workflow do not trigger it again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		dir := watchDir
		if dir == "" {
			dir = app.Config.Vault.Inbox
		}
		pattern := watchPattern
		if pattern == "" {
			pattern = path.Join(dir, "**", "*.md")
		}

		ctx := cmd.Context()
		paths, err := app.Watch(ctx, dir, pattern)
		if err != nil {
			return err
		}
		src := elolifecycle.NewSource(paths)
		if err := src.Start(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (%s)\n", dir, pattern)

		processed := make(map[string]bool)
		for e := range src.Events() {
			created, ok := e.(elolifecycle.NoteCreated)
			if !ok || processed[created.Path] {
				continue
			}
			processed[created.Path] = true
			slog.Debug("watch event", "event", e.String())

			res, err := app.Service.ApplyTemplate(ctx, created.Path, enrich.ApplyOptions{Template: watchTemplate})
			if err != nil {
				slog.Error("apply failed", "path", created.Path, "error", err)
				continue
			}
			processed[res.Path] = true
			printResult(cmd.OutOrStdout(), res)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "Folder to watch (default: the configured inbox)")
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "Vault-relative glob of notes to process (default: <dir>/**/*.md)")
	watchCmd.Flags().StringVarP(&watchTemplate, "template", "t", "", "Template name (default: ask)")
}
