package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/elo"
)

var (
	verbose    bool
	vaultPath  string
	configPath string
	language   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "elo",
	Short: "Template, merge and enrich the frontmatter of Markdown notes",
	Long: `elo applies templates to the notes of a Markdown vault. It merges the
template's metadata with the note's, asks a language model for the gaps,
adds images and context, and files the note where its links say it belongs.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "Vault directory (default: nearest folder with .obsidian, .elo or .git)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default: <vault>/.elo/config.toml)")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "Message and prompt language")
}

// openApp loads the settings and assembles the app for a command.
func openApp(cmd *cobra.Command, opts ...elo.Option) (*elo.App, error) {
	vault := vaultPath
	if vault == "" && os.Getenv("ELO_VAULT") == "" {
		if root, err := elo.FindVaultRoot("."); err == nil {
			vault = root
		}
	}

	cfg, warnings, err := elo.LoadConfig(elo.LoadOptions{Vault: vault, File: configPath})
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		slog.Warn(w)
	}
	if language != "" {
		cfg.Language = language
	}

	base := []elo.Option{
		elo.WithConfig(cfg),
		elo.WithLogger(slog.Default()),
		elo.WithConsole(cmd.InOrStdin(), cmd.ErrOrStderr()),
		elo.WithMustExist(true),
	}
	return elo.New(cmd.Context(), append(base, opts...)...)
}
