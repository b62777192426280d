package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlview/internal/app"
	"github.com/philipparndt/stlview/internal/config"
	"github.com/philipparndt/stlview/internal/logger"
	"github.com/philipparndt/stlview/version"
)

var (
	flags *config.Flags
	cfg   *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stlview [file|url]",
	Short: "Interactive viewer for STL models",
	Long: `stlview opens an STL model in a window and frames the camera around it.
Models can be local STL files, OpenSCAD sources or http(s) URLs. Without an
argument the configured default model is fetched.`,
	Args:              cobra.MaximumNArgs(1),
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true, // main prints the error
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		location := ""
		if len(args) == 1 {
			location = args[0]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return app.Run(ctx, cfg, location)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	flags = config.BindFlags(rootCmd.PersistentFlags())
}

// setup loads the config and starts logging before any command runs
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := flags.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(loaded.Logging.Level, loaded.Logging.LogFile); err != nil {
		return err
	}
	cfg = loaded
	return nil
}
