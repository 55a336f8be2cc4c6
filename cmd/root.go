package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tristendillon/pydeploy/core/cache"
	"github.com/tristendillon/pydeploy/core/config"
	"github.com/tristendillon/pydeploy/core/logger"
)

var rootCmd = &cobra.Command{
	Use:   "pydeploy",
	Short: "Package Python scripts into standalone executables with PyInstaller.",
	Long: `pydeploy builds and runs PyInstaller command lines for a Python script.
It detects the script's imports to suggest modules that can be left out of the
bundle, previews the exact command, and runs it with progress reporting.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger.IsVerbose() {
			cache.GetCache().LogStats()
		}
		if logCloser != nil {
			_ = logger.Sync()
			logCloser.Close()
		}
	},
}

var logfile string
var verbose bool

var (
	appConfig *config.Config
	logCloser io.Closer
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg

	logger.SetVerbose(verbose || cfg.Verbose)
	if logfile != "" {
		closer, err := logger.SetLogFile(logfile)
		if err != nil {
			return err
		}
		logCloser = closer
	}
	logger.Debug("%s called", cmd.Name())
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}
