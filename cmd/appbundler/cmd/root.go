package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/appbundler/internal/config"
	"github.com/oshokin/appbundler/internal/logger"
	"github.com/oshokin/appbundler/internal/service/bundler"
	"github.com/oshokin/appbundler/internal/version"
)

var (
	// outputDir overrides output_dir from the bundle description.
	outputDir string
	// logLevel is the minimum level written to stderr.
	logLevel string

	// rootCmd builds a bundle from a description.
	rootCmd = &cobra.Command{
		Use:   "appbundler [config.yaml]",
		Short: "Package a Java application as a macOS .app bundle.",
		Long: `Builds <name>.app from a YAML bundle description.

The bundle receives a launcher, the classpath and native libraries, an optional
embedded Java runtime, icons and an Info.plist describing how to start the JVM.
Any bundle with the same name in the output directory is replaced.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: applyLogLevel,
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &bundler.Options{
				ConfigPath: configPathFromArgs(args),
				OutputDir:  outputDir,
			}

			return bundler.Run(ctx, options)
		},
	}
)

// errInvalidLogLevel is returned for an unknown --log-level value.
var errInvalidLogLevel = errors.New("invalid log level")

// Execute runs the appbundler CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyLogLevel sets the global logger level from --log-level.
func applyLogLevel(_ *cobra.Command, _ []string) error {
	level, ok := logger.ParseLogLevel(logLevel)
	if !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, logLevel)
	}

	logger.SetLevel(level)

	return nil
}

// configPathFromArgs returns the description path argument or the default.
func configPathFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return config.DefaultConfigFilename
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory to write the bundle to, overrides output_dir")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")

	rootCmd.AddCommand(plistCmd, inspectCmd, initCmd)
}
