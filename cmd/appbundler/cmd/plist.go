package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/appbundler/internal/logger"
	"github.com/oshokin/appbundler/internal/service/bundler"
)

// plistCmd prints the manifest a build would write.
//
//nolint:gochecknoglobals // Cobra commands are package level by convention.
var plistCmd = &cobra.Command{
	Use:   "plist [config.yaml]",
	Short: "Print the Info.plist for a bundle description without building it.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Keep stdout clean for redirection; only warnings and errors reach stderr.
		ctx := logger.WithMinLevel(context.Background(), zapcore.WarnLevel)

		options := &bundler.Options{
			ConfigPath: configPathFromArgs(args),
		}

		return bundler.Render(ctx, options, cmd.OutOrStdout())
	},
}
