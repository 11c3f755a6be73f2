package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oshokin/appbundler/internal/service/inspector"
)

// inspectCmd summarizes an existing bundle.
//
//nolint:gochecknoglobals // Cobra commands are package level by convention.
var inspectCmd = &cobra.Command{
	Use:   "inspect <Name.app>",
	Short: "Summarize the manifest, launcher and classpath of an existing bundle.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		options := &inspector.Options{
			BundlePath: args[0],
			Out:        cmd.OutOrStdout(),
		}

		return inspector.Run(context.Background(), options)
	},
}
