package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oshokin/appbundler/internal/service/bundler"
)

var (
	// initForce allows init to replace an existing description.
	initForce bool

	// initCmd writes a starting bundle description.
	initCmd = &cobra.Command{
		Use:   "init <name> [config.yaml]",
		Short: "Write a bundle description to start from.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			options := &bundler.InitOptions{
				ConfigPath: configPathFromArgs(args[1:]),
				Name:       args[0],
				Force:      initForce,
			}

			return bundler.Init(context.Background(), options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
}
