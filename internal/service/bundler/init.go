package bundler

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oshokin/appbundler/internal/config"
	"github.com/oshokin/appbundler/internal/logger"
)

// InitOptions contains inputs for Init.
type InitOptions struct {
	// ConfigPath is where the description is written (defaults to appbundler.yaml).
	ConfigPath string
	// Name is the bundle name; the identifier and main class are derived from it.
	Name string
	// Force overwrites an existing file.
	Force bool
}

var (
	// errConfigExists is returned when Init would overwrite a file without Force.
	errConfigExists = errors.New("bundle description already exists")
	// errNameIsNotSet is returned when Init is called without a bundle name.
	errNameIsNotSet = errors.New("bundle name is not set")
)

// Init writes a bundle description to start from. The file refers to
// directories that usually do not exist yet, so it is not validated.
func Init(ctx context.Context, opts *InitOptions) error {
	ctx = logger.WithName(ctx, "appbundler")

	if opts.Name == "" {
		return errNameIsNotSet
	}

	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigFilename
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return fmt.Errorf("%s: %w", path, errConfigExists)
	}

	if err := config.Save(path, Template(opts.Name)); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Bundle description written", "path", path)

	return nil
}

// Template returns a description of a bundle named name with the common
// fields filled in.
func Template(name string) *config.Config {
	return &config.Config{
		OutputDir:            "build",
		Name:                 name,
		DisplayName:          name,
		Identifier:           "com.example." + name,
		ShortVersion:         config.DefaultShortVersion,
		Version:              config.DefaultVersion,
		MinimumSystemVersion: "10.13",
		MainClassName:        "com.example." + name + ".Main",
		ClassPath: []config.FileSet{
			{Dir: "lib", Includes: []string{"**/*.jar"}},
		},
		Options: []config.Option{
			{Value: "-Xmx512m"},
			{Name: "apple.laf.useScreenMenuBar", Value: "-Dapple.laf.useScreenMenuBar=true"},
		},
		Architectures: []string{"arm64", "x86_64"},
	}
}
