package bundler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/oshokin/appbundler/internal/bundle"
	"github.com/oshokin/appbundler/internal/config"
	"github.com/oshokin/appbundler/internal/logger"
	"github.com/oshokin/appbundler/internal/manifest"
	"github.com/oshokin/appbundler/internal/version"
)

// Options contains inputs for the bundler entry points.
type Options struct {
	// ConfigPath is the bundle description (defaults to appbundler.yaml).
	ConfigPath string
	// OutputDir overrides output_dir from the description when set.
	OutputDir string
	// Assembler builds the bundle directory; nil means one with embedded resources.
	Assembler *bundle.Assembler
}

// errOutputIsNotSet is returned when Render has nowhere to write.
var errOutputIsNotSet = errors.New("output writer is not set")

// Run loads the description, assembles the bundle and writes its manifest
// and PkgInfo.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "appbundler")

	cfg, err := load(opts)
	if err != nil {
		return err
	}

	ctx = logger.WithKV(ctx, "name", cfg.Name)

	warnIfRunning(ctx, cfg.ExecutableName)

	assembler := opts.Assembler
	if assembler == nil {
		assembler = bundle.New()
	}

	logger.InfoKV(ctx, "Assembling bundle", "output_dir", cfg.OutputDir, "appbundler_version", version.Short())

	res, err := assembler.Assemble(ctx, cfg)
	if err != nil {
		return fmt.Errorf("assemble bundle: %w", err)
	}

	doc, err := manifest.Build(cfg)
	if err != nil {
		return err
	}

	if err = manifest.Write(res.Layout.InfoPlist(), doc); err != nil {
		return err
	}

	if err = manifest.WritePkgInfo(res.Layout.PkgInfo(), cfg.Signature); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Bundle created", "path", res.Layout.Root, "runtime", res.RuntimeName)

	return nil
}

// Render writes the manifest of the described bundle to w without touching
// the output directory.
func Render(ctx context.Context, opts *Options, w io.Writer) error {
	if w == nil {
		return errOutputIsNotSet
	}

	ctx = logger.WithName(ctx, "appbundler")

	cfg, err := load(opts)
	if err != nil {
		return err
	}

	doc, err := manifest.Build(cfg)
	if err != nil {
		return err
	}

	if _, err = doc.WriteTo(w); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	logger.DebugKV(ctx, "Manifest rendered", "name", cfg.Name)

	return nil
}

// load reads the description, applies the output override and validates
// the result once.
func load(opts *Options) (*config.Config, error) {
	cfg, err := config.Read(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.OutputDir != "" {
		cfg.OutputDir, err = filepath.Abs(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("resolve output directory: %w", err)
		}
	}

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
