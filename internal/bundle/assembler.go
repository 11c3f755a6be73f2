package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oshokin/appbundler/internal/assets"
	"github.com/oshokin/appbundler/internal/config"
	"github.com/oshokin/appbundler/internal/fileset"
	"github.com/oshokin/appbundler/internal/fsutil"
	"github.com/oshokin/appbundler/internal/launcher"
	"github.com/oshokin/appbundler/internal/logger"
)

// runtimeMetadata are copied verbatim from the runtime's Contents directory.
//
//nolint:gochecknoglobals // Read-only list.
var runtimeMetadata = []string{MacOSDirName, InfoPlistName}

// Result reports what the Assembler produced and discovered.
type Result struct {
	// Layout holds the paths of the bundle.
	Layout Layout
	// RuntimeName is the embedded runtime directory name, empty without a runtime.
	RuntimeName string
	// IconFile is the application icon file name inside Contents/Resources.
	IconFile string
	// LauncherArchitectures lists the launcher's Mach-O architectures, if it is one.
	LauncherArchitectures []string
}

// Assembler creates bundle directories from a validated configuration.
type Assembler struct {
	// assets provides the launcher, the default icon and the resource archive.
	assets fs.FS
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithAssets replaces the embedded resources, mainly for tests.
func WithAssets(fsys fs.FS) Option {
	return func(a *Assembler) {
		if fsys != nil {
			a.assets = fsys
		}
	}
}

// New returns an Assembler using the embedded resources.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		assets: assets.FS(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// step is one stage of the assembly.
type step struct {
	// name labels log lines and wrapped errors.
	name string
	// run performs the stage.
	run func(ctx context.Context, cfg *config.Config, res *Result) error
}

// Assemble builds <output>/<name>.app from cfg. Any existing bundle with the
// same name is removed first. The first failing step aborts the run.
func (a *Assembler) Assemble(ctx context.Context, cfg *config.Config) (*Result, error) {
	res := &Result{
		Layout:   NewLayout(cfg),
		IconFile: IconFileName(cfg),
	}

	ctx = logger.WithKV(ctx, "bundle", res.Layout.Root)

	steps := []step{
		{"remove previous bundle", a.removePrevious},
		{"create directories", a.createDirectories},
		{"copy launcher", a.copyLauncher},
		{"extract resources", a.extractResources},
		{"copy runtime", a.copyRuntime},
		{"copy classpath", a.copyClassPath},
		{"copy classpath references", a.copyClassPathRef},
		{"copy library path", a.copyLibraryPath},
		{"copy icon", a.copyIcon},
		{"copy document icons", a.copyDocumentIcons},
	}

	for _, s := range steps {
		logger.DebugKV(ctx, "Assembly step", "step", s.name)

		if err := s.run(ctx, cfg, res); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}

	return res, nil
}

func (a *Assembler) removePrevious(ctx context.Context, cfg *config.Config, res *Result) error {
	// Only <output>/<name>.app may be removed.
	if filepath.Dir(res.Layout.Root) != filepath.Clean(cfg.OutputDir) {
		return fmt.Errorf("%w: %q", config.ErrInvalidName, cfg.Name)
	}

	if _, err := os.Lstat(res.Layout.Root); err == nil {
		logger.InfoKV(ctx, "Removing previous bundle", "path", res.Layout.Root)
	}

	return os.RemoveAll(res.Layout.Root)
}

func (a *Assembler) createDirectories(_ context.Context, _ *config.Config, res *Result) error {
	for _, dir := range res.Layout.directories() {
		if err := os.Mkdir(dir, fsutil.DirPermissions); err != nil {
			return err
		}
	}

	return nil
}

func (a *Assembler) copyLauncher(ctx context.Context, cfg *config.Config, res *Result) error {
	dst := filepath.Join(res.Layout.MacOS, cfg.ExecutableName)

	var err error
	if cfg.Launcher != "" {
		err = fsutil.CopyFile(cfg.Launcher, dst)
	} else {
		err = fsutil.CopyFromFS(a.assets, assets.LauncherName, dst, fsutil.ExecutablePermissions)
	}

	if err != nil {
		return err
	}

	if err = os.Chmod(dst, fsutil.ExecutablePermissions); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Copied launcher", "executable", cfg.ExecutableName)

	a.inspectLauncher(ctx, cfg, dst, res)

	return nil
}

// inspectLauncher logs the launcher architectures and warns about configured
// architectures it cannot run. It never fails the assembly.
func (a *Assembler) inspectLauncher(ctx context.Context, cfg *config.Config, path string, res *Result) {
	archs, err := launcher.InspectFile(path)
	if errors.Is(err, launcher.ErrNotMachO) {
		logger.DebugKV(ctx, "Launcher is not a Mach-O executable", "path", path)
		return
	}

	if err != nil {
		logger.WarnKV(ctx, "Unable to inspect launcher", "path", path, "error", err)
		return
	}

	res.LauncherArchitectures = archs

	logger.DebugKV(ctx, "Launcher architectures", "architectures", archs)

	if missing := launcher.Missing(cfg.Architectures, archs); len(missing) > 0 {
		logger.WarnKV(ctx, "Launcher lacks configured architectures", "missing", missing)
	}
}

func (a *Assembler) extractResources(_ context.Context, _ *config.Config, res *Result) error {
	return fsutil.ExtractZipFromFS(a.assets, assets.ResourceArchiveName, res.Layout.Resources)
}

func (a *Assembler) copyRuntime(ctx context.Context, cfg *config.Config, res *Result) error {
	if cfg.Runtime == nil {
		return nil
	}

	home, contents, root := runtimeDirs(cfg.Runtime.Dir)

	pluginContents := filepath.Join(res.Layout.PlugIns, filepath.Base(root), filepath.Base(contents))
	if err := os.MkdirAll(pluginContents, fsutil.DirPermissions); err != nil {
		return err
	}

	for _, name := range runtimeMetadata {
		if err := fsutil.Copy(filepath.Join(contents, name), filepath.Join(pluginContents, name)); err != nil {
			return err
		}
	}

	resolved, err := fileset.Resolve(fileset.Runtime(*cfg.Runtime))
	if err != nil {
		return err
	}

	pluginHome := filepath.Join(pluginContents, filepath.Base(home))
	for _, rel := range resolved.Files {
		src := filepath.Join(home, filepath.FromSlash(rel))
		if err = fsutil.Copy(src, filepath.Join(pluginHome, filepath.FromSlash(rel))); err != nil {
			return err
		}
	}

	res.RuntimeName = filepath.Base(root)

	logger.InfoKV(ctx, "Copied runtime", "runtime", res.RuntimeName, "files", len(resolved.Files))

	return nil
}

func (a *Assembler) copyClassPath(ctx context.Context, cfg *config.Config, res *Result) error {
	return flatten(ctx, cfg.ClassPath, res.Layout.Java)
}

func (a *Assembler) copyClassPathRef(ctx context.Context, cfg *config.Config, res *Result) error {
	for _, src := range cfg.ClassPathRef {
		if err := fsutil.Copy(src, filepath.Join(res.Layout.Java, filepath.Base(src))); err != nil {
			return err
		}
	}

	if len(cfg.ClassPathRef) > 0 {
		logger.InfoKV(ctx, "Copied classpath references", "entries", len(cfg.ClassPathRef))
	}

	return nil
}

func (a *Assembler) copyLibraryPath(ctx context.Context, cfg *config.Config, res *Result) error {
	return flatten(ctx, cfg.LibraryPath, res.Layout.MacOS)
}

func (a *Assembler) copyIcon(_ context.Context, cfg *config.Config, res *Result) error {
	dst := filepath.Join(res.Layout.Resources, res.IconFile)

	if cfg.Icon == "" {
		return fsutil.CopyFromFS(a.assets, assets.DefaultIconName, dst, fsutil.FilePermissions)
	}

	return fsutil.CopyFile(cfg.Icon, dst)
}

func (a *Assembler) copyDocumentIcons(_ context.Context, cfg *config.Config, res *Result) error {
	for _, doc := range cfg.Documents {
		if doc.IconFile == "" {
			continue
		}

		if err := fsutil.CopyFile(doc.IconFile, filepath.Join(res.Layout.Resources, filepath.Base(doc.IconFile))); err != nil {
			return err
		}
	}

	return nil
}

// flatten copies every file selected by the file-sets into dir by base name.
// Later files replace earlier ones with the same name.
func flatten(ctx context.Context, sets []config.FileSet, dir string) error {
	for _, set := range sets {
		resolved, err := fileset.Resolve(set)
		if err != nil {
			return err
		}

		for _, src := range resolved.Paths() {
			dst := filepath.Join(dir, filepath.Base(src))

			if _, statErr := os.Lstat(dst); statErr == nil {
				logger.DebugKV(ctx, "Replacing file from an earlier file-set", "file", filepath.Base(src))
			}

			if err = fsutil.CopyFile(src, dst); err != nil {
				return err
			}
		}

		logger.InfoKV(ctx, "Copied file-set", "dir", set.Dir, "files", len(resolved.Files), "target", filepath.Base(dir))
	}

	return nil
}
