package inspector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"howett.net/plist"

	"github.com/oshokin/appbundler/internal/bundle"
	"github.com/oshokin/appbundler/internal/launcher"
	"github.com/oshokin/appbundler/internal/logger"
	"github.com/oshokin/appbundler/internal/manifest"
)

// Options contains inputs for the inspector entry point.
type Options struct {
	// BundlePath is the <name>.app directory.
	BundlePath string
	// Out receives the summary.
	Out io.Writer
}

// Info is the part of Info.plist the summary reports.
type Info struct {
	Name          string            `plist:"CFBundleName"`
	DisplayName   string            `plist:"CFBundleDisplayName"`
	Identifier    string            `plist:"CFBundleIdentifier"`
	Executable    string            `plist:"CFBundleExecutable"`
	IconFile      string            `plist:"CFBundleIconFile"`
	PackageType   string            `plist:"CFBundlePackageType"`
	Signature     string            `plist:"CFBundleSignature"`
	ShortVersion  string            `plist:"CFBundleShortVersionString"`
	Version       string            `plist:"CFBundleVersion"`
	Runtime       string            `plist:"JVMRuntime"`
	MainClassName string            `plist:"JVMMainClassName"`
	Options       []string          `plist:"JVMOptions"`
	DefaultOpts   map[string]string `plist:"JVMDefaultOptions"`
	Arguments     []string          `plist:"JVMArguments"`
	Architectures []string          `plist:"LSArchitecturePriority"`
	Documents     []map[string]any  `plist:"CFBundleDocumentTypes"`
}

// Summary describes an inspected bundle.
type Summary struct {
	// Info is the decoded manifest.
	Info Info
	// PkgInfo is the raw contents of Contents/PkgInfo.
	PkgInfo string
	// ClassPath lists the entries of Contents/Java.
	ClassPath []string
	// LauncherArchitectures lists the launcher's Mach-O architectures, if it is one.
	LauncherArchitectures []string
	// Problems lists inconsistencies found in the bundle.
	Problems []string
}

var (
	// errBundlePathIsNotSet is returned when no bundle is given.
	errBundlePathIsNotSet = errors.New("bundle path is not set")
	// errOutputIsNotSet is returned when the summary has nowhere to go.
	errOutputIsNotSet = errors.New("output writer is not set")
)

// Run inspects the bundle and prints the summary.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "inspector")

	if opts.Out == nil {
		return errOutputIsNotSet
	}

	summary, err := Inspect(ctx, opts.BundlePath)
	if err != nil {
		return err
	}

	return summary.Print(opts.Out)
}

// Inspect reads the manifest, PkgInfo, classpath and launcher of the bundle
// at path. Missing optional parts are reported as problems, not errors.
func Inspect(ctx context.Context, path string) (*Summary, error) {
	if path == "" {
		return nil, errBundlePathIsNotSet
	}

	layout := bundle.LayoutAt(filepath.Clean(path))

	data, err := os.ReadFile(layout.InfoPlist())
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	summary := &Summary{}
	if _, err = plist.Unmarshal(data, &summary.Info); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	pkgInfo, err := os.ReadFile(layout.PkgInfo())
	if err != nil {
		summary.problem("PkgInfo is missing")
	} else {
		summary.PkgInfo = string(pkgInfo)
	}

	if want := summary.Info.PackageType + summary.Info.Signature; summary.PkgInfo != "" && summary.PkgInfo != want {
		summary.problem(fmt.Sprintf("PkgInfo %q does not match manifest %q", summary.PkgInfo, want))
	}

	if summary.Info.PackageType != manifest.PackageType {
		summary.problem(fmt.Sprintf("package type is %q", summary.Info.PackageType))
	}

	summary.ClassPath = listDir(layout.Java)

	summary.checkLauncher(ctx, layout)
	summary.checkRuntime(layout)

	return summary, nil
}

func (s *Summary) checkLauncher(ctx context.Context, layout bundle.Layout) {
	if s.Info.Executable == "" {
		s.problem("CFBundleExecutable is not set")
		return
	}

	archs, err := launcher.InspectFile(filepath.Join(layout.MacOS, s.Info.Executable))

	switch {
	case errors.Is(err, os.ErrNotExist):
		s.problem(fmt.Sprintf("executable %s is missing", s.Info.Executable))
	case errors.Is(err, launcher.ErrNotMachO):
		logger.DebugKV(ctx, "Launcher is not a Mach-O executable", "executable", s.Info.Executable)
	case err != nil:
		s.problem(fmt.Sprintf("executable %s: %v", s.Info.Executable, err))
	default:
		s.LauncherArchitectures = archs

		if missing := launcher.Missing(s.Info.Architectures, archs); len(missing) > 0 {
			s.problem("launcher lacks architectures " + strings.Join(missing, ", "))
		}
	}
}

func (s *Summary) checkRuntime(layout bundle.Layout) {
	if s.Info.Runtime == "" {
		return
	}

	if _, err := os.Stat(filepath.Join(layout.PlugIns, s.Info.Runtime)); err != nil {
		s.problem(fmt.Sprintf("runtime %s is missing from PlugIns", s.Info.Runtime))
	}
}

func (s *Summary) problem(message string) {
	s.Problems = append(s.Problems, message)
}

// Print writes the summary as aligned name/value lines.
func (s *Summary) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"Name", s.Info.Name},
		{"Display name", s.Info.DisplayName},
		{"Identifier", s.Info.Identifier},
		{"Version", s.Info.ShortVersion + " (" + s.Info.Version + ")"},
		{"Executable", s.Info.Executable},
		{"Launcher architectures", strings.Join(s.LauncherArchitectures, ", ")},
		{"Icon", s.Info.IconFile},
		{"PkgInfo", s.PkgInfo},
		{"Runtime", s.Info.Runtime},
		{"Main class", s.Info.MainClassName},
		{"JVM options", strings.Join(s.Info.Options, " ")},
		{"Default options", joinSorted(s.Info.DefaultOpts)},
		{"Arguments", strings.Join(s.Info.Arguments, " ")},
		{"Architectures", strings.Join(s.Info.Architectures, ", ")},
		{"Document types", fmt.Sprint(len(s.Info.Documents))},
		{"Classpath", strings.Join(s.ClassPath, ", ")},
	}

	for _, row := range rows {
		if row[1] == "" {
			continue
		}

		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}

	for _, p := range s.Problems {
		if _, err := fmt.Fprintf(tw, "Problem:\t%s\n", p); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// listDir returns the sorted entry names of dir, or nil when it is unreadable.
func listDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names
}

func joinSorted(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+values[key])
	}

	return strings.Join(pairs, " ")
}
