package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/appbundler/internal/assets"
	"github.com/oshokin/appbundler/internal/config"
)

const (
	testLauncher = "#!/bin/sh\nexit 0\n"
	testIcon     = "default-icon"
)

// testAssets returns a small replacement for the embedded resources.
func testAssets(t *testing.T) fstest.MapFS {
	t.Helper()

	var buf bytes.Buffer

	w := zip.NewWriter(&buf)

	f, err := w.Create("en.lproj/Localizable.strings")
	require.NoError(t, err)

	_, err = f.Write([]byte(`"OK" = "OK";`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return fstest.MapFS{
		assets.LauncherName:        {Data: []byte(testLauncher), Mode: 0o755},
		assets.DefaultIconName:     {Data: []byte(testIcon)},
		assets.ResourceArchiveName: {Data: buf.Bytes()},
	}
}

// writeFiles creates files below root from relative path/content pairs.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, contents := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	}
}

// readFile returns the contents of a file in the bundle.
func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

// newConfig returns a validated configuration writing into a fresh directory.
func newConfig(t *testing.T, mutate func(cfg *config.Config)) *config.Config {
	t.Helper()

	cfg := &config.Config{
		OutputDir:     t.TempDir(),
		Name:          "Demo",
		DisplayName:   "Demo Application",
		Identifier:    "com.example.demo",
		MainClassName: "com.example.demo.Main",
	}

	if mutate != nil {
		mutate(cfg)
	}

	require.NoError(t, config.Validate(cfg))

	return cfg
}

// hashTree maps every entry below root to a digest of its type and contents.
func hashTree(t *testing.T, root string) map[string]string {
	t.Helper()

	tree := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, linkErr := os.Readlink(path)
			if linkErr != nil {
				return linkErr
			}

			tree[rel] = "link:" + target
		case d.IsDir():
			tree[rel] = "dir"
		default:
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return readErr
			}

			sum := sha256.Sum256(data)
			tree[rel] = hex.EncodeToString(sum[:])
		}

		return nil
	})
	require.NoError(t, err)

	return tree
}

// TestAssemble_Skeleton creates the fixed directories, the launcher, the resources and the default icon.
func TestAssemble_Skeleton(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t, nil)

	res, err := New(WithAssets(testAssets(t))).Assemble(context.Background(), cfg)
	require.NoError(t, err)

	layout := res.Layout
	require.Equal(t, filepath.Join(cfg.OutputDir, "Demo.app"), layout.Root)

	for _, dir := range layout.directories() {
		info, statErr := os.Stat(dir)
		require.NoError(t, statErr)
		require.True(t, info.IsDir(), dir)
	}

	launcherPath := filepath.Join(layout.MacOS, config.DefaultExecutableName)
	require.Equal(t, testLauncher, readFile(t, launcherPath))

	info, err := os.Stat(launcherPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	require.Equal(t, `"OK" = "OK";`, readFile(t, filepath.Join(layout.Resources, "en.lproj", "Localizable.strings")))

	require.Equal(t, assets.DefaultIconName, res.IconFile)
	require.Equal(t, testIcon, readFile(t, filepath.Join(layout.Resources, assets.DefaultIconName)))

	require.Empty(t, res.RuntimeName)
	require.Empty(t, res.LauncherArchitectures)

	entries, err := os.ReadDir(layout.PlugIns)
	require.NoError(t, err)
	require.Empty(t, entries)
}

// TestAssemble_CustomIconAndExecutable copies the configured icon and renames the launcher.
func TestAssemble_CustomIconAndExecutable(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFiles(t, src, map[string]string{"art/Demo.icns": "custom-icon"})

	cfg := newConfig(t, func(cfg *config.Config) {
		cfg.Icon = filepath.Join(src, "art", "Demo.icns")
		cfg.ExecutableName = "DemoLauncher"
	})

	res, err := New(WithAssets(testAssets(t))).Assemble(context.Background(), cfg)
	require.NoError(t, err)

	require.Equal(t, "Demo.icns", res.IconFile)
	require.Equal(t, "custom-icon", readFile(t, filepath.Join(res.Layout.Resources, "Demo.icns")))
	require.NoFileExists(t, filepath.Join(res.Layout.Resources, assets.DefaultIconName))
	require.FileExists(t, filepath.Join(res.Layout.MacOS, "DemoLauncher"))
	require.NoFileExists(t, filepath.Join(res.Layout.MacOS, config.DefaultExecutableName))
}

// TestAssemble_CustomLauncher copies a launcher from disk and makes it executable.
func TestAssemble_CustomLauncher(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFiles(t, src, map[string]string{"launcher": "native"})

	cfg := newConfig(t, func(cfg *config.Config) {
		cfg.Launcher = filepath.Join(src, "launcher")
	})

	res, err := New(WithAssets(testAssets(t))).Assemble(context.Background(), cfg)
	require.NoError(t, err)

	path := filepath.Join(res.Layout.MacOS, config.DefaultExecutableName)
	require.Equal(t, "native", readFile(t, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

// TestAssemble_ClassPathIsFlattened copies selected files by base name; the later file-set wins.
func TestAssemble_ClassPathIsFlattened(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"first/util.jar":        "first",
		"first/nested/core.jar": "core",
		"first/readme.txt":      "ignored",
		"second/util.jar":       "second",
		"native/libdemo.dylib":  "native",
		"ref/extra.jar":         "extra",
		"ref/classes/a.class":   "class",
	})

	cfg := newConfig(t, func(cfg *config.Config) {
		cfg.ClassPath = []config.FileSet{
			{Dir: filepath.Join(src, "first"), Includes: []string{"**/*.jar"}},
			{Dir: filepath.Join(src, "second")},
		}
		cfg.ClassPathRef = []string{
			filepath.Join(src, "ref", "extra.jar"),
			filepath.Join(src, "ref", "classes"),
		}
		cfg.LibraryPath = []config.FileSet{{Dir: filepath.Join(src, "native")}}
	})

	res, err := New(WithAssets(testAssets(t))).Assemble(context.Background(), cfg)
	require.NoError(t, err)

	java := res.Layout.Java
	require.Equal(t, "second", readFile(t, filepath.Join(java, "util.jar")))
	require.Equal(t, "core", readFile(t, filepath.Join(java, "core.jar")))
	require.NoFileExists(t, filepath.Join(java, "readme.txt"))
	require.NoDirExists(t, filepath.Join(java, "nested"))
	require.Equal(t, "extra", readFile(t, filepath.Join(java, "extra.jar")))
	require.Equal(t, "class", readFile(t, filepath.Join(java, "classes", "a.class")))

	require.Equal(t, "native", readFile(t, filepath.Join(res.Layout.MacOS, "libdemo.dylib")))
}

// TestAssemble_Runtime embeds a runtime without its non-redistributable parts.
func TestAssemble_Runtime(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"jdk1.8.jdk/Contents/Info.plist":                          "runtime-plist",
		"jdk1.8.jdk/Contents/MacOS/libjli.dylib":                  "jli",
		"jdk1.8.jdk/Contents/Home/bin/java":                       "java",
		"jdk1.8.jdk/Contents/Home/lib/tools.jar":                  "tools",
		"jdk1.8.jdk/Contents/Home/jre/bin/java":                   "jre-java",
		"jdk1.8.jdk/Contents/Home/jre/lib/rt.jar":                 "rt",
		"jdk1.8.jdk/Contents/Home/jre/lib/deploy.jar":             "deploy",
		"jdk1.8.jdk/Contents/Home/jre/lib/security/javaws.policy": "policy",
	})

	cfg := newConfig(t, func(cfg *config.Config) {
		cfg.Runtime = &config.FileSet{Dir: filepath.Join(src, "jdk1.8.jdk", "Contents", "Home")}
	})

	res, err := New(WithAssets(testAssets(t))).Assemble(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, "jdk1.8.jdk", res.RuntimeName)
	require.Equal(t, "jdk1.8.jdk", RuntimeName(cfg))

	contents := filepath.Join(res.Layout.PlugIns, "jdk1.8.jdk", "Contents")
	require.Equal(t, "runtime-plist", readFile(t, filepath.Join(contents, "Info.plist")))
	require.Equal(t, "jli", readFile(t, filepath.Join(contents, "MacOS", "libjli.dylib")))
	require.Equal(t, "rt", readFile(t, filepath.Join(contents, "Home", "jre", "lib", "rt.jar")))

	for _, rel := range []string{"bin/java", "lib/tools.jar", "jre/bin/java", "jre/lib/deploy.jar", "jre/lib/security/javaws.policy"} {
		require.NoFileExists(t, filepath.Join(contents, "Home", filepath.FromSlash(rel)), rel)
	}
}

// TestAssemble_DocumentIcons copies document icon files whether or not the application icon is set.
func TestAssemble_DocumentIcons(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFiles(t, src, map[string]string{"icons/doc.icns": "doc-icon"})

	cfg := newConfig(t, func(cfg *config.Config) {
		cfg.BaseDir = src
		cfg.Documents = []config.DocumentType{
			{Name: "Demo Document", Extensions: []string{"demo"}, Icon: "icons/doc.icns"},
			{Name: "Named", Extensions: []string{"named"}, Icon: "SystemIcon"},
		}
	})

	res, err := New(WithAssets(testAssets(t))).Assemble(context.Background(), cfg)
	require.NoError(t, err)

	require.Equal(t, "doc-icon", readFile(t, filepath.Join(res.Layout.Resources, "doc.icns")))
	require.NoFileExists(t, filepath.Join(res.Layout.Resources, "SystemIcon"))
}

// TestAssemble_Idempotent produces the same tree twice and drops stale files.
func TestAssemble_Idempotent(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFiles(t, src, map[string]string{"lib/app.jar": "app"})

	cfg := newConfig(t, func(cfg *config.Config) {
		cfg.ClassPath = []config.FileSet{{Dir: filepath.Join(src, "lib")}}
	})

	assembler := New(WithAssets(testAssets(t)))

	res, err := assembler.Assemble(context.Background(), cfg)
	require.NoError(t, err)

	first := hashTree(t, res.Layout.Root)

	stale := filepath.Join(res.Layout.Java, "stale.jar")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o600))

	res, err = assembler.Assemble(context.Background(), cfg)
	require.NoError(t, err)
	require.NoFileExists(t, stale)
	require.Equal(t, first, hashTree(t, res.Layout.Root))
}

// TestAssemble_MissingFileSetDir fails the assembly.
func TestAssemble_MissingFileSetDir(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t, func(cfg *config.Config) {
		cfg.ClassPath = []config.FileSet{{Dir: filepath.Join(t.TempDir(), "missing")}}
	})

	_, err := New(WithAssets(testAssets(t))).Assemble(context.Background(), cfg)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.ErrorContains(t, err, "copy classpath")
}

// TestAssemble_NameEscapingOutputDir refuses to remove anything outside the output directory.
func TestAssemble_NameEscapingOutputDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	output := filepath.Join(dir, "out")
	keep := filepath.Join(dir, "victim.app", "keep")

	require.NoError(t, os.Mkdir(output, 0o750))
	writeFiles(t, dir, map[string]string{"victim.app/keep": "keep"})

	// Not validated: the Assembler must hold the line on its own.
	cfg := &config.Config{
		OutputDir:      output,
		Name:           "../victim",
		ExecutableName: config.DefaultExecutableName,
	}

	_, err := New(WithAssets(testAssets(t))).Assemble(context.Background(), cfg)
	require.ErrorIs(t, err, config.ErrInvalidName)
	require.FileExists(t, keep)
}

// TestAssemble_EmbeddedAssets runs with the resources compiled into the binary.
func TestAssemble_EmbeddedAssets(t *testing.T) {
	t.Parallel()

	cfg := newConfig(t, nil)

	res, err := New().Assemble(context.Background(), cfg)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(res.Layout.MacOS, config.DefaultExecutableName))
	require.FileExists(t, filepath.Join(res.Layout.Resources, assets.DefaultIconName))
	require.DirExists(t, filepath.Join(res.Layout.Resources, "en.lproj"))
}
