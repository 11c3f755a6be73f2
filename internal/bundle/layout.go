package bundle

import (
	"path/filepath"

	"github.com/oshokin/appbundler/internal/assets"
	"github.com/oshokin/appbundler/internal/config"
)

const (
	// ContentsDirName is the top level directory inside the bundle.
	ContentsDirName = "Contents"
	// MacOSDirName holds the launcher and native libraries.
	MacOSDirName = "MacOS"
	// JavaDirName holds the classpath.
	JavaDirName = "Java"
	// PlugInsDirName holds the embedded runtime.
	PlugInsDirName = "PlugIns"
	// ResourcesDirName holds icons and localized resources.
	ResourcesDirName = "Resources"
	// InfoPlistName is the manifest file name.
	InfoPlistName = "Info.plist"
	// PkgInfoName is the type and creator marker file name.
	PkgInfoName = "PkgInfo"
)

// Layout holds the paths of a bundle's fixed directories and files.
type Layout struct {
	// Root is <output>/<name>.app.
	Root string
	// Contents is Root/Contents.
	Contents string
	// MacOS is Contents/MacOS.
	MacOS string
	// Java is Contents/Java.
	Java string
	// PlugIns is Contents/PlugIns.
	PlugIns string
	// Resources is Contents/Resources.
	Resources string
}

// NewLayout returns the layout of the bundle described by cfg.
func NewLayout(cfg *config.Config) Layout {
	return LayoutAt(filepath.Join(cfg.OutputDir, cfg.BundleDirName()))
}

// LayoutAt returns the layout of the bundle rooted at root.
func LayoutAt(root string) Layout {
	contents := filepath.Join(root, ContentsDirName)

	return Layout{
		Root:      root,
		Contents:  contents,
		MacOS:     filepath.Join(contents, MacOSDirName),
		Java:      filepath.Join(contents, JavaDirName),
		PlugIns:   filepath.Join(contents, PlugInsDirName),
		Resources: filepath.Join(contents, ResourcesDirName),
	}
}

// InfoPlist returns the manifest path.
func (l Layout) InfoPlist() string {
	return filepath.Join(l.Contents, InfoPlistName)
}

// PkgInfo returns the marker file path.
func (l Layout) PkgInfo() string {
	return filepath.Join(l.Contents, PkgInfoName)
}

// directories lists the skeleton in creation order.
func (l Layout) directories() []string {
	return []string{l.Root, l.Contents, l.MacOS, l.Java, l.PlugIns, l.Resources}
}

// runtimeDirs splits a runtime home directory into its home, contents and
// root directories, e.g. jdk.jdk/Contents/Home.
func runtimeDirs(home string) (homeDir, contentsDir, rootDir string) {
	homeDir = filepath.Clean(home)
	contentsDir = filepath.Dir(homeDir)
	rootDir = filepath.Dir(contentsDir)

	return homeDir, contentsDir, rootDir
}

// RuntimeName is the directory name of the runtime root, two levels above
// the runtime home. It is empty when no runtime is configured.
func RuntimeName(cfg *config.Config) string {
	if cfg.Runtime == nil {
		return ""
	}

	_, _, root := runtimeDirs(cfg.Runtime.Dir)

	return filepath.Base(root)
}

// IconFileName is the icon file name written to Contents/Resources.
func IconFileName(cfg *config.Config) string {
	if cfg.Icon == "" {
		return assets.DefaultIconName
	}

	return filepath.Base(cfg.Icon)
}
