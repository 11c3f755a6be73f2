package assets

import (
	"embed"
	"io/fs"
)

const (
	// LauncherName is the embedded launcher executable.
	LauncherName = "JavaAppLauncher"
	// DefaultIconName is the icon used when the bundle configures none.
	DefaultIconName = "GenericApp.icns"
	// ResourceArchiveName is the archive unpacked into Contents/Resources.
	ResourceArchiveName = "res.zip"
)

//go:embed files/JavaAppLauncher files/GenericApp.icns files/res.zip
var embedded embed.FS

// FS returns the bundled resources keyed by their names.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		// The embed pattern above guarantees the directory exists.
		panic(err)
	}

	return sub
}
