// Package manifest renders the Info.plist and PkgInfo files that
// LaunchServices and the launcher read from a bundle's Contents directory.
package manifest
