// Package fsutil holds the filesystem primitives used to assemble bundles.
//
// Copy preserves directory structure, recreates symbolic links and
// overwrites existing files. Extraction of zip archives creates parent
// directories as needed and refuses entries that would escape the target.
package fsutil
