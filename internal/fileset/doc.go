// Package fileset resolves Ant-style file-sets into ordered lists of files.
//
// Patterns are matched with doublestar against slash separated paths
// relative to the file-set directory. A trailing slash selects the whole
// subtree, an empty include list selects everything and excludes always
// win. The runtime file-set additionally carries the fixed include and
// exclude lists that keep non-redistributable parts of a JDK out of the
// bundle.
package fileset
