// Package assets embeds the files shipped with appbundler: the generic
// launcher, the default application icon and the archive of localized
// launcher resources. They are looked up by name through FS.
package assets
