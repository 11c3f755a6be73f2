package fileset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oshokin/appbundler/internal/config"
)

// defaultExcludes mirrors the metadata Ant's directory scanner skips by default.
//
//nolint:gochecknoglobals // Read-only pattern table.
var defaultExcludes = []string{
	"**/*~",
	"**/#*#",
	"**/.#*",
	"**/%*%",
	"**/._*",
	"**/CVS/",
	"**/.cvsignore",
	"**/SCCS/",
	"**/vssver.scc",
	"**/.svn/",
	"**/.DS_Store",
	"**/.git/",
	"**/.gitattributes",
	"**/.gitignore",
	"**/.gitmodules",
	"**/.hg/",
	"**/.hgignore",
	"**/.hgsub",
	"**/.hgsubstate",
	"**/.hgtags",
	"**/.bzr/",
	"**/.bzrignore",
}

var (
	// runtimeIncludes is always appended to the runtime file-set includes.
	//nolint:gochecknoglobals // Read-only pattern table.
	runtimeIncludes = []string{
		"jre/",
	}

	// runtimeExcludes keeps launcher binaries and deployment plugins out of the bundle.
	//nolint:gochecknoglobals // Read-only pattern table.
	runtimeExcludes = []string{
		"bin/",
		"jre/bin/",
		"jre/lib/deploy/",
		"jre/lib/deploy.jar",
		"jre/lib/javaws.jar",
		"jre/lib/libdeploy.dylib",
		"jre/lib/libnpjp2.dylib",
		"jre/lib/plugin.jar",
		"jre/lib/security/javaws.policy",
	}
)

// errInvalidPattern is returned for patterns doublestar cannot parse.
var errInvalidPattern = errors.New("invalid pattern")

// Resolved is a file-set turned into concrete files.
type Resolved struct {
	// Dir is the absolute base directory.
	Dir string
	// Files are slash separated paths relative to Dir, in lexical walk order.
	Files []string
}

// Paths returns the absolute paths of the resolved files.
func (r *Resolved) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for _, rel := range r.Files {
		paths = append(paths, filepath.Join(r.Dir, filepath.FromSlash(rel)))
	}

	return paths
}

// Runtime returns a copy of set with the fixed runtime include and exclude patterns appended.
func Runtime(set config.FileSet) config.FileSet {
	set.Includes = append(append([]string(nil), set.Includes...), runtimeIncludes...)
	set.Excludes = append(append([]string(nil), set.Excludes...), runtimeExcludes...)

	return set
}

// Resolve walks the file-set directory and returns every regular file that
// matches an include pattern and no exclude pattern.
func Resolve(set config.FileSet) (*Resolved, error) {
	includes := normalize(set.Includes)
	excludes := normalize(set.Excludes)

	if set.UseDefaultExcludes() {
		excludes = append(excludes, normalize(defaultExcludes)...)
	}

	if err := validatePatterns(includes); err != nil {
		return nil, err
	}

	if err := validatePatterns(excludes); err != nil {
		return nil, err
	}

	info, err := os.Stat(set.Dir)
	if err != nil {
		return nil, fmt.Errorf("file-set directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("file-set directory %s: %w", set.Dir, fs.ErrInvalid)
	}

	resolved := &Resolved{Dir: set.Dir}

	err = filepath.WalkDir(set.Dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if entry.IsDir() || isDirLink(path, entry) {
			return nil
		}

		rel, relErr := filepath.Rel(set.Dir, path)
		if relErr != nil {
			return relErr
		}

		rel = filepath.ToSlash(rel)

		if matchesAny(excludes, rel) {
			return nil
		}

		if len(includes) > 0 && !matchesAny(includes, rel) {
			return nil
		}

		resolved.Files = append(resolved.Files, rel)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", set.Dir, err)
	}

	return resolved, nil
}

// normalize turns Ant's directory shorthand "dir/" into "dir/**".
func normalize(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, pat := range patterns {
		pat = strings.TrimPrefix(filepath.ToSlash(pat), "./")
		if strings.HasSuffix(pat, "/") {
			pat += "**"
		}

		out = append(out, pat)
	}

	return out
}

// isDirLink reports whether entry is a symbolic link to a directory; such
// links are not followed.
func isDirLink(path string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func matchesAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, matchErr := doublestar.Match(pat, rel); matchErr == nil && matched {
			return true
		}
	}

	return false
}

func validatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("%w: %q", errInvalidPattern, pat)
		}
	}

	return nil
}
