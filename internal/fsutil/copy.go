package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// DirPermissions is used for every directory created in a bundle.
	DirPermissions os.FileMode = 0o755

	// FilePermissions is used for files written from embedded assets.
	FilePermissions os.FileMode = 0o644

	// ExecutablePermissions marks a file runnable by everybody.
	ExecutablePermissions os.FileMode = 0o755
)

// Copy copies src to dst. Directories are copied recursively, symbolic
// links are recreated rather than followed and regular files overwrite
// whatever file already sits at dst.
func Copy(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		return copySymlink(src, dst)
	case info.IsDir():
		return copyDir(src, dst, info.Mode().Perm())
	default:
		return CopyFile(src, dst)
	}
}

// CopyFile copies the contents and permission bits of the regular file src
// to dst, creating parent directories. Symbolic links in src are followed.
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}

	defer func() {
		_ = srcFile.Close()
	}()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	if info.IsDir() {
		return fmt.Errorf("copy %s: %w", src, errIsDirectory)
	}

	return WriteFile(srcFile, dst, info.Mode().Perm())
}

// WriteFile streams r into dst with the given permissions, replacing any
// existing file and creating parent directories.
func WriteFile(r io.Reader, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), DirPermissions); err != nil {
		return err
	}

	if err := removeExisting(dst); err != nil {
		return err
	}

	dstFile, err := os.OpenFile(filepath.Clean(dst), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err = io.Copy(dstFile, r); err != nil {
		_ = dstFile.Close()

		return err
	}

	if err = dstFile.Close(); err != nil {
		return err
	}

	// The umask may have narrowed mode on creation.
	return os.Chmod(dst, mode)
}

// CopyFromFS copies the named file of fsys to dst.
func CopyFromFS(fsys fs.FS, name, dst string, mode os.FileMode) error {
	f, err := fsys.Open(name)
	if err != nil {
		return err
	}

	defer func() {
		_ = f.Close()
	}()

	return WriteFile(f, dst, mode)
}

var errIsDirectory = errors.New("is a directory")

func copyDir(src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(dst, mode|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err = Copy(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(dst), DirPermissions); err != nil {
		return err
	}

	if err = removeExisting(dst); err != nil {
		return err
	}

	return os.Symlink(target, dst)
}

// removeExisting deletes a non-directory entry at path so it can be replaced.
func removeExisting(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}

	if info.IsDir() {
		return fmt.Errorf("replace %s: %w", path, errIsDirectory)
	}

	return os.Remove(path)
}
