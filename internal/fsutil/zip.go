package fsutil

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var errUnsafeEntry = errors.New("archive entry escapes destination")

// ExtractZipFromFS unpacks the named zip archive of fsys into destDir.
func ExtractZipFromFS(fsys fs.FS, name, destDir string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}

	return ExtractZip(bytes.NewReader(data), int64(len(data)), destDir)
}

// ExtractZip unpacks a zip archive into destDir, preserving its directory structure.
func ExtractZip(r io.ReaderAt, size int64, destDir string) error {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	for _, f := range archive.File {
		if err = extractZipFile(f, destDir); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}

	return nil
}

func extractZipFile(f *zip.File, destDir string) error {
	destPath := filepath.Join(destDir, filepath.FromSlash(f.Name))
	if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return errUnsafeEntry
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(destPath, DirPermissions)
	}

	src, err := f.Open()
	if err != nil {
		return err
	}

	defer func() {
		_ = src.Close()
	}()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = FilePermissions
	}

	return WriteFile(src, destPath, mode)
}
