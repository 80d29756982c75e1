// Package fs provides the os-backed filesystem adapter for the cache engine.
package fs

import (
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"

	"github.com/pge-bw/aarcache/internal/core/ports"
)

var _ ports.FileOps = (*FileOps)(nil)

// FileOps implements ports.FileOps on the local filesystem.
type FileOps struct{}

// New creates a new FileOps.
func New() *FileOps {
	return &FileOps{}
}

// Exists reports whether the path exists.
func (f *FileOps) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MkdirAll creates the directory and any missing parents.
func (f *FileOps) MkdirAll(path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
	}
	return nil
}

// ListDir returns the immediate children of a directory.
func (f *FileOps) ListDir(path string) ([]iofs.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to list directory"), "path", path)
	}
	return entries, nil
}

// ListFilesRecursively returns the paths of all regular files beneath root.
func (f *FileOps) ListFilesRecursively(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to walk directory"), "root", root)
	}
	return files, nil
}

// Copy copies the file at src to dst, overwriting any existing file.
func (f *FileOps) Copy(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source file"), "path", src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination file"), "path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy file"), "src", src)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close destination file"), "path", dst)
	}
	return nil
}

// WriteFile writes data to path, creating or truncating it.
func (f *FileOps) WriteFile(path string, data []byte) error {
	//nolint:gosec // Path is controlled by caller
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
	}
	return nil
}

// RemoveAll deletes the path and everything beneath it.
func (f *FileOps) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove path"), "path", path)
	}
	return nil
}

// ModTime returns the modification time of the file at path.
func (f *FileOps) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	return info.ModTime(), nil
}

// SetModTime sets the modification time of the file at path.
func (f *FileOps) SetModTime(path string, t time.Time) error {
	if err := os.Chtimes(path, t, t); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to set modification time"), "path", path)
	}
	return nil
}
