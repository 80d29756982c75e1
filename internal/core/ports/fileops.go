// Package ports defines the core interfaces for the application.
package ports

import (
	"io/fs"
	"time"
)

// FileOps is the only filesystem surface the cache engine uses. It is
// swappable for testing.
//
//go:generate go run go.uber.org/mock/mockgen -source=fileops.go -destination=mocks/mock_fileops.go -package=mocks
type FileOps interface {
	// Exists reports whether the path exists.
	Exists(path string) bool

	// MkdirAll creates the directory and any missing parents.
	MkdirAll(path string) error

	// ListDir returns the immediate children of a directory.
	ListDir(path string) ([]fs.DirEntry, error)

	// ListFilesRecursively returns the paths of all regular files beneath
	// root, in an unspecified but exhaustive order.
	ListFilesRecursively(root string) ([]string, error)

	// Copy copies the file at src to dst, overwriting any existing file.
	Copy(src, dst string) error

	// WriteFile writes data to path, creating or truncating it.
	WriteFile(path string, data []byte) error

	// RemoveAll deletes the path and everything beneath it.
	RemoveAll(path string) error

	// ModTime returns the modification time of the file at path.
	ModTime(path string) (time.Time, error)

	// SetModTime sets the modification time of the file at path.
	SetModTime(path string, t time.Time) error
}
