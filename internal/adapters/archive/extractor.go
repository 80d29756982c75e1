// Package archive provides zip extraction for AAR files.
package archive

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"go.trai.ch/zerr"

	"github.com/pge-bw/aarcache/internal/core/ports"
)

var _ ports.Extractor = (*ZipExtractor)(nil)

// ZipExtractor implements ports.Extractor for zip-format archives, which is
// what AAR files are.
type ZipExtractor struct{}

// NewZipExtractor creates a new ZipExtractor.
func NewZipExtractor() *ZipExtractor {
	return &ZipExtractor{}
}

// Extract unpacks the archive at src into dest, skipping entries for which
// skip returns true. Entries that would escape dest are rejected.
func (e *ZipExtractor) Extract(src, dest string, skip func(name string) bool) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open archive"), "path", src)
	}
	defer r.Close() //nolint:errcheck // Best effort close in defer

	cleanDest := filepath.Clean(dest)
	for _, f := range r.File {
		if skip != nil && skip(f.Name) {
			continue
		}
		if err := e.extractEntry(f, cleanDest); err != nil {
			return err
		}
	}
	return nil
}

func (e *ZipExtractor) extractEntry(f *zip.File, dest string) error {
	target := filepath.Join(dest, filepath.FromSlash(f.Name))
	if !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return zerr.With(zerr.New("archive entry escapes destination"), "entry", f.Name)
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o750); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", target)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create parent directory"), "path", target)
	}

	rc, err := f.Open()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open archive entry"), "entry", f.Name)
	}
	defer rc.Close() //nolint:errcheck // Best effort close in defer

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) //nolint:gosec // Path is validated above
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", target)
	}

	//nolint:gosec // AARs come from the project's own build outputs
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to extract archive entry"), "entry", f.Name)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close file"), "path", target)
	}
	return nil
}
