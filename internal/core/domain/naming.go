package domain

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Cache directory naming. Names are derived purely from an artifact's
// identity key, so the same key always maps to the same directory. Hash
// collisions between distinct keys are accepted as vanishingly unlikely and
// are not actively detected.
const (
	// DotAar suffixes directories holding a single unpacked AAR.
	DotAar = ".aar"
	// DotMergedAar suffixes directories holding the merged content of all
	// AARs sharing a library key. Merged directories are regenerated on
	// every pass, never patched.
	DotMergedAar = ".mergedaar"

	// StampFileName is the sentinel file inside a raw AAR directory whose
	// modification time mirrors the source artifact's. Directory mtimes are
	// too brittle for staleness checks since they change on any child
	// mutation.
	StampFileName = "aar.timestamp"

	// ManifestFileName duplicates across AARs of the same library and is
	// expected to collide during merging.
	ManifestFileName = "AndroidManifest.xml"

	jarsDirName   = "jars"
	resDirName    = "res"
	mergedJarName = "classes_and_libs_merged.jar"
)

// AarDirName returns the cache directory name for a raw unpacked artifact.
func AarDirName(a Artifact) string {
	key := a.CacheKey()
	base := path.Base(filepath.ToSlash(key))
	stem := strings.TrimSuffix(base, path.Ext(base))
	return entryName(stem, key) + DotAar
}

// MergedDirName returns the cache directory name for the merged content of
// all artifacts sharing the given library key.
func MergedDirName(libraryKey string) string {
	return entryName(libraryKey, libraryKey) + DotMergedAar
}

func entryName(stem, key string) string {
	return fmt.Sprintf("%s_%x", stem, xxhash.Sum64String(key))
}

// JarFile returns the well-known location of the merged class jar beneath an
// AAR cache directory. The original jar name is unknown at this point; the
// fixed name conveys its origin (classes.jar merged with libs/*.jar).
func JarFile(aarDir string) string {
	return filepath.Join(aarDir, jarsDirName, mergedJarName)
}

// ResDir returns the resource directory beneath an AAR cache directory.
func ResDir(aarDir string) string {
	return filepath.Join(aarDir, resDirName)
}

// StampFile returns the stamp marker path beneath an AAR cache directory.
func StampFile(aarDir string) string {
	return filepath.Join(aarDir, StampFileName)
}
