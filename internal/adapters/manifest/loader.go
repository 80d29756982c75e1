// Package manifest loads the project's declared libraries from a YAML file.
// It plays the role of the library collector: the manifest is the
// authoritative statement of which artifacts the cache should mirror.
package manifest

import (
	"context"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/pge-bw/aarcache/internal/core/domain"
	"github.com/pge-bw/aarcache/internal/core/ports"
)

var _ ports.LibraryCollector = (*Loader)(nil)

// Loader implements ports.LibraryCollector using a YAML manifest file.
type Loader struct {
	path string
}

// NewLoader creates a new Loader reading the manifest at the given path.
func NewLoader(path string) *Loader {
	return &Loader{path: filepath.Clean(path)}
}

// Collect parses the manifest and resolves each library's artifacts.
func (l *Loader) Collect(_ context.Context) (domain.LibrarySet, error) {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.LibrarySet{}, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", l.path)
	}

	var file fileSchema
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.LibrarySet{}, zerr.With(zerr.Wrap(err, "failed to parse manifest"), "path", l.path)
	}

	set := domain.LibrarySet{Project: file.Project}
	baseDir := filepath.Dir(l.path)
	for i, lib := range file.Libraries {
		group, err := l.resolveLibrary(lib, baseDir)
		if err != nil {
			return domain.LibrarySet{}, zerr.With(err, "index", i)
		}
		set.Libraries = append(set.Libraries, group)
	}
	return set, nil
}

func (l *Loader) resolveLibrary(lib librarySchema, baseDir string) (domain.AarAndJar, error) {
	if lib.Key == "" {
		return domain.AarAndJar{}, zerr.New("library key is required")
	}
	if lib.Aar == nil {
		return domain.AarAndJar{}, zerr.With(zerr.New("library has no aar artifact"), "key", lib.Key)
	}

	aar, err := resolveArtifact(*lib.Aar, baseDir)
	if err != nil {
		return domain.AarAndJar{}, zerr.With(err, "key", lib.Key)
	}

	group := domain.AarAndJar{Aar: aar, LibraryKey: lib.Key}
	if lib.Jar != nil {
		jar, err := resolveArtifact(*lib.Jar, baseDir)
		if err != nil {
			return domain.AarAndJar{}, zerr.With(err, "key", lib.Key)
		}
		group.Jar = jar
	}
	return group, nil
}

// resolveArtifact maps a manifest artifact reference to a concrete Artifact,
// local-path-backed or remote-key-backed.
func resolveArtifact(ref artifactSchema, baseDir string) (domain.Artifact, error) {
	switch {
	case ref.Path != "" && ref.Remote != "":
		return nil, zerr.New("artifact cannot be both local and remote")
	case ref.Path != "":
		path := ref.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		return domain.LocalArtifact{Path: path}, nil
	case ref.Remote != "":
		d, err := digest.Parse(ref.Digest)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "remote artifact needs a valid digest"), "remote", ref.Remote)
		}
		return domain.RemoteArtifact{Key: ref.Remote, Digest: d}, nil
	default:
		return nil, zerr.New("artifact needs either a path or a remote key")
	}
}
