package state_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"

	"github.com/pge-bw/aarcache/internal/adapters/state"
)

func TestStore_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	storePath := filepath.Join(tmpDir, state.DefaultFileName)

	store := state.NewStore(storePath)
	snapshot := map[string]digest.Digest{
		"outputs/foo.aar": digest.FromString("foo"),
		"outputs/foo.jar": digest.FromString("foo jar"),
	}
	if err := store.Save(snapshot); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh store instance reading the same file sees the same snapshot.
	got, err := state.NewStore(storePath).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(snapshot) {
		t.Fatalf("expected %d entries, got %d", len(snapshot), len(got))
	}
	for key, want := range snapshot {
		if got[key] != want {
			t.Errorf("entry %q = %q, want %q", key, got[key], want)
		}
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := state.NewStore(filepath.Join(t.TempDir(), "missing.json"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty snapshot, got %v", got)
	}
}

func TestStore_LoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := state.NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty snapshot, got %v", got)
	}
}

func TestStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := state.NewStore(path).Load(); err == nil {
		t.Error("expected error for corrupt snapshot")
	}
}

func TestStore_SaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", state.DefaultFileName)

	if err := state.NewStore(path).Save(map[string]digest.Digest{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected snapshot file to exist: %v", err)
	}
}
