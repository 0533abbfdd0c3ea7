// Package testutil provides shared test helpers for setting up databases
// and asset roots.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/tavle/internal/assets"
	"github.com/starford/tavle/internal/index"
	"github.com/starford/tavle/internal/store"
)

// tempDBPath creates a temporary SQLite file that is removed on cleanup.
func tempDBPath(t *testing.T, pattern string) string {
	t.Helper()
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

// TestStore creates a temporary entity store that is automatically cleaned up.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(tempDBPath(t, "tavle-test-store-*.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// TestIndex creates a temporary search index that is automatically cleaned up.
func TestIndex(t *testing.T) *index.DB {
	t.Helper()
	idx, err := index.Open(tempDBPath(t, "tavle-test-index-*.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

// TestDataRoot creates a temporary data directory with the full asset layout
// and returns its path together with a store rooted there.
func TestDataRoot(t *testing.T) (string, *assets.Store) {
	t.Helper()
	root := t.TempDir()
	if err := assets.EnsureLayout(root); err != nil {
		t.Fatal(err)
	}
	astore, err := assets.NewStore(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, astore
}
