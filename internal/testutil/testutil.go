// Package testutil provides shared test helpers for setting up memory stores.
package testutil

import (
	"testing"

	"github.com/conduitapp/conduit/internal/memorystore"
	"github.com/conduitapp/conduit/internal/storage"
)

// TestStore creates a memory store over a temporary directory that is
// automatically cleaned up.
func TestStore(t *testing.T) (string, *memorystore.Store) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, memorystore.New(fs)
}
