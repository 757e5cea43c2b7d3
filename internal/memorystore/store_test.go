package memorystore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/conduitapp/conduit/internal/apperr"
	"github.com/conduitapp/conduit/internal/storage"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return New(fs), dir
}

func TestCreateAndGet(t *testing.T) {
	s, _ := tempStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Note A", "hello world", []string{"x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("empty id")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("created_at %v != updated_at %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Note A" || got.Content != "hello world" {
		t.Errorf("got %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "x" {
		t.Errorf("tags = %v", got.Tags)
	}
	if !got.Equal(created) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, created)
	}
}

func TestGetUnknownID(t *testing.T) {
	s, _ := tempStore(t)
	_, err := s.Get(context.Background(), "b5bvcff1-0000-0000-0000-000000000000")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteLifecycle(t *testing.T) {
	s, _ := tempStore(t)
	ctx := context.Background()

	m, err := s.Create(ctx, "Note A", "hello world", []string{"x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, m.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, m.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second Delete: err = %v, want ErrNotFound", err)
	}
	results, err := s.Search(ctx, "hello")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if r.ID == m.ID {
			t.Error("deleted memory still surfaced by search")
		}
	}
}

func TestListEmptyStore(t *testing.T) {
	s, _ := tempStore(t)
	memories, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(memories) != 0 {
		t.Errorf("len = %d, want 0", len(memories))
	}
}

func TestListSkipsCorruptFile(t *testing.T) {
	s, dir := tempStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "ok", "fine", nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// A file without the frontmatter delimiter must be skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "corrupt.md"), []byte("no header here"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	memories, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(memories) != 1 {
		t.Errorf("len = %d, want 1", len(memories))
	}
	results, err := s.Search(ctx, "no header")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("search surfaced corrupt entry: %v", results)
	}
}

func TestGetCorruptFile(t *testing.T) {
	s, dir := tempStore(t)
	id := "0c7e2f7a-9a1b-4a6e-b6a3-1f2e3d4c5b6a"
	if err := os.WriteFile(filepath.Join(dir, id+".md"), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := s.Get(context.Background(), id)
	if !errors.Is(err, apperr.ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	s, _ := tempStore(t)
	ctx := context.Background()

	_, _ = s.Create(ctx, "Shopping List", "buy MILK", []string{"Errands"})
	_, _ = s.Create(ctx, "Meeting notes", "quarterly review", []string{"work"})

	cases := map[string]int{
		"milk":     1, // content, case-folded
		"SHOPPING": 1, // title, case-folded
		"errands":  1, // tag
		"e":        2, // substring in both
		"zzz":      0,
	}
	for q, want := range cases {
		got, err := s.Search(ctx, q)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(got) != want {
			t.Errorf("Search(%q) = %d results, want %d", q, len(got), want)
		}
	}
}

func TestSearchMatchesListSubset(t *testing.T) {
	s, _ := tempStore(t)
	ctx := context.Background()

	_, _ = s.Create(ctx, "alpha", "one", nil)
	_, _ = s.Create(ctx, "beta", "two", nil)
	_, _ = s.Create(ctx, "gamma", "one two", nil)

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	hits, err := s.Search(ctx, "one")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	inList := make(map[string]bool, len(all))
	for _, m := range all {
		inList[m.ID] = true
	}
	if len(hits) != 2 {
		t.Errorf("hits = %d, want 2", len(hits))
	}
	for _, h := range hits {
		if !inList[h.ID] {
			t.Errorf("search hit %s not in list", h.ID)
		}
	}
}

func TestSearchByTag(t *testing.T) {
	s, _ := tempStore(t)
	ctx := context.Background()

	_, _ = s.Create(ctx, "a", "", []string{"Work", "urgent"})
	_, _ = s.Create(ctx, "b", "", []string{"home"})

	got, err := s.SearchByTag(ctx, "work")
	if err != nil {
		t.Fatalf("SearchByTag: %v", err)
	}
	if len(got) != 1 || got[0].Title != "a" {
		t.Errorf("got %v", got)
	}
	// Exact tag match only, not substring.
	got, err = s.SearchByTag(ctx, "wor")
	if err != nil {
		t.Fatalf("SearchByTag: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("substring matched a tag: %v", got)
	}
}

func TestUpdate(t *testing.T) {
	s, _ := tempStore(t)
	ctx := context.Background()

	m, err := s.Create(ctx, "before", "old body", []string{"a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	updated, err := s.Update(ctx, m.ID, "after", "new body", []string{"b", "c"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != m.ID {
		t.Errorf("id changed: %s -> %s", m.ID, updated.ID)
	}
	if !updated.CreatedAt.Equal(m.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", m.CreatedAt, updated.CreatedAt)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Errorf("updated_at %v before created_at %v", updated.UpdatedAt, updated.CreatedAt)
	}
	got, _ := s.Get(ctx, m.ID)
	if got.Title != "after" || got.Content != "new body" || len(got.Tags) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s, _ := tempStore(t)
	_, err := s.Update(context.Background(), "missing", "t", "c", nil)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestConcurrentCreatesDistinctIDs(t *testing.T) {
	s, _ := tempStore(t)
	ctx := context.Background()

	const n = 50
	ids := make([]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			m, err := s.Create(ctx, "concurrent", "body", nil)
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			ids[i] = m.ID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		if id == "" {
			continue
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
		if _, err := s.Get(ctx, id); err != nil {
			t.Errorf("Get(%s): %v", id, err)
		}
	}
	if len(seen) != n {
		t.Errorf("distinct ids = %d, want %d", len(seen), n)
	}
}
