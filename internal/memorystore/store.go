// Package memorystore implements the durable, uniquely-keyed collection
// of memories on top of the storage provider and the codec.
package memorystore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/conduitapp/conduit/internal/apperr"
	"github.com/conduitapp/conduit/internal/codec"
	"github.com/conduitapp/conduit/internal/models"
	"github.com/conduitapp/conduit/internal/storage"
)

// Store owns the on-disk collection of memories. Each record is an
// independently and atomically written file named after its UUID, so
// unrelated records never contend; the RWMutex only serializes
// directory enumeration against mutations.
type Store struct {
	mu    sync.RWMutex
	store storage.Provider
	now   func() time.Time
}

// New creates a store over the given provider.
func New(provider storage.Provider) *Store {
	return &Store{store: provider, now: time.Now}
}

func recordPath(id string) string {
	return id + ".md"
}

// Create generates a fresh UUID, stamps both timestamps to now, and
// durably writes the record. On failure nothing addressable is left
// behind (the provider writes via temp file and rename).
func (s *Store) Create(_ context.Context, title, content string, tags []string) (*models.Memory, error) {
	if tags == nil {
		tags = []string{}
	}
	now := s.now().UTC()
	m := &models.Memory{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Write(recordPath(m.ID), codec.Encode(m)); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrWriteFailed, err)
	}
	return m, nil
}

// Get resolves an identifier to its record. A missing file maps to
// ErrNotFound; an existing file that cannot be parsed surfaces its
// decode error.
func (s *Store) Get(_ context.Context, id string) (*models.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

// Update overwrites title, content, and tags of an existing record and
// refreshes updated_at. ID and created_at are unchanged.
func (s *Store) Update(_ context.Context, id, title, content string, tags []string) (*models.Memory, error) {
	if tags == nil {
		tags = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.read(id)
	if err != nil {
		return nil, err
	}
	m := &models.Memory{
		ID:        existing.ID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.store.Write(recordPath(id), codec.Encode(m)); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrWriteFailed, err)
	}
	return m, nil
}

// List enumerates every decodable record. Undecodable files are logged
// and skipped; they never fail the whole call. An empty store yields an
// empty slice.
func (s *Store) List(_ context.Context) ([]*models.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths, err := s.store.List()
	if err != nil {
		return nil, err
	}
	out := make([]*models.Memory, 0, len(paths))
	for _, p := range paths {
		data, err := s.store.Read(p)
		if err != nil {
			// Deleted between enumeration and read; skip.
			continue
		}
		m, err := codec.Decode(data)
		if err != nil {
			slog.Warn("skipping unreadable memory file",
				slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Search returns the records whose title, content, or any tag contains
// the query as a case-insensitive substring. A full scan over List is
// fine at the collection sizes a single user produces; no secondary
// index exists to drift out of sync with the files.
func (s *Store) Search(ctx context.Context, query string) ([]*models.Memory, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := make([]*models.Memory, 0, len(all))
	for _, m := range all {
		if matches(m, q) {
			out = append(out, m)
		}
	}
	return out, nil
}

// SearchByTag returns the records carrying the exact tag, compared
// case-insensitively.
func (s *Store) SearchByTag(ctx context.Context, tag string) ([]*models.Memory, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(tag)
	out := make([]*models.Memory, 0, len(all))
	for _, m := range all {
		for _, t := range m.Tags {
			if strings.ToLower(t) == want {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

// Delete removes the file backing the identifier. After success the
// identifier is permanently not-found.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(recordPath(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Store) read(id string) (*models.Memory, error) {
	data, err := s.store.Read(recordPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return codec.Decode(data)
}

func matches(m *models.Memory, q string) bool {
	if strings.Contains(strings.ToLower(m.Title), q) ||
		strings.Contains(strings.ToLower(m.Content), q) {
		return true
	}
	for _, t := range m.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
