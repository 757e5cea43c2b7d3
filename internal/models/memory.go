// Package models defines the domain types for Conduit.
package models

import "time"

// Memory is a persisted note: a short title, a free-form Markdown body,
// and a set of opaque tag labels. The ID is assigned at creation and is
// the sole addressing key for the record's lifetime.
type Memory struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Equal reports whether two memories match field for field, including
// tag order. Timestamps compare by instant, not by location.
func (m *Memory) Equal(other *Memory) bool {
	if m.ID != other.ID || m.Title != other.Title || m.Content != other.Content {
		return false
	}
	if len(m.Tags) != len(other.Tags) {
		return false
	}
	for i := range m.Tags {
		if m.Tags[i] != other.Tags[i] {
			return false
		}
	}
	return m.CreatedAt.Equal(other.CreatedAt) && m.UpdatedAt.Equal(other.UpdatedAt)
}
