// Package codec serializes memories to and from their on-disk Markdown
// form: a YAML frontmatter block with the structured fields, a blank
// line, then the body verbatim. The format is meant to stay editable in
// a plain text editor, so no binary framing and no escaping of the body.
package codec

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/conduitapp/conduit/internal/apperr"
	"github.com/conduitapp/conduit/internal/models"
)

const delim = "---"

// frontmatter is the YAML header schema. Title and the timestamps are
// pointers so a missing key can be told apart from a zero value.
type frontmatter struct {
	ID        string   `yaml:"id"`
	Title     *string  `yaml:"title"`
	Tags      []string `yaml:"tags"`
	CreatedAt *string  `yaml:"created_at"`
	UpdatedAt *string  `yaml:"updated_at"`
}

// Encode renders a memory as frontmatter plus body. It succeeds for any
// well-formed memory.
func Encode(m *models.Memory) []byte {
	title := m.Title
	created := m.CreatedAt.Format(time.RFC3339Nano)
	updated := m.UpdatedAt.Format(time.RFC3339Nano)
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}

	header, err := yaml.Marshal(frontmatter{
		ID:        m.ID,
		Title:     &title,
		Tags:      tags,
		CreatedAt: &created,
		UpdatedAt: &updated,
	})
	if err != nil {
		// yaml.Marshal of plain strings and a string slice cannot fail.
		panic(fmt.Sprintf("codec: marshal frontmatter: %v", err))
	}

	var buf bytes.Buffer
	buf.Grow(len(header) + len(m.Content) + 2*len(delim) + 3)
	buf.WriteString(delim + "\n")
	buf.Write(header)
	buf.WriteString(delim + "\n\n")
	buf.WriteString(m.Content)
	return buf.Bytes()
}

// Decode parses an on-disk memory. Every failure wraps apperr.ErrDecode
// so callers can classify it without inspecting the message.
func Decode(data []byte) (*models.Memory, error) {
	text := string(data)
	if !strings.HasPrefix(text, delim+"\n") {
		return nil, fmt.Errorf("%w: missing frontmatter delimiter", apperr.ErrDecode)
	}
	rest := text[len(delim)+1:]
	end := strings.Index(rest, "\n"+delim+"\n")
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated frontmatter", apperr.ErrDecode)
	}
	header := rest[:end+1]
	body := rest[end+len(delim)+2:]
	// Encode writes a single blank line between header and body.
	body = strings.TrimPrefix(body, "\n")

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrDecode, err)
	}

	if fm.ID == "" {
		return nil, fmt.Errorf("%w: missing id", apperr.ErrDecode)
	}
	if fm.Title == nil {
		return nil, fmt.Errorf("%w: missing title", apperr.ErrDecode)
	}
	created, err := parseTimestamp("created_at", fm.CreatedAt)
	if err != nil {
		return nil, err
	}
	updated, err := parseTimestamp("updated_at", fm.UpdatedAt)
	if err != nil {
		return nil, err
	}

	tags := fm.Tags
	if tags == nil {
		tags = []string{}
	}

	return &models.Memory{
		ID:        fm.ID,
		Title:     *fm.Title,
		Content:   body,
		Tags:      tags,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func parseTimestamp(field string, raw *string) (time.Time, error) {
	if raw == nil || *raw == "" {
		return time.Time{}, fmt.Errorf("%w: missing %s", apperr.ErrDecode, field)
	}
	t, err := time.Parse(time.RFC3339Nano, *raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad %s: %v", apperr.ErrDecode, field, err)
	}
	return t, nil
}
