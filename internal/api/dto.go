package api

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/conduitapp/conduit/internal/models"
)

// Model is one entry in the model catalog.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the response for GET /v1/models.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// ChatMessage is a role-tagged message in a completion response.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequestMessage is an inbound message. Content is a pointer so a
// null or absent content is rejected rather than silently read as "".
type ChatRequestMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// Validate checks the role and content of a single message.
func (m ChatRequestMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Role, validation.Required,
			validation.In("system", "user", "assistant", "tool")),
		validation.Field(&m.Content, validation.NotNil),
	)
}

// ChatCompletionRequest is the body of POST /v1/chat/completions.
type ChatCompletionRequest struct {
	Model       string               `json:"model"`
	Messages    []ChatRequestMessage `json:"messages"`
	Temperature float32              `json:"temperature,omitempty"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
}

// Validate rejects an empty message sequence and any malformed entry.
func (r ChatCompletionRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Messages, validation.Required, validation.Length(1, 0)),
	); err != nil {
		return err
	}
	for i, m := range r.Messages {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("messages[%d]: %w", i, err)
		}
	}
	return nil
}

// ChatCompletionChoice is one generated alternative.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage carries the synthesized token counters.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse is the envelope for a completed chat turn.
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   Usage                  `json:"usage"`
}

// EmbeddingInput accepts either a single string or an array of strings,
// matching what OpenAI clients send.
type EmbeddingInput []string

// UnmarshalJSON decodes a bare string into a one-element slice.
func (e *EmbeddingInput) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*e = EmbeddingInput{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("input must be a string or an array of strings")
	}
	*e = EmbeddingInput(many)
	return nil
}

// EmbeddingRequest is the body of POST /v1/embeddings.
type EmbeddingRequest struct {
	Model string         `json:"model"`
	Input EmbeddingInput `json:"input"`
}

// Validate rejects an empty input list.
func (r EmbeddingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Input, validation.Required, validation.Length(1, 0)),
	)
}

// EmbeddingData is one vector in an embeddings response.
type EmbeddingData struct {
	Index     int       `json:"index"`
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
}

// EmbeddingUsage carries the synthesized counters for embeddings.
type EmbeddingUsage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// EmbeddingResponse is the envelope for POST /v1/embeddings.
type EmbeddingResponse struct {
	Object string          `json:"object"`
	Data   []EmbeddingData `json:"data"`
	Model  string          `json:"model"`
	Usage  EmbeddingUsage  `json:"usage"`
}

// MemoryRequest is the body for creating or updating a memory. Title is
// a pointer: it must be present in the JSON, but may be empty.
type MemoryRequest struct {
	Title   *string  `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Validate requires the title key to be present.
func (r MemoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NotNil),
	)
}

// SearchRequest is the body of POST /api/memories/search. When Tag is
// set it takes precedence and matches exactly; otherwise Query matches
// as a case-insensitive substring.
type SearchRequest struct {
	Query string `json:"query"`
	Tag   string `json:"tag,omitempty"`
}

// Validate requires at least one of query or tag.
func (r SearchRequest) Validate() error {
	if r.Query == "" && r.Tag == "" {
		return fmt.Errorf("either query or tag is required")
	}
	return nil
}

// MemoryView is the API view of a record; it matches the domain type
// field for field.
type MemoryView = models.Memory
