// Package api adapts the external OpenAI-shaped vocabulary onto the
// memory store and the inference engine, and serves it over chi.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/conduitapp/conduit/internal/apperr"
	"github.com/conduitapp/conduit/internal/inference"
	"github.com/conduitapp/conduit/internal/memorystore"
	"github.com/conduitapp/conduit/internal/models"
)

// CatalogEntry is a configured model advertised by GET /v1/models.
type CatalogEntry struct {
	ID      string
	OwnedBy string
}

// Service translates between API request/response shapes and the store
// and inference operations. It holds no store lock of its own and never
// calls the engine while inside a store operation.
type Service struct {
	store   *memorystore.Store
	engine  inference.Engine
	catalog []CatalogEntry
	now     func() time.Time
}

// NewService creates the translator.
func NewService(store *memorystore.Store, engine inference.Engine, catalog []CatalogEntry) *Service {
	return &Service{
		store:   store,
		engine:  engine,
		catalog: catalog,
		now:     time.Now,
	}
}

// ListModels returns the configured catalog. It never touches the store.
func (s *Service) ListModels(_ context.Context) *ModelList {
	created := s.now().Unix()
	list := &ModelList{Object: "list", Data: make([]Model, 0, len(s.catalog))}
	for _, entry := range s.catalog {
		list.Data = append(list.Data, Model{
			ID:      entry.ID,
			Object:  "model",
			Created: created,
			OwnedBy: entry.OwnedBy,
		})
	}
	return list
}

// ChatCompletion validates the request, delegates to the engine, and
// wraps the reply in the completion envelope with synthesized usage.
func (s *Service) ChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	messages := make([]inference.Message, len(req.Messages))
	promptChars := 0
	for i, m := range req.Messages {
		messages[i] = inference.Message{Role: m.Role, Content: *m.Content}
		promptChars += len(*m.Content)
	}

	reply, err := s.engine.Complete(ctx, messages, inference.Params{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	promptTokens := estimateTokens(promptChars)
	completionTokens := estimateTokens(len(reply.Content))
	return &ChatCompletionResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: s.now().Unix(),
		Model:   req.Model,
		Choices: []ChatCompletionChoice{{
			Index:        0,
			Message:      ChatMessage{Role: "assistant", Content: reply.Content},
			FinishReason: reply.FinishReason,
		}},
		Usage: Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}

// Embeddings validates the request and delegates to the engine.
func (s *Service) Embeddings(ctx context.Context, req *EmbeddingRequest) (*EmbeddingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	vectors, err := s.engine.Embed(ctx, req.Input)
	if err != nil {
		return nil, err
	}

	data := make([]EmbeddingData, len(vectors))
	promptTokens := 0
	for i, vec := range vectors {
		data[i] = EmbeddingData{Index: i, Object: "embedding", Embedding: vec}
	}
	for _, text := range req.Input {
		promptTokens += estimateTokens(len(text))
	}
	return &EmbeddingResponse{
		Object: "list",
		Data:   data,
		Model:  req.Model,
		Usage:  EmbeddingUsage{PromptTokens: promptTokens, TotalTokens: promptTokens},
	}, nil
}

// CreateMemory validates and stores a new memory.
func (s *Service) CreateMemory(ctx context.Context, req *MemoryRequest) (*MemoryView, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return s.store.Create(ctx, *req.Title, req.Content, req.Tags)
}

// GetMemory fetches one memory by id.
func (s *Service) GetMemory(ctx context.Context, id string) (*MemoryView, error) {
	return s.store.Get(ctx, id)
}

// ListMemories returns every readable memory.
func (s *Service) ListMemories(ctx context.Context) ([]*models.Memory, error) {
	return s.store.List(ctx)
}

// UpdateMemory overwrites an existing memory in full.
func (s *Service) UpdateMemory(ctx context.Context, id string, req *MemoryRequest) (*MemoryView, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return s.store.Update(ctx, id, *req.Title, req.Content, req.Tags)
}

// DeleteMemory removes one memory by id.
func (s *Service) DeleteMemory(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// SearchMemories runs a substring search, or an exact tag match when
// the request carries a tag.
func (s *Service) SearchMemories(ctx context.Context, req *SearchRequest) ([]*models.Memory, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if req.Tag != "" {
		return s.store.SearchByTag(ctx, req.Tag)
	}
	return s.store.Search(ctx, req.Query)
}

// estimateTokens approximates token counts at four characters per
// token. The store tracks no usage, so the counters are synthetic.
func estimateTokens(chars int) int {
	return chars / 4
}
