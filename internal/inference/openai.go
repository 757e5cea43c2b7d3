package inference

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/conduitapp/conduit/internal/apperr"
)

// OpenAI proxies chat and embedding calls to an OpenAI-compatible
// upstream (a hosted API or a local server such as Ollama). The base
// URL and model names come from configuration.
type OpenAI struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
}

// NewOpenAI creates the backend. baseURL may be empty for the default
// endpoint; apiKey may be empty for local upstreams that ignore it.
func NewOpenAI(baseURL, apiKey, chatModel, embeddingModel string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client:         openai.NewClientWithConfig(cfg),
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
	}
}

// Complete forwards the conversation to the upstream chat endpoint.
func (o *OpenAI) Complete(ctx context.Context, messages []Message, params Params) (*Reply, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.chatModel,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: chat completion: %v", apperr.ErrInferenceUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: upstream returned no choices", apperr.ErrInferenceUnavailable)
	}
	choice := resp.Choices[0]
	return &Reply{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
	}, nil
}

// Embed forwards the inputs to the upstream embeddings endpoint.
func (o *OpenAI) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(o.embeddingModel),
		Input: inputs,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: embeddings: %v", apperr.ErrInferenceUnavailable, err)
	}
	out := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("%w: upstream returned out-of-range index %d", apperr.ErrInferenceUnavailable, d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}
