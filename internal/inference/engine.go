// Package inference defines the pluggable capability behind the chat
// and embeddings endpoints. The translator depends only on Engine; the
// concrete backend is chosen from configuration at startup.
package inference

import "context"

// Message is a role-tagged chat message.
type Message struct {
	Role    string
	Content string
}

// Params are the generation parameters forwarded to the backend.
type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Reply is a completed assistant turn.
type Reply struct {
	Content      string
	FinishReason string
}

// Engine produces chat replies and embedding vectors. Implementations
// must be safe for concurrent use and honor ctx cancellation.
type Engine interface {
	// Complete produces one assistant reply for the message sequence.
	Complete(ctx context.Context, messages []Message, params Params) (*Reply, error)
	// Embed produces one vector per input text.
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}
