package inference

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
)

const stubDimensions = 384

// Stub is a deterministic offline backend. Completions echo the last
// message; embeddings are hash-seeded unit vectors. It exists so the
// whole API works without any model or network dependency.
type Stub struct{}

// NewStub creates the deterministic backend.
func NewStub() *Stub {
	return &Stub{}
}

// Complete echoes the last message back with a fixed preamble.
func (s *Stub) Complete(_ context.Context, messages []Message, _ Params) (*Reply, error) {
	last := messages[len(messages)-1]
	return &Reply{
		Content:      fmt.Sprintf("I received your message: %q. No model backend is configured, so this is a canned reply.", last.Content),
		FinishReason: "stop",
	}, nil
}

// Embed returns a deterministic unit-length vector per input, seeded by
// an FNV hash of the text so identical inputs embed identically.
func (s *Stub) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, text := range inputs {
		out[i] = hashEmbedding(text)
	}
	return out, nil
}

func hashEmbedding(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, stubDimensions)
	for i := range vec {
		// LCG stepped from the text hash.
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}
	return normalize(vec)
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	for i, v := range vec {
		vec[i] = v / norm
	}
	return vec
}
