package internal

import (
	"strings"
	"testing"
)

func TestInferenceConfig_EmptyBackendDefaultsStub(t *testing.T) {
	cfg := InferenceConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty backend should default to stub: %v", err)
	}
	if cfg.Backend != InferenceBackendStub {
		t.Errorf("backend = %q, want %q", cfg.Backend, InferenceBackendStub)
	}
}

func TestInferenceConfig_OpenAIRequiresModels(t *testing.T) {
	cfg := InferenceConfig{Backend: InferenceBackendOpenAI}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("openai backend without chat_model should fail")
	}
	if !strings.Contains(err.Error(), "chat_model") {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.ChatModel = "llama3"
	if err := cfg.Validate(); err == nil {
		t.Fatal("openai backend without embedding_model should fail")
	}

	cfg.EmbeddingModel = "nomic-embed-text"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("fully configured openai backend should pass: %v", err)
	}
}

func TestInferenceConfig_UnknownBackend(t *testing.T) {
	cfg := InferenceConfig{Backend: "magic"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown backend should fail validation")
	}
}

func TestConfig_DefaultsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if len(cfg.Models) == 0 {
		t.Error("default catalog is empty")
	}
	if cfg.Memories.Path == "" {
		t.Error("default memories path is empty")
	}
}

func TestConfig_ModelWithoutID(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Models = append(cfg.Models, ModelConfig{OwnedBy: "conduit"})
	if err := cfg.Validate(); err == nil {
		t.Fatal("catalog entry without id should fail validation")
	}
}

func TestHTTPConfig_PortBounds(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
	cfg := HTTPConfig{Port: 8080}
	if err := cfg.Validate(); err != nil {
		t.Errorf("port 8080 should pass: %v", err)
	}
	if cfg.Address() != "127.0.0.1:8080" {
		t.Errorf("address = %q", cfg.Address())
	}
}
