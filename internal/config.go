package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Inference backends.
const (
	InferenceBackendStub   = "stub"
	InferenceBackendOpenAI = "openai"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Memories  MemoriesConfig    `yaml:"memories"`
	Inference InferenceConfig   `yaml:"inference"`
	Models    []ModelConfig     `yaml:"models"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Memories.Validate(); err != nil {
		return err
	}
	if err := c.Inference.Validate(); err != nil {
		return err
	}
	for i := range c.Models {
		if err := c.Models[i].Validate(); err != nil {
			return fmt.Errorf("models[%d]: %w", i, err)
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf("127.0.0.1:%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// MemoriesConfig holds the path to the memories directory. The
// directory is created on first use if it does not exist.
type MemoriesConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the memories configuration.
func (c *MemoriesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// InferenceConfig selects and configures the inference backend.
//
// Backend controls which engine serves chat and embeddings:
//   - "stub" (default): deterministic offline replies, no network.
//   - "openai": proxy to an OpenAI-compatible endpoint (BaseURL may
//     point at a local server such as Ollama).
type InferenceConfig struct {
	Backend        string `yaml:"backend"`
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

// Validate validates the inference configuration.
func (c *InferenceConfig) Validate() error {
	// Normalise empty backend to "stub" so a bare config works offline.
	if c.Backend == "" {
		c.Backend = InferenceBackendStub
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required,
			validation.In(InferenceBackendStub, InferenceBackendOpenAI)),
	); err != nil {
		return err
	}
	if c.Backend == InferenceBackendOpenAI && c.ChatModel == "" {
		return fmt.Errorf("inference: backend is %q but chat_model is empty", InferenceBackendOpenAI)
	}
	if c.Backend == InferenceBackendOpenAI && c.EmbeddingModel == "" {
		return fmt.Errorf("inference: backend is %q but embedding_model is empty", InferenceBackendOpenAI)
	}
	return nil
}

// ModelConfig is one entry of the advertised model catalog.
type ModelConfig struct {
	ID      string `yaml:"id"`
	OwnedBy string `yaml:"owned_by"`
}

// Validate validates a catalog entry.
func (c *ModelConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ID, validation.Required),
	)
}

// DefaultMemoriesPath returns the per-user memories location,
// ~/.conduit/memories, falling back to a relative directory when the
// home directory cannot be resolved.
func DefaultMemoriesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "memories"
	}
	return filepath.Join(home, ".conduit", "memories")
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Memories: MemoriesConfig{
			Path: DefaultMemoriesPath(),
		},
		Inference: InferenceConfig{
			Backend: InferenceBackendStub,
		},
		Models: []ModelConfig{
			{ID: "gpt-3.5-turbo", OwnedBy: "conduit"},
			{ID: "text-embedding-ada-002", OwnedBy: "conduit"},
		},
	}
}
