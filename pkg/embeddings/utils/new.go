// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"
	"os"

	"github.com/neuradynamics/pragya/pkg/embeddings"
	"github.com/neuradynamics/pragya/pkg/embeddings/gemini"
	"github.com/neuradynamics/pragya/pkg/embeddings/ollama"
	"github.com/neuradynamics/pragya/pkg/embeddings/openai"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string

	// APIKey is the explicit key for hosted providers. Falls back to the
	// provider's conventional environment variable when empty.
	APIKey string
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "openai":
		return openai.NewEmbedder(openai.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			APIKey:  resolveAPIKey(o.APIKey, "OPENAI_API_KEY"),
		})
	case "gemini":
		return gemini.NewEmbedder(gemini.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			APIKey:  resolveAPIKey(o.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY"),
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}

func resolveAPIKey(explicit string, envVars ...string) string {
	if explicit != "" {
		return explicit
	}
	for _, v := range envVars {
		if key := os.Getenv(v); key != "" {
			return key
		}
	}
	return ""
}
