// Package llmutils is the llm utility package
package llmutils

import (
	"fmt"
	"os"

	"github.com/neuradynamics/pragya/pkg/llm"
	"github.com/neuradynamics/pragya/pkg/llm/gemini"
	"github.com/neuradynamics/pragya/pkg/llm/ollama"
	"github.com/neuradynamics/pragya/pkg/llm/openai"
)

type NewGeneratorOpts struct {
	ProviderType string
	TargetURL    string
	Model        string

	// APIKey is the explicit key for hosted providers. Falls back to the
	// provider's conventional environment variable when empty.
	APIKey string
}

func NewGenerator(o *NewGeneratorOpts) (llm.Generator, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewGenerator(ollama.GeneratorConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "openai":
		return openai.NewGenerator(openai.GeneratorConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			APIKey:  resolveAPIKey(o.APIKey, "OPENAI_API_KEY"),
		})
	case "gemini":
		return gemini.NewGenerator(gemini.GeneratorConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			APIKey:  resolveAPIKey(o.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY"),
		})
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", o.ProviderType)
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
