// Package llm provides the generation gateway: a narrow port over chat
// completion APIs used to compose answers from retrieved context.
package llm

import (
	"context"
	"errors"
)

// ErrGeneration is returned when the generation gateway fails or returns a
// malformed response.
var ErrGeneration = errors.New("generation failed")

// Generator produces text from a prompt.
//
// Implementations pin decoding to temperature zero so repeated calls with an
// identical prompt yield stable output. Each call is single-turn; no
// conversation state is carried between calls.
type Generator interface {
	// Generate renders a completion for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Close releases any resources held by the generator.
	Close() error
}
