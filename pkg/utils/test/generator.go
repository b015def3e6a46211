package testutils

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator is a test generator that returns configurable completions
type MockGenerator struct {
	// Response is returned by Generate for every prompt.
	Response string

	// Responses maps prompt substrings to responses. When a prompt contains
	// a key, the mapped response wins over Response.
	Responses map[string]string

	// Prompts accumulates every prompt passed to Generate.
	Prompts []string

	// Fail causes Generate to return an error.
	Fail bool
}

func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{
		Response:  response,
		Responses: make(map[string]string),
	}
}

func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	if m.Fail {
		return "", fmt.Errorf("mock generation failure")
	}

	m.Prompts = append(m.Prompts, prompt)

	for substr, resp := range m.Responses {
		if substr != "" && strings.Contains(prompt, substr) {
			return resp, nil
		}
	}

	return m.Response, nil
}

func (m *MockGenerator) Close() error {
	return nil
}
