// Package api provides an HTTP API server for querying the policy agent.
package api

import (
	"github.com/neuradynamics/pragya/pkg/eval"
	"github.com/neuradynamics/pragya/pkg/rag"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8084")
	ListenAddr string

	// Retriever answers GET /v1/search requests.
	Retriever *rag.Retriever

	// Composer answers POST /v1/ask requests.
	Composer *rag.Composer

	// Harness answers POST /v1/evaluate requests. Optional; the endpoint
	// returns 503 when unset.
	Harness *eval.Harness
}
