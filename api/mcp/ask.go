package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

var (
	askToolName    = "ask_policy"
	askDescription = "Ask a natural-language question about the ingested policy document. The answer is grounded strictly in retrieved context; when the document does not cover the question, a fixed refusal sentence is returned and the refused flag is set."
)

// AskInput represents the input arguments for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the policy document"`
}

// AskOutput represents the output of the ask tool.
type AskOutput struct {
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Refused  bool           `json:"refused"`
	Sources  []SearchResult `json:"sources"`
}

// handleAsk processes an ask request.
func (s *Server) handleAsk(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP ask request",
		zap.String("question", input.Question),
	)

	record, err := s.config.Composer.Answer(ctx, input.Question)
	if err != nil {
		logger.Error("failed to answer question", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to answer question: %v", err)},
			},
		}, AskOutput{}, nil
	}

	sources := make([]SearchResult, 0, len(record.Results))
	for _, r := range record.Results {
		sources = append(sources, SearchResult{
			Text:   r.Text,
			Source: r.Source,
			Seq:    r.Seq,
			Score:  r.Score,
		})
	}

	output := AskOutput{
		Question: input.Question,
		Answer:   record.Answer,
		Refused:  record.Refused(),
		Sources:  sources,
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal ask output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize answer: %v", err)},
			},
		}, AskOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
