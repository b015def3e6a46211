package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/eval"
)

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SearchResult is one retrieved chunk in a search response.
type SearchResult struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Seq    int     `json:"seq"`
	Score  float32 `json:"score"`
}

// SearchResponse is the body for GET /v1/search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// AskRequest is the body for POST /v1/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the body for POST /v1/ask.
type AskResponse struct {
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Refused  bool           `json:"refused"`
	Sources  []SearchResult `json:"sources"`
}

// EvaluateResponse is the body for POST /v1/evaluate.
type EvaluateResponse struct {
	Rows []EvaluateRow `json:"rows"`
}

// EvaluateRow is one evaluation result row.
type EvaluateRow struct {
	Category     string   `json:"category"`
	Question     string   `json:"question"`
	Expected     string   `json:"expected"`
	Answer       string   `json:"answer"`
	Sources      []string `json:"sources"`
	RefusalMatch bool     `json:"refusal_match"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleSearch handles GET /v1/search requests.
// Query parameters:
//   - query (required): the search query text
//   - top_k (optional, default 3): number of results to return
func (s *Server) handleSearch(c *fiber.Ctx) error {
	if s.config.Retriever == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "search is not configured",
		})
	}

	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query parameter is required",
		})
	}

	// top_k can only narrow the retriever's configured k; widening would
	// require a second store round-trip.
	topK := 0
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "top_k must be a positive integer",
			})
		}
		topK = parsed
	}

	results, err := s.config.Retriever.Retrieve(c.Context(), query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	if topK > 0 && topK < len(results) {
		results = results[:topK]
	}

	out := SearchResponse{
		Query:   query,
		Results: make([]SearchResult, 0, len(results)),
	}
	for _, r := range results {
		out.Results = append(out.Results, SearchResult{
			Text:   r.Text,
			Source: r.Source,
			Seq:    r.Seq,
			Score:  r.Score,
		})
	}
	out.Count = len(out.Results)

	return c.JSON(out)
}

// handleAsk handles POST /v1/ask requests.
func (s *Server) handleAsk(c *fiber.Ctx) error {
	if s.config.Composer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "answering is not configured",
		})
	}

	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "question is required",
		})
	}

	record, err := s.config.Composer.Answer(c.Context(), req.Question)
	if err != nil {
		s.logger.Error("ask failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	resp := AskResponse{
		Question: req.Question,
		Answer:   record.Answer,
		Refused:  record.Refused(),
		Sources:  make([]SearchResult, 0, len(record.Results)),
	}
	for _, r := range record.Results {
		resp.Sources = append(resp.Sources, SearchResult{
			Text:   r.Text,
			Source: r.Source,
			Seq:    r.Seq,
			Score:  r.Score,
		})
	}

	return c.JSON(resp)
}

// handleEvaluate handles POST /v1/evaluate requests, running the default
// case battery.
func (s *Server) handleEvaluate(c *fiber.Ctx) error {
	if s.config.Harness == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "evaluation is not configured",
		})
	}

	report, err := s.config.Harness.Run(c.Context(), eval.DefaultCases(), nil)
	if err != nil {
		s.logger.Error("evaluation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	resp := EvaluateResponse{Rows: make([]EvaluateRow, 0, len(report.Rows))}
	for _, row := range report.Rows {
		resp.Rows = append(resp.Rows, EvaluateRow{
			Category:     row.Category,
			Question:     row.Question,
			Expected:     row.Expected,
			Answer:       row.Answer,
			Sources:      row.Sources,
			RefusalMatch: row.RefusalMatch,
		})
	}

	return c.JSON(resp)
}
