package rag

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/llm"
	"github.com/neuradynamics/pragya/pkg/vector"
)

// RefusalSentence is the verbatim sentence the model is instructed to
// return when the answer is not present in the retrieved context. A
// refusal is correct grounding behavior, not an error.
const RefusalSentence = "I cannot answer this based on the provided policy documents."

// ContextSeparator delimits retrieved chunks inside the context block.
const ContextSeparator = "\n\n---\n\n"

const promptTemplate = `You are an intelligent assistant for "Pragya" (Neuradynamics).
Answer strictly based on the provided context.

RULES:
1. Use ONLY the provided context.
2. If the answer is not in the context, say: "{{.Refusal}}"
3. Format with bullet points where appropriate.

CONTEXT:
{{.Context}}

USER QUESTION:
{{.Question}}
`

var prompt = template.Must(template.New("answer").Parse(promptTemplate))

// AnswerRecord pairs a generated answer with the retrieval results that
// produced its context, so callers can audit grounding.
type AnswerRecord struct {
	// Answer is the raw generated text, unmodified.
	Answer string

	// Results is the retrieval result the context block was built from,
	// in ascending distance order.
	Results []vector.QueryResult
}

// Refused reports whether the answer is the verbatim refusal sentence.
func (a *AnswerRecord) Refused() bool {
	return strings.TrimSpace(a.Answer) == RefusalSentence
}

// Composer turns a question into a grounded answer: it retrieves context,
// renders the closed-context prompt, and invokes the generation gateway.
type Composer struct {
	retriever *Retriever
	generator llm.Generator
	logger    *zap.Logger
}

// NewComposer creates a composer over the given retriever and generator.
func NewComposer(retriever *Retriever, generator llm.Generator, logger *zap.Logger) *Composer {
	return &Composer{
		retriever: retriever,
		generator: generator,
		logger:    logger,
	}
}

// Answer retrieves context for the question and generates an answer from
// it. Generation runs at temperature zero, so repeated calls with the same
// store contents should yield stable output. Gateway failures propagate to
// the caller; no retry is attempted.
func (c *Composer) Answer(ctx context.Context, question string) (*AnswerRecord, error) {
	results, err := c.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Text)
	}
	contextBlock := strings.Join(texts, ContextSeparator)

	var sb strings.Builder
	err = prompt.Execute(&sb, struct {
		Refusal  string
		Context  string
		Question string
	}{
		Refusal:  RefusalSentence,
		Context:  contextBlock,
		Question: question,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	answer, err := c.generator.Generate(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	c.logger.Debug("composed answer",
		zap.String("question", question),
		zap.Int("context_chunks", len(results)),
		zap.Int("answer_length", len(answer)),
	)

	return &AnswerRecord{
		Answer:  answer,
		Results: results,
	}, nil
}
