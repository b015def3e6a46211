package eval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/rag"
)

// FallbackSource is recorded when a retrieved chunk carries no source
// identifier.
const FallbackSource = "policy.txt"

// Row is one evaluation result: the case, what the pipeline actually
// answered, and which sources backed the answer.
type Row struct {
	Category string
	Question string
	Expected string

	// Answer is the raw generated text, or "ERROR: <message>" when the
	// case failed and per-case isolation recorded it instead of aborting.
	Answer string

	// Sources is the sorted set of distinct source identifiers retrieved
	// for this question. Empty when the case errored.
	Sources []string

	// RefusalMatch reports whether the answer was the verbatim refusal
	// sentence. Useful when reviewing the Unanswerable category.
	RefusalMatch bool
}

// Report is an ordered collection of rows, one per case, in input order.
type Report struct {
	Rows []Row
}

// CaseProgress is invoked before each case runs.
type CaseProgress func(index int, total int, c Case)

// Harness runs evaluation cases through an answer composer.
type Harness struct {
	composer *rag.Composer
	logger   *zap.Logger
}

// NewHarness creates a harness over the given composer.
func NewHarness(composer *rag.Composer, logger *zap.Logger) *Harness {
	return &Harness{
		composer: composer,
		logger:   logger,
	}
}

// Run evaluates every case in input order and returns a report with
// exactly one row per case. Case failures are isolated: a failed case is
// recorded as an "ERROR:" row and evaluation continues, so one flaky
// gateway call cannot void a whole batch. The progress callback may be nil.
func (h *Harness) Run(ctx context.Context, cases []Case, progress CaseProgress) (*Report, error) {
	if len(cases) == 0 {
		return nil, fmt.Errorf("no cases to evaluate")
	}

	report := &Report{Rows: make([]Row, 0, len(cases))}

	for i, c := range cases {
		if progress != nil {
			progress(i, len(cases), c)
		}

		row := Row{
			Category: c.Category,
			Question: c.Question,
			Expected: c.Expected,
		}

		record, err := h.composer.Answer(ctx, c.Question)
		if err != nil {
			h.logger.Warn("evaluation case failed",
				zap.String("question", c.Question),
				zap.Error(err),
			)
			row.Answer = fmt.Sprintf("ERROR: %v", err)
			report.Rows = append(report.Rows, row)
			continue
		}

		row.Answer = record.Answer
		row.Sources = distinctSources(record)
		row.RefusalMatch = record.Refused()
		report.Rows = append(report.Rows, row)
	}

	return report, nil
}

// distinctSources collects the distinct source identifiers in a retrieval
// result, substituting FallbackSource for chunks without one.
func distinctSources(record *rag.AnswerRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range record.Results {
		source := r.Source
		if strings.TrimSpace(source) == "" {
			source = FallbackSource
		}
		seen[source] = struct{}{}
	}

	sources := make([]string, 0, len(seen))
	for s := range seen {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	return sources
}
