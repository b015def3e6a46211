// Package eval runs a labeled question battery through the answering
// pipeline and tabulates the results for human review. No automatic
// pass/fail grading is performed; the harness's job is deterministic
// reproduction, not judgment.
package eval

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Case is one labeled evaluation question.
type Case struct {
	// Category groups cases by what they probe: answerable questions,
	// edge cases, and unanswerable hallucination traps.
	Category string `toml:"category"`

	// Question is the free-text question put to the pipeline.
	Question string `toml:"question"`

	// Expected describes the key concept a correct answer should carry.
	// Free text for human review, not automatically graded.
	Expected string `toml:"expected"`
}

type caseFile struct {
	Cases []Case `toml:"cases"`
}

// DefaultCases is the standard battery: answerable questions with ground
// truth in the policy document, an ambiguous edge case, and two
// hallucination traps whose answers are absent from the document.
func DefaultCases() []Case {
	return []Case{
		{
			Category: "Answerable",
			Question: "What is the policy on web scraping?",
			Expected: "Prohibited / Not allowed",
		},
		{
			Category: "Answerable",
			Question: "How long is support chat data retained?",
			Expected: "90 days",
		},
		{
			Category: "Edge Case",
			Question: "Can I use the AI to generate political content?",
			Expected: "Harmful/Unethical content is prohibited",
		},
		{
			Category: "Unanswerable",
			Question: "What is the phone number for the HR department?",
			Expected: "I cannot answer / Not in document",
		},
		{
			Category: "Unanswerable",
			Question: "Does the company offer a refund for the annual plan?",
			Expected: "I cannot answer (Refunds not explicitly detailed for annual vs monthly)",
		},
	}
}

// LoadCases reads a custom case battery from a TOML file containing
// [[cases]] tables.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cases file: %w", err)
	}

	var cf caseFile
	if err := toml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing cases file: %w", err)
	}

	if len(cf.Cases) == 0 {
		return nil, fmt.Errorf("no cases defined in %s", path)
	}

	for i, c := range cf.Cases {
		if c.Question == "" {
			return nil, fmt.Errorf("case %d has no question", i)
		}
	}

	return cf.Cases, nil
}
