package eval

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MarkdownReportName is the human-readable report file name.
	MarkdownReportName = "evaluation_report.md"

	// CSVReportName is the structured export file name.
	CSVReportName = "evaluation_results.csv"
)

var reportHeader = []string{"Category", "Question", "Expected", "Actual Answer", "Sources Used"}

// WriteMarkdown renders the report as a Markdown table.
func (r *Report) WriteMarkdown(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "# RAG System Evaluation Report"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(reportHeader, " | ")); err != nil {
		return err
	}
	seps := make([]string, len(reportHeader))
	for i := range seps {
		seps[i] = "---"
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | ")); err != nil {
		return err
	}

	for _, row := range r.Rows {
		cells := []string{
			escapeCell(row.Category),
			escapeCell(row.Question),
			escapeCell(row.Expected),
			escapeCell(row.Answer),
			escapeCell(strings.Join(row.Sources, ", ")),
		}
		if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | ")); err != nil {
			return err
		}
	}

	return nil
}

// escapeCell makes free text safe inside a Markdown table cell. Answers
// frequently contain newlines (bullet points) and pipes.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "<br>")
	return s
}

// WriteCSV renders the report as one record per row.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(reportHeader); err != nil {
		return err
	}

	for _, row := range r.Rows {
		record := []string{
			row.Category,
			row.Question,
			row.Expected,
			row.Answer,
			strings.Join(row.Sources, ", "),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Save writes both report artifacts into dir, overwriting any previous
// run's output. Returns the two paths written.
func (r *Report) Save(dir string) (mdPath, csvPath string, err error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("creating report directory: %w", err)
	}

	mdPath = filepath.Join(dir, MarkdownReportName)
	mdFile, err := os.Create(mdPath)
	if err != nil {
		return "", "", fmt.Errorf("creating markdown report: %w", err)
	}
	defer mdFile.Close()

	if err := r.WriteMarkdown(mdFile); err != nil {
		return "", "", fmt.Errorf("writing markdown report: %w", err)
	}

	csvPath = filepath.Join(dir, CSVReportName)
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", "", fmt.Errorf("creating csv report: %w", err)
	}
	defer csvFile.Close()

	if err := r.WriteCSV(csvFile); err != nil {
		return "", "", fmt.Errorf("writing csv report: %w", err)
	}

	return mdPath, csvPath, nil
}
