package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"
	"time"

	"github.com/wharflab/reval/internal/rules"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains one report per input, in input order.
	Files []FileResult `json:"files"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// FilesScanned is the total number of inputs validated.
	FilesScanned int `json:"files_scanned"`
	// RulesEnabled is the number of rules that were active.
	RulesEnabled int `json:"rules_enabled"`
}

// FileResult is the report of a single input.
type FileResult struct {
	File      string         `json:"file"`
	Language  rules.Language `json:"language"`
	Timestamp time.Time      `json:"timestamp"`
	Issues    []rules.Issue  `json:"issues"`
	Summary   rules.Summary  `json:"summary"`
}

// Summary contains aggregate statistics about issues.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Files    int `json:"files"`
}

// JSONReporter formats reports as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(results []Result, metadata ReportMetadata) error {
	output := JSONOutput{
		Files:        make([]FileResult, 0, len(results)),
		FilesScanned: metadata.FilesScanned,
		RulesEnabled: metadata.RulesEnabled,
	}

	for _, res := range results {
		if res.Report == nil {
			continue
		}
		output.Files = append(output.Files, FileResult{
			File:      filepath.ToSlash(res.File),
			Language:  res.Report.Language,
			Timestamp: res.Report.Timestamp,
			Issues:    SortIssues(res.Report.Issues),
			Summary:   res.Report.Summary,
		})
	}
	output.Summary = calculateSummary(output.Files)

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// calculateSummary adds up the per-file summaries.
func calculateSummary(files []FileResult) Summary {
	summary := Summary{Files: len(files)}
	for _, f := range files {
		summary.Errors += f.Summary.Errors
		summary.Warnings += f.Summary.Warnings
		summary.Info += f.Summary.Info
	}
	summary.Total = summary.Errors + summary.Warnings + summary.Info
	return summary
}
