// Package reporter provides output formatters for validation reports and
// comparisons.
//
// Report formats:
//   - text: Human-readable terminal output with colors and syntax highlighting
//   - json: Machine-readable JSON output
//   - sarif: Static Analysis Results Interchange Format for CI/CD integration
//   - github-actions: Native GitHub Actions workflow annotations
//   - markdown: Concise markdown tables
//
// Comparisons (see compare.go) are written as text or json.
package reporter

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/wharflab/reval/internal/rules"
)

// Result is the validation outcome for one input.
type Result struct {
	// File is the input path, "-" for stdin.
	File string
	// Source is the validated text, used for snippets.
	Source string
	// Report is the engine's report for Source.
	Report *rules.Report
}

// ReportMetadata contains contextual information about the run.
type ReportMetadata struct {
	// FilesScanned is the total number of inputs that were validated.
	FilesScanned int
	// RulesEnabled is the number of registered rules not turned off.
	RulesEnabled int
}

// Reporter formats and outputs validation results.
type Reporter interface {
	// Report writes results to the configured output.
	Report(results []Result, metadata ReportMetadata) error
}

// fileIssue is an issue paired with the input it came from.
type fileIssue struct {
	File  string
	Issue rules.Issue
}

// flatten lists the issues of all results with forward-slash paths.
func flatten(results []Result) []fileIssue {
	var out []fileIssue
	for _, res := range results {
		if res.Report == nil {
			continue
		}
		file := filepath.ToSlash(res.File)
		for _, issue := range res.Report.Issues {
			out = append(out, fileIssue{File: file, Issue: issue})
		}
	}
	return out
}

// SortIssues sorts issues by line, column and rule id for stable output.
func SortIssues(issues []rules.Issue) []rules.Issue {
	sorted := slices.Clone(issues)
	slices.SortStableFunc(sorted, func(a, b rules.Issue) int {
		return cmp.Or(
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.RuleID, b.RuleID),
		)
	})
	return sorted
}

func sortFileIssues(items []fileIssue) []fileIssue {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b fileIssue) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Issue.Line, b.Issue.Line),
			cmp.Compare(a.Issue.Column, b.Issue.Column),
			cmp.Compare(a.Issue.RuleID, b.Issue.RuleID),
		)
	})
	return sorted
}

// Format represents an output format type.
type Format string

const (
	// FormatText is human-readable terminal output.
	FormatText Format = "text"
	// FormatJSON is machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatSARIF is Static Analysis Results Interchange Format.
	FormatSARIF Format = "sarif"
	// FormatGitHubActions is GitHub Actions workflow command output.
	FormatGitHubActions Format = "github-actions"
	// FormatMarkdown is concise markdown tables.
	FormatMarkdown Format = "markdown"
)

// ParseFormat parses a format string into a Format type.
// Returns an error if the format is unknown.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	case "github-actions", "github":
		return FormatGitHubActions, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: text, json, sarif, github-actions, markdown)", s)
	}
}

// Options configures reporter creation.
type Options struct {
	// Format specifies the output format.
	Format Format

	// Writer is the output destination.
	Writer io.Writer

	// Color enables/disables colored output (text format only).
	// nil means auto-detect.
	Color *bool

	// ShowSource enables source code snippets (text format only).
	ShowSource bool

	// ToolVersion is included in SARIF output.
	ToolVersion string

	// ToolName is the tool name for SARIF output.
	ToolName string

	// ToolURI is the tool information URI for SARIF output.
	ToolURI string
}

// DefaultOptions returns sensible defaults for reporter options.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		Writer:      os.Stdout,
		ShowSource:  true,
		ToolName:    defaultToolName,
		ToolURI:     defaultToolURI,
		ToolVersion: "dev",
	}
}

// New creates a reporter based on the format specified in options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case FormatText, "":
		return &textReporterAdapter{
			reporter: NewTextReporter(TextOptions{
				Color:           opts.Color,
				SyntaxHighlight: opts.Color == nil || *opts.Color,
				ShowSource:      opts.ShowSource,
			}),
			writer: opts.Writer,
		}, nil

	case FormatJSON:
		return NewJSONReporter(opts.Writer), nil

	case FormatSARIF:
		return NewSARIFReporter(opts.Writer, opts.ToolName, opts.ToolVersion, opts.ToolURI), nil

	case FormatGitHubActions:
		return NewGitHubActionsReporter(opts.Writer), nil

	case FormatMarkdown:
		return NewMarkdownReporter(opts.Writer), nil

	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

// textReporterAdapter adapts TextReporter to the Reporter interface.
type textReporterAdapter struct {
	reporter *TextReporter
	writer   io.Writer
}

// Report implements Reporter.
func (a *textReporterAdapter) Report(results []Result, _ ReportMetadata) error {
	return a.reporter.Print(a.writer, results)
}

// GetWriter returns an io.Writer for the given output path.
// Supports "stdout", "stderr", or file paths.
func GetWriter(path string) (io.Writer, func() error, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, f.Close, nil
	}
}
