package reporter

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/wharflab/reval/internal/rules"
)

// MarkdownReporter formats issues as concise markdown tables.
type MarkdownReporter struct {
	writer io.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(w io.Writer) *MarkdownReporter {
	return &MarkdownReporter{writer: w}
}

// Report implements Reporter.
func (r *MarkdownReporter) Report(results []Result, _ ReportMetadata) error {
	issues := sortBySeverity(flatten(results))
	if len(issues) == 0 {
		_, err := fmt.Fprintln(r.writer, "**No issues found**")
		return err
	}

	var files []string
	for _, fi := range issues {
		if !slices.Contains(files, fi.File) {
			files = append(files, fi.File)
		}
	}
	if len(files) == 1 {
		return r.writeSingleFileTable(issues, files[0])
	}
	return r.writeMultiFileTable(issues, len(files))
}

func (r *MarkdownReporter) writeSingleFileTable(sorted []fileIssue, filename string) error {
	if _, err := fmt.Fprintf(r.writer, "**%d %s** in `%s`\n\n",
		len(sorted), pluralize(len(sorted), "issue", "issues"), filename); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "| Line | Rule | Issue |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "|------|------|-------|"); err != nil {
		return err
	}

	for _, fi := range sorted {
		if _, err := fmt.Fprintf(r.writer, "| %s | %s | %s %s |\n",
			formatLineNumber(fi.Issue), ruleCell(fi.Issue), severityEmoji(fi.Issue.Type), issueCell(fi.Issue)); err != nil {
			return err
		}
	}
	return nil
}

func (r *MarkdownReporter) writeMultiFileTable(sorted []fileIssue, fileCount int) error {
	if _, err := fmt.Fprintf(r.writer, "**%d %s** across %d files\n\n",
		len(sorted), pluralize(len(sorted), "issue", "issues"), fileCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "| File | Line | Rule | Issue |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "|------|------|------|-------|"); err != nil {
		return err
	}

	for _, fi := range sorted {
		if _, err := fmt.Fprintf(r.writer, "| %s | %s | %s | %s %s |\n",
			fi.File, formatLineNumber(fi.Issue), ruleCell(fi.Issue), severityEmoji(fi.Issue.Type), issueCell(fi.Issue)); err != nil {
			return err
		}
	}
	return nil
}

func formatLineNumber(issue rules.Issue) string {
	if issue.Line > 0 {
		return strconv.Itoa(issue.Line)
	}
	return "-"
}

func ruleCell(issue rules.Issue) string {
	if issue.RuleID == "" {
		return "-"
	}
	return "`" + issue.RuleID + "`"
}

func issueCell(issue rules.Issue) string {
	s := escapeMarkdown(issue.Message)
	if issue.Suggestion != "" {
		s += " <br>" + escapeMarkdown(issue.Suggestion)
	}
	return s
}

// sortBySeverity sorts issues by kind (errors first), then by file and line.
func sortBySeverity(items []fileIssue) []fileIssue {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b fileIssue) int {
		return cmp.Or(
			cmp.Compare(severityPriority(a.Issue.Type), severityPriority(b.Issue.Type)),
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Issue.Line, b.Issue.Line),
		)
	})
	return sorted
}

// severityPriority returns a numeric priority for sorting (lower = more severe).
func severityPriority(s rules.Severity) int {
	switch s {
	case rules.SeverityError:
		return 0
	case rules.SeverityWarning:
		return 1
	case rules.SeverityInfo:
		return 2
	case rules.SeverityOff:
		return 4
	default:
		return 3
	}
}

// severityEmoji returns an emoji indicator for the issue kind.
func severityEmoji(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return "❌"
	case rules.SeverityInfo:
		return "ℹ️"
	case rules.SeverityWarning, rules.SeverityOff:
		return "⚠️"
	default:
		return "⚠️"
	}
}

// escapeMarkdown escapes special markdown characters in table cells.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}

// pluralize returns singular or plural form based on count.
func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
