package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/wharflab/reval/internal/rules"
)

// GitHubActionsReporter formats issues as GitHub Actions workflow commands.
// These commands appear as annotations in the GitHub Actions UI.
//
// Format: ::{level} file={file},line={line},col={col}::{message}
//
// See: https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions#setting-an-error-message
type GitHubActionsReporter struct {
	writer io.Writer
}

// NewGitHubActionsReporter creates a new GitHub Actions reporter.
func NewGitHubActionsReporter(w io.Writer) *GitHubActionsReporter {
	return &GitHubActionsReporter{writer: w}
}

// Report implements Reporter.
func (r *GitHubActionsReporter) Report(results []Result, _ ReportMetadata) error {
	for _, fi := range sortFileIssues(flatten(results)) {
		issue := fi.Issue

		parts := []string{
			"file=" + escapeGitHubProperty(fi.File),
			fmt.Sprintf("line=%d", issue.Line),
		}
		if issue.Column > 0 {
			parts = append(parts, fmt.Sprintf("col=%d", issue.Column))
		}
		if r := issue.Range; r.EndLine > issue.Line {
			parts = append(parts, fmt.Sprintf("endLine=%d", r.EndLine))
		}
		parts = append(parts, "title="+escapeGitHubProperty(issue.Label()))

		message := issue.Message
		if issue.Suggestion != "" {
			message += "\n" + issue.Suggestion
		}

		if _, err := fmt.Fprintf(r.writer, "::%s %s::%s\n",
			severityToGitHubLevel(issue.Type),
			strings.Join(parts, ","),
			escapeGitHubMessage(message),
		); err != nil {
			return err
		}
	}

	return nil
}

// GitHub Actions annotation levels.
const (
	ghLevelError   = "error"
	ghLevelWarning = "warning"
	ghLevelNotice  = "notice"
)

// severityToGitHubLevel maps an issue kind to GitHub Actions levels.
func severityToGitHubLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return ghLevelError
	case rules.SeverityInfo:
		return ghLevelNotice
	case rules.SeverityWarning, rules.SeverityOff:
		return ghLevelWarning
	default:
		return ghLevelWarning
	}
}

// escapeGitHubMessage escapes "%", "\r" and "\n" in workflow command messages.
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubMessage(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeGitHubProperty also escapes ":" and "," for command properties.
func escapeGitHubProperty(s string) string {
	s = escapeGitHubMessage(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
