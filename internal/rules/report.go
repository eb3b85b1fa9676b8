package rules

import "time"

// Summary counts issues per kind.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Total returns the number of counted issues.
func (s Summary) Total() int {
	return s.Errors + s.Warnings + s.Info
}

// Summarize derives a summary from a list of issues.
func Summarize(issues []Issue) Summary {
	var s Summary
	for _, issue := range issues {
		switch issue.Type {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		case SeverityInfo:
			s.Info++
		case SeverityOff:
		}
	}
	return s
}

// Report is the result of one validation. It is not modified after it is returned.
type Report struct {
	Language  Language  `json:"language"`
	Timestamp time.Time `json:"timestamp"`
	Issues    []Issue   `json:"issues"`
	Summary   Summary   `json:"summary"`
}

// NewReport builds a report and computes its summary.
func NewReport(lang Language, issues []Issue, now time.Time) *Report {
	if issues == nil {
		issues = []Issue{}
	}
	return &Report{
		Language:  lang,
		Timestamp: now.UTC(),
		Issues:    issues,
		Summary:   Summarize(issues),
	}
}

// HasIssuesAtLeast reports whether any issue is at least as severe as threshold.
func (r *Report) HasIssuesAtLeast(threshold Severity) bool {
	for _, issue := range r.Issues {
		if issue.Type.IsAtLeast(threshold) {
			return true
		}
	}
	return false
}
