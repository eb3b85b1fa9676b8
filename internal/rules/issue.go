package rules

import (
	"fmt"
	"strings"
)

// Confidence expresses how likely a quick fix is to be correct.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidences: high is 3, low is 1, unknown is 0.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// ParseConfidence parses a confidence name.
func ParseConfidence(s string) (Confidence, error) {
	switch c := Confidence(strings.ToLower(strings.TrimSpace(s))); c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return c, nil
	default:
		return "", fmt.Errorf("unknown confidence: %q", s)
	}
}

// TextEdit is a single text replacement. Empty NewText means delete.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// QuickFix is one contiguous replacement expected to resolve an issue
// without re-triggering it.
type QuickFix struct {
	Title      string     `json:"title"`
	Edit       TextEdit   `json:"edit"`
	Confidence Confidence `json:"confidence"`
	IsSafe     bool       `json:"isSafe"`
}

// Issue is a single finding reported by an analyzer.
type Issue struct {
	// Type is the issue kind (error, warning, info).
	Type Severity `json:"type"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Line is the 1-based line of the finding.
	Line int `json:"line"`

	// Column is the 1-based column, 0 when unknown.
	Column int `json:"column,omitempty"`

	// RuleID is the stable machine-readable tag (e.g. "css-duplicate-property").
	RuleID string `json:"ruleId,omitempty"`

	// Suggestion is a short textual remedy.
	Suggestion string `json:"suggestion,omitempty"`

	// Range is the affected region. Filled from Line/Column when analyzers omit it.
	Range Range `json:"range"`

	// Fix is an optional machine-applicable quick fix.
	Fix *QuickFix `json:"fix,omitempty"`
}

// NewIssue creates an issue with the minimum required fields.
func NewIssue(kind Severity, line int, ruleID, message string) Issue {
	return Issue{
		Type:    kind,
		Message: message,
		Line:    line,
		RuleID:  ruleID,
	}
}

// WithColumn sets the 1-based column.
func (i Issue) WithColumn(column int) Issue {
	i.Column = column
	return i
}

// WithSuggestion adds a suggestion to the issue.
func (i Issue) WithSuggestion(s string) Issue {
	i.Suggestion = s
	return i
}

// WithRange sets the affected range.
func (i Issue) WithRange(r Range) Issue {
	i.Range = r
	return i
}

// WithFix attaches a quick fix.
func (i Issue) WithFix(fix *QuickFix) Issue {
	i.Fix = fix
	return i
}

// Key is the deduplication key: kind, line, column, rule id and trimmed message.
func (i Issue) Key() string {
	return fmt.Sprintf("%s|%d|%d|%s|%s", i.Type, i.Line, i.Column, i.RuleID, strings.TrimSpace(i.Message))
}

// Label returns the rule id, or the message when the issue has no rule id.
func (i Issue) Label() string {
	if i.RuleID != "" {
		return i.RuleID
	}
	return i.Message
}
