package fix

import (
	"slices"
	"strings"

	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/sourcemap"
)

// SkipReason explains why a fix was skipped.
type SkipReason int

const (
	// SkipConflict means the fix overlaps with another fix.
	SkipConflict SkipReason = iota

	// SkipSafety means the fix is unsafe or below the confidence threshold.
	SkipSafety

	// SkipRuleFilter means the rule is not in the rule filter.
	SkipRuleFilter

	// SkipInvalidRange means the fix range does not fit the source.
	SkipInvalidRange
)

// String returns a human-readable description of the skip reason.
func (r SkipReason) String() string {
	switch r {
	case SkipConflict:
		return "conflicts with another fix"
	case SkipSafety:
		return "below safety threshold"
	case SkipRuleFilter:
		return "rule not in fix filter"
	case SkipInvalidRange:
		return "range outside the source"
	default:
		return "unknown reason"
	}
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	// Issue is the issue the fix resolves.
	Issue rules.Issue

	// Fix is the applied fix; its range refers to the original source.
	Fix rules.QuickFix
}

// SkippedFix records a fix that couldn't be applied.
type SkippedFix struct {
	Issue  rules.Issue
	Reason SkipReason
}

// Result contains the outcome of applying fixes to one source.
type Result struct {
	Original string
	Content  string
	Applied  []AppliedFix
	Skipped  []SkippedFix
}

// HasChanges returns true if any fix was applied.
func (r *Result) HasChanges() bool {
	return len(r.Applied) > 0 && r.Content != r.Original
}

// Fixer applies the quick fixes of a set of issues to one source.
type Fixer struct {
	// MinConfidence is the lowest confidence applied. Empty means medium.
	MinConfidence rules.Confidence

	// IncludeUnsafe also applies fixes not marked safe.
	IncludeUnsafe bool

	// RuleFilter limits fixes to specific rule ids. Empty allows all.
	RuleFilter []string

	// Heuristics proposes fixes for issues that carry none.
	Heuristics bool
}

type candidate struct {
	issue rules.Issue
	fix   rules.QuickFix
	span  span
}

// Apply fixes issues in source. Candidates are considered in issue order;
// a fix overlapping an already accepted one is skipped. Accepted edits are
// spliced from the end of the source backwards so offsets stay valid.
func (f *Fixer) Apply(source string, issues []rules.Issue) *Result {
	result := &Result{Original: source, Content: source}
	sm := sourcemap.New(source)

	var accepted []candidate
	for _, issue := range issues {
		qf := issue.Fix
		if qf == nil && f.Heuristics {
			qf, _ = Heuristic(source, issue)
		}
		if qf == nil {
			continue
		}

		if len(f.RuleFilter) > 0 && !slices.Contains(f.RuleFilter, issue.RuleID) {
			result.Skipped = append(result.Skipped, SkippedFix{Issue: issue, Reason: SkipRuleFilter})
			continue
		}
		if !f.allowed(qf) {
			result.Skipped = append(result.Skipped, SkippedFix{Issue: issue, Reason: SkipSafety})
			continue
		}
		sp, err := resolve(sm, qf.Edit.Range)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedFix{Issue: issue, Reason: SkipInvalidRange})
			continue
		}
		if conflicts(accepted, qf.Edit) {
			result.Skipped = append(result.Skipped, SkippedFix{Issue: issue, Reason: SkipConflict})
			continue
		}
		accepted = append(accepted, candidate{issue: issue, fix: *qf, span: sp})
	}

	byPosition := slices.Clone(accepted)
	slices.SortStableFunc(byPosition, func(a, b candidate) int {
		return b.span.start - a.span.start
	})
	var b strings.Builder
	content := source
	for _, c := range byPosition {
		b.Reset()
		b.WriteString(content[:c.span.start])
		b.WriteString(c.fix.Edit.NewText)
		b.WriteString(content[c.span.end:])
		content = b.String()
	}
	result.Content = content

	for _, c := range accepted {
		result.Applied = append(result.Applied, AppliedFix{Issue: c.issue, Fix: c.fix})
	}
	return result
}

func (f *Fixer) allowed(qf *rules.QuickFix) bool {
	minimum := f.MinConfidence
	if minimum == "" {
		minimum = rules.ConfidenceMedium
	}
	if qf.Confidence.Rank() < minimum.Rank() {
		return false
	}
	return qf.IsSafe || f.IncludeUnsafe
}

func conflicts(accepted []candidate, edit rules.TextEdit) bool {
	for _, c := range accepted {
		if editsOverlap(c.fix.Edit, edit) {
			return true
		}
	}
	return false
}
