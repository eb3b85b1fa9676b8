// Package fix applies quick fixes to source text.
//
// Ranges are 1-based with an inclusive end column. An end column past the
// end of its line is clamped to the line end, so whole-line ranges use
// rules.WholeLine. An end column of 0 selects nothing on the end line,
// which lets a range swallow the line break before it.
package fix

import (
	"errors"
	"fmt"

	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/sourcemap"
)

// ErrNoQuickFix is returned when an issue has no fix and no heuristic applies.
var ErrNoQuickFix = errors.New("no quick fix available")

// RangeError reports an edit range that does not fit the source.
type RangeError struct {
	Range rules.Range
	Lines int
}

func (e *RangeError) Error() string {
	r := e.Range
	return fmt.Sprintf("edit range %d:%d-%d:%d is outside the source (%d lines)",
		r.StartLine, r.StartColumn, r.EndLine, r.EndColumn, e.Lines)
}

// span is a half-open byte range resolved against one source.
type span struct {
	start, end int
}

// resolve converts an edit range to byte offsets in the text of sm.
func resolve(sm *sourcemap.SourceMap, r rules.Range) (span, error) {
	if r.EndLine == 0 {
		r.EndLine = r.StartLine
	}
	if r.StartLine < 1 || r.StartLine > sm.LineCount() || r.EndLine < r.StartLine || r.EndLine > sm.LineCount() {
		return span{}, &RangeError{Range: r, Lines: sm.LineCount()}
	}

	start := sm.Offset(r.StartLine, r.StartColumn)
	var end int
	if r.EndColumn < 1 {
		end = sm.LineOffset(r.EndLine)
	} else {
		end = sm.Offset(r.EndLine, r.EndColumn+1)
	}
	if end < start {
		return span{}, &RangeError{Range: r, Lines: sm.LineCount()}
	}
	return span{start: start, end: end}, nil
}

// ApplyEdit replaces the range of edit in source with its new text.
func ApplyEdit(source string, edit rules.TextEdit) (string, error) {
	sp, err := resolve(sourcemap.New(source), edit.Range)
	if err != nil {
		return "", err
	}
	return source[:sp.start] + edit.NewText + source[sp.end:], nil
}

// Apply applies a quick fix to source.
func Apply(source string, qf *rules.QuickFix) (string, error) {
	if qf == nil {
		return "", ErrNoQuickFix
	}
	return ApplyEdit(source, qf.Edit)
}

// ForIssue returns the issue's own fix, or a heuristic one.
func ForIssue(source string, issue rules.Issue) (*rules.QuickFix, error) {
	if issue.Fix != nil {
		return issue.Fix, nil
	}
	if qf, ok := Heuristic(source, issue); ok {
		return qf, nil
	}
	return nil, ErrNoQuickFix
}

// ApplyIssue fixes one issue in source and returns the new text together
// with the fix that was used.
func ApplyIssue(source string, issue rules.Issue) (string, *rules.QuickFix, error) {
	qf, err := ForIssue(source, issue)
	if err != nil {
		return "", nil, err
	}
	out, err := Apply(source, qf)
	if err != nil {
		return "", nil, err
	}
	return out, qf, nil
}
