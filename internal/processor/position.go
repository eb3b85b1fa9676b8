package processor

import (
	"github.com/wharflab/reval/internal/rules"
)

// PositionNormalization clamps issue lines to at least 1 and fills in a
// range for issues that came without one.
type PositionNormalization struct{}

// NewPositionNormalization creates a new position normalization processor.
func NewPositionNormalization() *PositionNormalization {
	return &PositionNormalization{}
}

// Name returns the processor's identifier.
func (p *PositionNormalization) Name() string {
	return "position-normalization"
}

// Process normalizes issue positions.
func (p *PositionNormalization) Process(issues []rules.Issue, _ *Context) []rules.Issue {
	return transformIssues(issues, func(i rules.Issue) rules.Issue {
		if i.Line < 1 {
			i.Line = 1
		}
		if i.Column < 0 {
			i.Column = 0
		}
		if i.Range.IsZero() {
			col := max(i.Column, 1)
			i.Range = rules.NewPointRange(i.Line, col)
		}
		return i
	})
}
