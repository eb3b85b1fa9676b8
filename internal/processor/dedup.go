package processor

import (
	"github.com/wharflab/reval/internal/rules"
)

// Deduplication removes duplicate issues.
// Two issues are duplicates when they share kind, line, column, rule id
// and trimmed message (see rules.Issue.Key). The first occurrence is kept
// and relative order is preserved.
type Deduplication struct{}

// NewDeduplication creates a new deduplication processor.
func NewDeduplication() *Deduplication {
	return &Deduplication{}
}

// Name returns the processor's identifier.
func (p *Deduplication) Name() string {
	return "deduplication"
}

// Process removes duplicate issues.
func (p *Deduplication) Process(issues []rules.Issue, ctx *Context) []rules.Issue {
	seen := make(map[string]struct{}, len(issues))
	result := filterIssues(issues, func(i rules.Issue) bool {
		key := i.Key()
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
	if dropped := len(issues) - len(result); dropped > 0 && ctx != nil && ctx.Logger != nil {
		ctx.Logger.WithField("dropped", dropped).Debug("deduplicated issues")
	}
	return result
}
