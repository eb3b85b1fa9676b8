package processor

import (
	"github.com/wharflab/reval/internal/rules"
)

// EnableFilter removes issues for disabled rules.
// Filters out issues with severity "off" and respects the
// Include/Exclude patterns from config.
type EnableFilter struct{}

// NewEnableFilter creates a new enable filter processor.
func NewEnableFilter() *EnableFilter {
	return &EnableFilter{}
}

// Name returns the processor's identifier.
func (p *EnableFilter) Name() string {
	return "enable-filter"
}

// Process filters out issues for disabled rules.
// Issues without a rule id are always kept.
func (p *EnableFilter) Process(issues []rules.Issue, ctx *Context) []rules.Issue {
	rc := ctx.rulesConfig()
	return filterIssues(issues, func(i rules.Issue) bool {
		// SeverityOverride runs before this processor
		if i.Type == rules.SeverityOff {
			return false
		}
		if i.RuleID == "" || rc == nil {
			return true
		}
		if enabled := rc.IsEnabled(i.RuleID); enabled != nil {
			return *enabled
		}
		return true
	})
}
