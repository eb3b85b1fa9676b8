package processor

import (
	"github.com/wharflab/reval/internal/rules"
)

// SeverityOverride applies severity overrides from configuration.
// Allows users to downgrade warnings to info, upgrade info to errors, etc.
// An "off" override marks the issue for removal by EnableFilter.
type SeverityOverride struct{}

// NewSeverityOverride creates a new severity override processor.
func NewSeverityOverride() *SeverityOverride {
	return &SeverityOverride{}
}

// Name returns the processor's identifier.
func (p *SeverityOverride) Name() string {
	return "severity-override"
}

// Process applies severity overrides from config.
func (p *SeverityOverride) Process(issues []rules.Issue, ctx *Context) []rules.Issue {
	rc := ctx.rulesConfig()
	if rc == nil {
		return issues
	}
	return transformIssues(issues, func(i rules.Issue) rules.Issue {
		override := rc.GetSeverity(i.RuleID)
		if override == "" {
			return i
		}
		sev, err := rules.ParseSeverity(override)
		if err != nil {
			// Invalid severity in config - keep original
			return i
		}
		i.Type = sev
		return i
	})
}
