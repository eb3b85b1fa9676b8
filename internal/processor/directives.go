package processor

import (
	"strings"

	"github.com/wharflab/reval/internal/directive"
	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/sourcemap"
)

// InlineDirectives drops issues suppressed by reval-ignore comments and
// reports problems with the directives themselves. The reported issues
// pass through severity overrides and the enable filter like any other.
type InlineDirectives struct{}

// NewInlineDirectives creates a new inline directive processor.
func NewInlineDirectives() *InlineDirectives {
	return &InlineDirectives{}
}

// Name returns the processor's identifier.
func (p *InlineDirectives) Name() string {
	return "inline-directives"
}

// Process filters issues through the directives found in ctx.Source.
func (p *InlineDirectives) Process(issues []rules.Issue, ctx *Context) []rules.Issue {
	if ctx == nil || ctx.Config == nil || !ctx.Config.InlineDirectives.Enabled {
		return issues
	}
	if !strings.Contains(strings.ToLower(ctx.Source), "reval-ignore") {
		return issues
	}
	opts := ctx.Config.InlineDirectives

	var validate directive.RuleValidator
	if opts.ValidateRules {
		validate = rules.DefaultRegistry().Has
	}
	parsed := directive.Parse(sourcemap.New(ctx.Source), validate)
	filtered := directive.Filter(issues, parsed.Directives)

	var extra []rules.Issue
	for _, e := range parsed.Errors {
		extra = append(extra, directive.ParseErrorIssue(e))
	}
	if opts.WarnUnused {
		for _, d := range filtered.UnusedDirectives {
			extra = append(extra, directive.UnusedIssue(d))
		}
	}
	if opts.RequireReason {
		for _, d := range parsed.Directives {
			if d.Reason == "" {
				extra = append(extra, directive.MissingReasonIssue(d))
			}
		}
	}

	if n := len(filtered.Suppressed); n > 0 {
		ctx.Logger.WithField("suppressed", n).Debug("inline directives suppressed issues")
	}
	if len(extra) == 0 {
		return filtered.Issues
	}
	extra = NewSeverityOverride().Process(extra, ctx)
	extra = NewEnableFilter().Process(extra, ctx)
	return append(filtered.Issues, extra...)
}
