package processor

import (
	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/suggest"
)

// SuggestionAttachment populates the Suggestion field of issues from the
// rule suggestion table. Issues that already carry a suggestion keep it.
type SuggestionAttachment struct{}

// NewSuggestionAttachment creates a new suggestion attachment processor.
func NewSuggestionAttachment() *SuggestionAttachment {
	return &SuggestionAttachment{}
}

// Name returns the processor's identifier.
func (p *SuggestionAttachment) Name() string {
	return "suggestion-attachment"
}

// Process attaches suggestions to issues.
func (p *SuggestionAttachment) Process(issues []rules.Issue, _ *Context) []rules.Issue {
	return transformIssues(issues, func(i rules.Issue) rules.Issue {
		i.Suggestion = suggest.For(i)
		return i
	})
}
