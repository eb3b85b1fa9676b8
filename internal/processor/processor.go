// Package processor provides the post-analysis issue pipeline.
//
// Issues flow through a sequence of processors, each transforming the
// slice (filtering, modifying, or augmenting). Processors keep the
// relative order of the issues they return.
//
// Standard pipeline order:
//  1. PositionNormalization - Line >= 1 and a filled-in range
//  2. SeverityOverride - Apply config severity overrides
//  3. EnableFilter - Remove issues for disabled rules
//  4. InlineDirectives - Apply reval-ignore comments
//  5. Deduplication - Remove duplicate issues, first occurrence wins
//  6. SuggestionAttachment - Fill in the suggestion text
package processor

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/wharflab/reval/internal/config"
	"github.com/wharflab/reval/internal/rules"
)

// Processor transforms a slice of issues.
// Implementations should be stateless where possible, using Context for shared state.
type Processor interface {
	// Name returns the processor's identifier (for debugging/logging).
	Name() string

	// Process applies the processor's logic to issues.
	// Returns the transformed slice (may be same, filtered, or modified).
	// Must not modify the input slice; return a new slice if filtering.
	Process(issues []rules.Issue, ctx *Context) []rules.Issue
}

// Context provides shared state for processors.
// Populated once before running the chain, then passed to each processor.
type Context struct {
	// Config is the loaded configuration. May be nil.
	Config *config.Config

	// Source is the analyzed text.
	Source string

	// Language is the canonical language of Source.
	Language rules.Language

	// Logger receives debug output from processors.
	Logger logrus.FieldLogger
}

// NewContext creates a new processor context.
func NewContext(cfg *config.Config, lang rules.Language, source string, logger logrus.FieldLogger) *Context {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Context{
		Config:   cfg,
		Source:   source,
		Language: lang,
		Logger:   logger,
	}
}

func (ctx *Context) rulesConfig() *config.RulesConfig {
	if ctx == nil || ctx.Config == nil {
		return nil
	}
	return &ctx.Config.Rules
}

// Chain runs processors in sequence.
type Chain struct {
	processors []Processor
}

// NewChain creates a new processor chain.
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// DefaultChain returns the standard pipeline.
func DefaultChain() *Chain {
	return NewChain(
		NewPositionNormalization(),
		NewSeverityOverride(),
		NewEnableFilter(),
		NewInlineDirectives(),
		NewDeduplication(),
		NewSuggestionAttachment(),
	)
}

// Process runs all processors in sequence.
func (c *Chain) Process(issues []rules.Issue, ctx *Context) []rules.Issue {
	for _, p := range c.processors {
		issues = p.Process(issues, ctx)
	}
	return issues
}

// filterIssues is a helper for processors that filter issues.
// It returns a new slice containing only issues where keep() returns true.
func filterIssues(issues []rules.Issue, keep func(i rules.Issue) bool) []rules.Issue {
	result := make([]rules.Issue, 0, len(issues))
	for _, i := range issues {
		if keep(i) {
			result = append(result, i)
		}
	}
	return result
}

// transformIssues is a helper for processors that modify issues.
// It returns a new slice with each issue transformed by transform().
func transformIssues(issues []rules.Issue, transform func(i rules.Issue) rules.Issue) []rules.Issue {
	result := make([]rules.Issue, len(issues))
	for idx, i := range issues {
		result[idx] = transform(i)
	}
	return result
}
