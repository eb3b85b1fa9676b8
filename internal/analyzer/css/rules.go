// Package css implements the CSS analyzer: empty rules and declarations,
// duplicate properties, conflicting values across repeated selectors,
// and oversized selectors.
package css

import (
	"github.com/wharflab/reval/internal/rules"
)

// Rule ids reported by the CSS analyzer.
const (
	ParseErrorCode       = "css-parse-error"
	EmptyRuleCode        = "css-empty-rule"
	EmptyDeclarationCode = "css-empty-declaration"
	DuplicatePropCode    = "css-duplicate-property"
	ConflictingCode      = "css-conflicting-values"
	LargeRuleCode        = "css-large-rule"
)

var cssOnly = []rules.Language{rules.LanguageCSS}

var (
	parseErrorRule = rules.RuleMetadata{
		Code:            ParseErrorCode,
		Name:            "CSS syntax error",
		Description:     "The stylesheet could not be fully parsed",
		Languages:       cssOnly,
		DefaultSeverity: rules.SeverityError,
		Category:        "syntax",
	}
	emptyRuleRule = rules.RuleMetadata{
		Code:            EmptyRuleCode,
		Name:            "Empty rule",
		Description:     "A rule block without declarations",
		Languages:       cssOnly,
		DefaultSeverity: rules.SeverityWarning,
		Category:        "maintainability",
	}
	emptyDeclarationRule = rules.RuleMetadata{
		Code:            EmptyDeclarationCode,
		Name:            "Empty declaration",
		Description:     "A declaration whose value is empty or punctuation only",
		Languages:       cssOnly,
		DefaultSeverity: rules.SeverityWarning,
		Category:        "correctness",
	}
	duplicatePropRule = rules.RuleMetadata{
		Code:            DuplicatePropCode,
		Name:            "Duplicate property",
		Description:     "The same property is declared more than once in one rule",
		Languages:       cssOnly,
		DefaultSeverity: rules.SeverityWarning,
		Category:        "correctness",
	}
	conflictingRule = rules.RuleMetadata{
		Code:            ConflictingCode,
		Name:            "Conflicting values",
		Description:     "Repeated occurrences of a selector assign different values to a property",
		Languages:       cssOnly,
		DefaultSeverity: rules.SeverityWarning,
		Category:        "correctness",
	}
)

// LargeRuleConfig configures css-large-rule.
type LargeRuleConfig struct {
	// MaxDeclarations is the largest number of declarations a selector may
	// accumulate across all its occurrences.
	MaxDeclarations int `json:"max-declarations,omitempty" koanf:"max-declarations"`
}

// DefaultLargeRuleConfig returns the default configuration.
func DefaultLargeRuleConfig() LargeRuleConfig {
	return LargeRuleConfig{MaxDeclarations: 8}
}

// LargeRule flags selectors with too many declarations.
type LargeRule struct{}

// Metadata implements rules.Rule.
func (LargeRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            LargeRuleCode,
		Name:            "Large rule",
		Description:     "A selector accumulates many declarations, which often means duplicated rules",
		Languages:       cssOnly,
		DefaultSeverity: rules.SeverityWarning,
		Category:        "maintainability",
	}
}

// DefaultConfig implements rules.ConfigurableRule.
func (LargeRule) DefaultConfig() any {
	return DefaultLargeRuleConfig()
}

// Schema implements rules.ConfigurableRule.
func (LargeRule) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"max-declarations": map[string]any{
				"type":    "integer",
				"minimum": 1,
			},
		},
		"additionalProperties": false,
	}
}

func allRules() []rules.Rule {
	return []rules.Rule{
		parseErrorRule,
		emptyRuleRule,
		emptyDeclarationRule,
		duplicatePropRule,
		conflictingRule,
		LargeRule{},
	}
}

func init() {
	for _, r := range allRules() {
		rules.Register(r)
	}
}
