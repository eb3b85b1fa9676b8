package rules

// Input is what an analyzer or check receives. It is read-only.
type Input struct {
	// File is the path of the source, empty for in-memory text.
	File string

	// Source is the full source text.
	Source string

	// Language is the canonical language of Source.
	Language Language

	// Options holds rule options keyed by rule code.
	Options map[string]any
}

// RuleOptions returns the configured options for a rule, or nil.
func (in Input) RuleOptions(code string) any {
	if in.Options == nil {
		return nil
	}
	return in.Options[code]
}

// RuleMetadata contains static information about a rule.
type RuleMetadata struct {
	// Code is the stable rule id (e.g. "css-empty-rule").
	Code string `json:"code"`

	// Name is the human-readable rule name.
	Name string `json:"name"`

	// Description explains what the rule checks.
	Description string `json:"description"`

	// Languages lists the languages the rule applies to.
	Languages []Language `json:"languages"`

	// DefaultSeverity is the issue kind when not overridden.
	DefaultSeverity Severity `json:"defaultSeverity"`

	// Category groups related rules (e.g. "correctness", "maintainability").
	Category string `json:"category"`

	// Backend names the optional provider that produces the rule, empty for built-in checks.
	Backend string `json:"backend,omitempty"`
}

// Metadata lets a bare RuleMetadata act as a Rule for checks that run
// inside a shared traversal rather than on their own.
func (m RuleMetadata) Metadata() RuleMetadata {
	return m
}

// AppliesTo reports whether the rule covers lang.
func (m RuleMetadata) AppliesTo(lang Language) bool {
	for _, l := range m.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Rule is anything that reports issues under a stable code.
type Rule interface {
	// Metadata returns static information about the rule.
	Metadata() RuleMetadata
}

// ConfigurableRule is an optional interface for rules that accept options.
type ConfigurableRule interface {
	Rule

	// DefaultConfig returns the default options for this rule.
	DefaultConfig() any

	// Schema returns the JSON schema of the options.
	Schema() map[string]any
}

// Analyzer produces issues for one or more languages.
type Analyzer interface {
	// Languages lists the languages the analyzer accepts.
	Languages() []Language

	// Rules lists the rules the analyzer may report.
	Rules() []Rule

	// Analyze runs all checks over the input. It never fails; problems
	// with the input become issues.
	Analyze(input Input) []Issue
}
