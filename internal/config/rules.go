package config

import (
	"maps"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/wharflab/reval/internal/rules/configutil"
)

// RuleConfig represents per-rule configuration.
// Can be specified in TOML as:
//
//	[rules.css-large-rule]
//	severity = "info"
//	# Rule-specific options are flattened at this level
//	max-declarations = 12
type RuleConfig struct {
	// Severity overrides the rule's default severity.
	// Use "off" to disable the rule.
	Severity string `json:"severity,omitempty"`

	// Options contains rule-specific configuration options.
	Options map[string]any `json:"-"`
}

// RulesConfig contains rule selection and per-rule configuration.
//
// Example TOML:
//
//	[rules]
//	include = ["css-*"]              # Enable rules by pattern
//	exclude = ["js-missing-braces"]  # Disable specific rules
//
//	[rules.css-large-rule]
//	severity = "info"
//	max-declarations = 12
type RulesConfig struct {
	// Include explicitly enables rules.
	Include []string `json:"include,omitempty" koanf:"include"`

	// Exclude explicitly disables rules.
	Exclude []string `json:"exclude,omitempty" koanf:"exclude"`

	// PerRule holds [rules.<id>] tables keyed by rule id.
	PerRule map[string]RuleConfig `json:"-" koanf:"-"`
}

// Get returns the configuration for a specific rule.
// Returns nil if no configuration exists for the rule.
func (rc *RulesConfig) Get(ruleCode string) *RuleConfig {
	if rc == nil {
		return nil
	}
	if cfg, ok := rc.PerRule[ruleCode]; ok {
		return &cfg
	}
	return nil
}

// IsEnabled checks if a rule is enabled based on Include/Exclude patterns.
// Returns nil if no configuration specifies enabled/disabled (use rule default).
// Include takes precedence over Exclude.
func (rc *RulesConfig) IsEnabled(ruleCode string) *bool {
	if rc == nil {
		return nil
	}

	if matchesAnyPattern(ruleCode, rc.Include) {
		return new(true)
	}

	if matchesAnyPattern(ruleCode, rc.Exclude) {
		return new(false)
	}

	return nil
}

// matchesAnyPattern checks if ruleCode matches any pattern in the list.
// Patterns are exact ids, "*", or globs such as "css-*".
func matchesAnyPattern(ruleCode string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "*" || pattern == ruleCode {
			return true
		}
		if ok, err := doublestar.Match(pattern, ruleCode); err == nil && ok {
			return true
		}
	}
	return false
}

// GetSeverity returns the severity override for a rule.
// Returns empty string if no override is configured.
func (rc *RulesConfig) GetSeverity(ruleCode string) string {
	if cfg := rc.Get(ruleCode); cfg != nil {
		return cfg.Severity
	}
	return ""
}

// GetOptions returns rule-specific options.
// Returns nil if no options are configured.
// Returns a shallow copy to prevent mutation of internal state.
func (rc *RulesConfig) GetOptions(ruleCode string) map[string]any {
	if cfg := rc.Get(ruleCode); cfg != nil && cfg.Options != nil {
		return maps.Clone(cfg.Options)
	}
	return nil
}

// AllOptions returns the options of every configured rule keyed by rule id,
// in the shape analyzers receive them.
func (rc *RulesConfig) AllOptions() map[string]any {
	if rc == nil {
		return nil
	}
	out := make(map[string]any)
	for _, code := range rc.Codes() {
		if opts := rc.GetOptions(code); opts != nil {
			out[code] = opts
		}
	}
	return out
}

// Codes returns the ids of all configured rules, sorted.
func (rc *RulesConfig) Codes() []string {
	if rc == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(rc.PerRule))
}

// DecodeRuleOptions returns typed rule options merged over defaults.
// Returns defaults if the rule has no options or decoding fails.
func DecodeRuleOptions[T any](rc *RulesConfig, ruleCode string, defaults T) T {
	if rc == nil {
		return defaults
	}
	return configutil.Resolve(rc.GetOptions(ruleCode), defaults)
}

// Set stores configuration for a rule.
func (rc *RulesConfig) Set(ruleCode string, cfg RuleConfig) {
	if rc.PerRule == nil {
		rc.PerRule = make(map[string]RuleConfig)
	}
	rc.PerRule[ruleCode] = cfg
}
