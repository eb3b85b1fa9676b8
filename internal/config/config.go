// Package config provides configuration loading and discovery for reval.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (REVAL_* prefix)
//  3. Config file (closest .reval.toml or reval.toml)
//  4. Built-in defaults
//
// Config file discovery walks up from the target's directory until a
// config file is found. The closest config wins (no merging).
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".reval.toml", "reval.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "REVAL_"

// Config represents the complete reval configuration.
type Config struct {
	// Rules contains rule selection and per-rule configuration.
	Rules RulesConfig `json:"rules" koanf:"rules"`

	// Backends selects the optional analyzer backends.
	Backends BackendsConfig `json:"backends" koanf:"backends"`

	// Output configures output format and destination.
	Output OutputConfig `json:"output" koanf:"output"`

	// InlineDirectives controls reval-ignore comments.
	InlineDirectives InlineDirectivesConfig `json:"inline-directives" koanf:"inline-directives"`

	// Session configures the validation session.
	Session SessionConfig `json:"session" koanf:"session"`

	// FileValidation configures pre-read file checks.
	FileValidation FileValidationConfig `json:"file-validation" koanf:"file-validation"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `json:"-" koanf:"-"`
}

// BackendsConfig selects capability providers.
//
//	[backends]
//	css-parser = "douceur"
//	html-linter = false
type BackendsConfig struct {
	// CSSParser names the CSS parser: "scanner" or "douceur".
	CSSParser string `json:"css-parser,omitempty" koanf:"css-parser"`

	// HTMLLinter enables the markup linter rules.
	HTMLLinter bool `json:"html-linter" koanf:"html-linter"`

	// TSSyntax enables tree-sitter syntax diagnostics for TypeScript.
	TSSyntax bool `json:"ts-syntax" koanf:"ts-syntax"`

	// TextDiff names the text diff algorithm: "myers" or "none".
	TextDiff string `json:"text-diff,omitempty" koanf:"text-diff"`
}

// OutputConfig configures output formatting and behavior.
type OutputConfig struct {
	// Format specifies the output format.
	Format string `json:"format,omitempty" koanf:"format"`

	// Path specifies where to write output.
	Path string `json:"path,omitempty" koanf:"path"`

	// ShowSource enables source code snippets in text output.
	ShowSource bool `json:"show-source" koanf:"show-source"`

	// FailLevel sets the minimum severity level that causes a non-zero exit code.
	FailLevel string `json:"fail-level,omitempty" koanf:"fail-level"`
}

// InlineDirectivesConfig controls inline suppression comments such as
// /* reval-ignore css-empty-rule */ or <!-- reval-ignore-file all -->.
//
//	[inline-directives]
//	enabled = true
//	warn-unused = false
//	validate-rules = true
//	require-reason = false
type InlineDirectivesConfig struct {
	// Enabled controls whether inline directives are processed.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// WarnUnused reports directives that suppress nothing.
	WarnUnused bool `json:"warn-unused" koanf:"warn-unused"`

	// ValidateRules reports unknown rule ids named by directives.
	ValidateRules bool `json:"validate-rules" koanf:"validate-rules"`

	// RequireReason reports directives without a reason= explanation.
	RequireReason bool `json:"require-reason" koanf:"require-reason"`
}

// SessionConfig configures the validation session.
type SessionConfig struct {
	// CacheSize is the number of reports kept in the LRU cache (0 disables it).
	CacheSize int `json:"cache-size" koanf:"cache-size"`
}

// FileValidationConfig configures pre-read file checks.
//
//	[file-validation]
//	max-file-size = 102400
type FileValidationConfig struct {
	// MaxFileSize is the maximum file size in bytes (0 = unlimited).
	MaxFileSize int64 `json:"max-file-size" koanf:"max-file-size"`
}

// Default returns the default configuration.
// Rule-specific defaults are owned by each rule via ConfigurableRule.DefaultConfig().
func Default() *Config {
	return &Config{
		Rules: RulesConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Backends: BackendsConfig{
			CSSParser:  "scanner",
			HTMLLinter: true,
			TSSyntax:   true,
			TextDiff:   "myers",
		},
		Output: OutputConfig{
			Format:     "text",
			Path:       "stdout",
			ShowSource: true,
			FailLevel:  "warning",
		},
		InlineDirectives: InlineDirectivesConfig{
			Enabled:       true,
			ValidateRules: true,
		},
		Session: SessionConfig{
			CacheSize: 64,
		},
		FileValidation: FileValidationConfig{
			MaxFileSize: 2 << 20, // 2 MiB
		},
	}
}

// Load loads configuration for a target file path.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(targetPath string) (*Config, error) {
	return LoadWithOverrides(Discover(targetPath), nil)
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return LoadWithOverrides(configPath, nil)
}

var allowedEnvTopLevelKeys = map[string]struct{}{
	"rules":             {},
	"backends":          {},
	"output":            {},
	"inline-directives": {},
	"session":           {},
	"file-validation":   {},
}

// listKeys hold comma-separated lists when set from the environment.
var listKeys = map[string]bool{
	"rules.include": true,
	"rules.exclude": true,
}

// envKeyTransform converts environment variable names to config keys.
// A double underscore separates nesting levels and a single underscore
// becomes a hyphen:
//
//	REVAL_OUTPUT__FORMAT -> output.format
//	REVAL_RULES__CSS_LARGE_RULE__MAX_DECLARATIONS -> rules.css-large-rule.max-declarations
//
// Values are typed where they parse as integers or booleans.
func envKeyTransform(k, v string) (string, any) {
	s := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	parts := strings.Split(s, "__")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, "_", "-")
	}
	s = strings.Join(parts, ".")

	if _, ok := allowedEnvTopLevelKeys[parts[0]]; !ok || len(parts) < 2 {
		return "", nil
	}
	return s, envValue(s, v)
}

func envValue(key, v string) any {
	if listKeys[key] {
		var out []any
		for item := range strings.SplitSeq(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(v); err == nil && v != "0" && v != "1" {
		return b
	}
	return v
}

// Discover finds the closest config file for a target file path.
// It walks up the directory tree from the target's directory,
// checking for config files at each level.
// Returns empty string if no config file is found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := absPath
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		dir = filepath.Dir(absPath)
	}

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
