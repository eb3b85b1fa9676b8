package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"

	"github.com/wharflab/reval/internal/ruleconfig"
	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/rules/configutil"
)

func enumOf(values ...string) map[string]any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return map[string]any{"type": "string", "enum": out}
}

func table(props map[string]any) map[string]any {
	return map[string]any{"type": "object", "properties": props, "additionalProperties": false}
}

var (
	boolean     = map[string]any{"type": "boolean"}
	nonNegative = map[string]any{"type": "integer", "minimum": 0}
	patternList = map[string]any{"type": []any{"array", "null"}, "items": map[string]any{"type": "string"}}
)

// configSchema describes every section except the per-rule tables, which
// are checked against each rule's own schema when the engine is built.
var configSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"rules": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"include": patternList,
				"exclude": patternList,
			},
		},
		"backends": table(map[string]any{
			"css-parser":  enumOf("scanner", "douceur"),
			"html-linter": boolean,
			"ts-syntax":   boolean,
			"text-diff":   enumOf("myers", "none"),
		}),
		"output": table(map[string]any{
			"format":      enumOf("text", "json", "sarif", "github-actions", "markdown"),
			"path":        map[string]any{"type": "string"},
			"show-source": boolean,
			"fail-level":  enumOf("error", "warning", "info", "none"),
		}),
		"inline-directives": table(map[string]any{
			"enabled":        boolean,
			"warn-unused":    boolean,
			"validate-rules": boolean,
			"require-reason": boolean,
		}),
		"session": table(map[string]any{
			"cache-size": nonNegative,
		}),
		"file-validation": table(map[string]any{
			"max-file-size": nonNegative,
		}),
	},
	"additionalProperties": false,
}

func decodeConfig(raw map[string]any) (*Config, error) {
	normalizeLists(raw)
	if err := configutil.ValidateWithSchema(raw, configSchema); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(raw, ""), nil); err != nil {
		return nil, fmt.Errorf("load normalized config: %w", err)
	}
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	perRule, err := decodeRuleTables(raw)
	if err != nil {
		return nil, err
	}
	cfg.Rules.PerRule = perRule
	return cfg, nil
}

// normalizeLists lets include and exclude be given as a single string.
// normalizeLists turns single patterns into lists and expands rule shorthands.
func normalizeLists(raw map[string]any) {
	rulesRaw, ok := raw["rules"].(map[string]any)
	if !ok {
		return
	}
	ruleconfig.CanonicalizeRulesMap(rulesRaw)
	for _, key := range []string{"include", "exclude"} {
		if s, isString := rulesRaw[key].(string); isString {
			rulesRaw[key] = []any{s}
		}
	}
}

// decodeRuleTables reads [rules.<id>] tables: severity plus flattened options.
func decodeRuleTables(raw map[string]any) (map[string]RuleConfig, error) {
	rulesRaw, ok := raw["rules"].(map[string]any)
	if !ok {
		return nil, nil
	}

	out := make(map[string]RuleConfig)
	for code, v := range rulesRaw {
		if code == "include" || code == "exclude" {
			continue
		}
		tbl, isTable := v.(map[string]any)
		if !isTable {
			return nil, fmt.Errorf("invalid configuration: rules.%s must be a table", code)
		}

		var rc RuleConfig
		for key, val := range tbl {
			if key == "severity" {
				s, isString := val.(string)
				if !isString {
					return nil, fmt.Errorf("invalid configuration: rules.%s.severity must be a string", code)
				}
				if _, err := rules.ParseSeverity(s); err != nil {
					return nil, fmt.Errorf("invalid configuration: rules.%s.severity: %w", code, err)
				}
				rc.Severity = s
				continue
			}
			if rc.Options == nil {
				rc.Options = make(map[string]any)
			}
			rc.Options[key] = val
		}
		out[code] = rc
	}
	return out, nil
}
