// Package ruleconfig normalizes the shorthand forms a rule entry may take
// in configuration:
//
//	[rules]
//	css-empty-rule = "off"     # severity shorthand
//	css-large-rule = 12        # primary option shorthand
package ruleconfig

import (
	"math"
	"strconv"
	"strings"

	"github.com/wharflab/reval/internal/rules"
)

type shorthandKind int

const (
	shorthandInteger shorthandKind = iota
	shorthandString
)

type shorthandSpec struct {
	optionKey string
	kind      shorthandKind
}

// shorthandByRule maps rules with a primary option to that option.
var shorthandByRule = map[string]shorthandSpec{
	"css-large-rule": {optionKey: "max-declarations", kind: shorthandInteger},
}

// reservedKeys are [rules] entries that are not rule ids.
var reservedKeys = map[string]bool{
	"include": true,
	"exclude": true,
}

// CanonicalizeRuleOptions converts supported shorthand values to the table
// form used by schema validation and config resolution. A severity name
// becomes {severity = ...}; a rule's primary option may be given bare.
func CanonicalizeRuleOptions(ruleCode string, value any) any {
	if _, isMap := value.(map[string]any); isMap {
		return value
	}

	if s, ok := value.(string); ok {
		if _, err := rules.ParseSeverity(s); err == nil {
			return map[string]any{"severity": s}
		}
	}

	spec, ok := shorthandByRule[ruleCode]
	if !ok {
		return value
	}

	switch spec.kind {
	case shorthandInteger:
		if !isIntegerLike(value) {
			return value
		}
		if s, isString := value.(string); isString {
			n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			value = n
		}
	case shorthandString:
		if _, ok := value.(string); !ok {
			return value
		}
	}

	return map[string]any{spec.optionKey: value}
}

// CanonicalizeRulesMap normalizes shorthand values of a [rules] table in-place.
func CanonicalizeRulesMap(ruleEntries map[string]any) {
	for code, value := range ruleEntries {
		if reservedKeys[code] {
			continue
		}
		ruleEntries[code] = CanonicalizeRuleOptions(code, value)
	}
}

func isIntegerLike(value any) bool {
	switch typed := value.(type) {
	case int, int8, int16, int32, int64:
		return true
	case uint:
		return uint64(typed) <= math.MaxInt64
	case uint64:
		return typed <= math.MaxInt64
	case uint8, uint16, uint32:
		return true
	case float32:
		return typed == float32(int64(typed)) && !math.IsInf(float64(typed), 0)
	case float64:
		return typed == math.Trunc(typed) && !math.IsInf(typed, 0) && !math.IsNaN(typed) &&
			typed >= math.MinInt64 && typed <= math.MaxInt64
	case string:
		_, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		return err == nil
	default:
		return false
	}
}
