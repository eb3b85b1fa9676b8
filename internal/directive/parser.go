package directive

import (
	"regexp"
	"strings"

	"github.com/wharflab/reval/internal/sourcemap"
)

// reval-ignore[-file] RULE1,RULE2 [reason=...]
var directivePattern = regexp.MustCompile(
	`(?i)\breval-ignore(-file)?(?:\s+([A-Za-z0-9_*,\s-]*?))?(?:\s+reason=(.*?))?\s*(?:\*/|-->)?\s*$`)

// RuleValidator reports whether a rule id is known.
type RuleValidator func(string) bool

// Parse extracts all inline directives from a source.
// If validator is non-nil, unknown rule ids generate parse errors.
func Parse(sm *sourcemap.SourceMap, validator RuleValidator) *ParseResult {
	result := &ParseResult{}

	for line := 1; line <= sm.LineCount(); line++ {
		text := sm.Line(line)
		idx := strings.Index(strings.ToLower(text), "reval-ignore")
		if idx < 0 {
			continue
		}
		code, ok := commentPrefix(text[:idx])
		if !ok {
			continue
		}
		m := directivePattern.FindStringSubmatch(text[idx:])
		if m == nil {
			continue
		}

		raw := strings.TrimSpace(text[idx:])
		raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(raw, "-->"), "*/"))

		ruleList, err := parseRuleList(m[2])
		if err != nil {
			result.Errors = append(result.Errors, ParseError{Line: line, Message: err.Error(), RawText: raw})
			continue
		}

		d := Directive{
			Rules:   ruleList,
			Line:    line,
			RawText: raw,
			Reason:  strings.TrimSpace(m[3]),
		}
		switch {
		case m[1] != "":
			d.Type = TypeFile
			d.AppliesTo = FileRange()
		case code:
			d.Type = TypeSameLine
			d.AppliesTo = LineRange{Start: line, End: line}
		default:
			d.Type = TypeNextLine
			d.AppliesTo = nextCodeLineRange(line, sm)
		}
		validateDirective(&d, validator, result)
	}

	return result
}

// commentPrefix checks that the text before a directive keyword opens a
// comment and reports whether code precedes the comment.
func commentPrefix(before string) (hasCode, ok bool) {
	trimmed := strings.TrimRight(before, " \t")
	switch {
	case strings.HasSuffix(trimmed, "<!--"):
		return strings.TrimSpace(strings.TrimSuffix(trimmed, "<!--")) != "", true
	case strings.HasSuffix(trimmed, "//"):
		return strings.TrimSpace(strings.TrimSuffix(trimmed, "//")) != "", true
	case strings.HasSuffix(trimmed, "*"):
		// "/*", "/**" or the "*" of a block comment continuation line
		stars := strings.TrimRight(trimmed, "*")
		if strings.HasSuffix(stars, "/") {
			return strings.TrimSpace(strings.TrimSuffix(stars, "/")) != "", true
		}
		return false, strings.TrimSpace(stars) == ""
	default:
		return false, false
	}
}

// validateDirective validates rule ids and adds the directive or errors.
func validateDirective(d *Directive, validator RuleValidator, result *ParseResult) {
	if validator != nil {
		var unknown []string
		for _, rule := range d.Rules {
			if rule == "all" || strings.ContainsAny(rule, "*?[") {
				continue
			}
			if !validator(rule) {
				unknown = append(unknown, rule)
			}
		}
		if len(unknown) > 0 {
			result.Errors = append(result.Errors, ParseError{
				Line:    d.Line,
				Message: "unknown rule id(s): " + strings.Join(unknown, ", "),
				RawText: d.RawText,
			})
		}
	}
	result.Directives = append(result.Directives, *d)
}

// parseRuleList parses a comma- or space-separated list of rule ids.
// Returns an error if the list is empty.
func parseRuleList(s string) ([]string, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, &parseRuleError{msg: "empty rule list"}
	}
	return fields, nil
}

type parseRuleError struct {
	msg string
}

func (e *parseRuleError) Error() string {
	return e.msg
}

// nextCodeLineRange finds the range for the next line holding code.
// Blank lines and comment-only lines are skipped. If there is none, the
// returned range matches nothing.
func nextCodeLineRange(directiveLine int, sm *sourcemap.SourceMap) LineRange {
	for i := directiveLine + 1; i <= sm.LineCount(); i++ {
		line := strings.TrimSpace(sm.Line(i))
		if line == "" || isCommentOnly(line) {
			continue
		}
		return LineRange{Start: i, End: i}
	}
	return noLines
}

func isCommentOnly(line string) bool {
	switch {
	case strings.HasPrefix(line, "//"), strings.HasPrefix(line, "*"):
		return true
	case strings.HasPrefix(line, "/*"):
		return strings.HasSuffix(line, "*/")
	case strings.HasPrefix(line, "<!--"):
		return strings.HasSuffix(line, "-->")
	default:
		return false
	}
}
