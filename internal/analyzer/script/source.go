package script

import (
	"regexp"
	"strings"

	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/scan"
	"github.com/wharflab/reval/internal/sourcemap"
)

// source pairs the original text with its masked form. Checks match on
// masked, where literal and comment contents are blank, and read literal
// text back from text at the same offsets.
type source struct {
	text   string
	masked string
	lang   rules.Language
	sm     *sourcemap.SourceMap
}

func newSource(text string, lang rules.Language) *source {
	return &source{text: text, masked: scan.MaskScript(text), lang: lang, sm: sourcemap.New(text)}
}

func (s *source) isTypeScript() bool {
	return s.lang == rules.LanguageTypeScript
}

func (s *source) issueAt(kind rules.Severity, offset int, code, msg string) rules.Issue {
	line, col := s.sm.Position(offset)
	return rules.NewIssue(kind, line, code, msg).
		WithColumn(col).
		WithRange(rules.NewPointRange(line, col))
}

// prevSignificant returns the index of the last non-space byte of masked
// before i, or -1.
func (s *source) prevSignificant(i int) int {
	for j := i - 1; j >= 0; j-- {
		if c := s.masked[j]; c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return j
		}
	}
	return -1
}

// wordBefore returns the identifier ending at index i of masked, or "".
func (s *source) wordBefore(i int) string {
	j := i + 1
	for i >= 0 && isIdentByte(s.masked[i]) {
		i--
	}
	return s.masked[i+1 : j]
}

// leadingSpace returns the offset of the first non-space byte of span in
// masked.
func (s *source) leadingSpace(sp scan.Span) int {
	return min(scan.SkipSpace(s.masked[:sp.End], sp.Start), sp.End)
}

var numberRe = regexp.MustCompile(`^-?(?:0[xXoObB][0-9a-fA-F_]+|(?:\d[\d_]*\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)n?$`)

// literalType classifies an expression taken from masked text as "string",
// "number" or "boolean" when it is exactly one literal, and "" otherwise.
func literalType(expr string) string {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return ""
	case len(expr) >= 2 && strings.IndexByte("\"'`", expr[0]) >= 0 && expr[len(expr)-1] == expr[0] &&
		strings.TrimSpace(expr[1:len(expr)-1]) == "":
		return "string"
	case numberRe.MatchString(expr):
		return "number"
	case expr == "true" || expr == "false":
		return "boolean"
	}
	return ""
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
