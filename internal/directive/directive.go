// Package directive provides inline suppression comments for validation.
//
// A directive lives in any comment the language allows:
//
//	/* reval-ignore css-empty-rule */
//	// reval-ignore js-loose-equality,js-var reason=legacy API
//	<!-- reval-ignore-file doctype-first -->
//
// Directives can be:
//   - Next-line: on a line of its own, affects the next line with code
//   - Same-line: trailing code, affects that line
//   - File: reval-ignore-file, affects the entire source
package directive

import (
	"math"

	"github.com/bmatcuk/doublestar/v4"
)

// DirectiveType indicates the scope of a directive.
type DirectiveType int

const (
	// TypeNextLine affects only the next line with code.
	TypeNextLine DirectiveType = iota
	// TypeSameLine affects the line the directive trails.
	TypeSameLine
	// TypeFile affects the entire source.
	TypeFile
)

// String returns a human-readable name for the directive type.
func (t DirectiveType) String() string {
	switch t {
	case TypeNextLine:
		return "next-line"
	case TypeSameLine:
		return "same-line"
	case TypeFile:
		return "file"
	default:
		return "unknown"
	}
}

// LineRange represents a range of 1-based lines affected by a directive.
type LineRange struct {
	// Start is the first line (inclusive).
	Start int
	// End is the last line (inclusive). For file directives, this is math.MaxInt.
	End int
}

// Contains returns true if the given 1-based line is within the range.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// FileRange returns a LineRange that covers the entire source.
func FileRange() LineRange {
	return LineRange{Start: 1, End: math.MaxInt}
}

// noLines matches nothing; used when a next-line directive has no next line.
var noLines = LineRange{Start: -1, End: -1}

// Directive represents a parsed inline suppression directive.
type Directive struct {
	// Type indicates the directive's scope.
	Type DirectiveType

	// Rules contains the rule ids or patterns to suppress.
	// "all" suppresses every rule.
	Rules []string

	// Line is the 1-based line where the directive appears.
	Line int

	// AppliesTo is the range of lines affected by this directive.
	AppliesTo LineRange

	// Used is set when this directive suppresses at least one issue.
	Used bool

	// RawText is the directive text (for messages).
	RawText string

	// Reason is the optional explanation given with reason=.
	Reason string
}

// SuppressesRule returns true if this directive suppresses the given rule id.
// Entries are exact ids, "all", or glob patterns such as "css-*".
func (d *Directive) SuppressesRule(ruleID string) bool {
	if ruleID == "" {
		return false
	}
	for _, r := range d.Rules {
		if r == "all" || r == ruleID {
			return true
		}
		if ok, err := doublestar.Match(r, ruleID); err == nil && ok {
			return true
		}
	}
	return false
}

// SuppressesLine returns true if this directive covers the 1-based line.
func (d *Directive) SuppressesLine(line int) bool {
	return d.AppliesTo.Contains(line)
}

// ParseResult contains all directives parsed from a source plus any errors.
type ParseResult struct {
	// Directives contains successfully parsed directives.
	Directives []Directive

	// Errors contains problems with malformed or unknown directives.
	Errors []ParseError
}

// ParseError represents an error parsing a directive.
type ParseError struct {
	// Line is the 1-based line where the error occurred.
	Line int

	// Message describes what went wrong.
	Message string

	// RawText is the directive text.
	RawText string
}
