// Package cssparse turns CSS text into a tree of rules and declarations.
//
// Two backends implement Parser: the built-in positional parser on the
// gorilla/css tokenizer, and an alternate backend on douceur. Parsing is
// tolerant: problems become ParseErrors and the rules read so far are kept.
package cssparse

import (
	"fmt"
	"strings"
)

// Declaration is one "property: value" pair inside a rule.
type Declaration struct {
	Property  string
	Value     string
	Important bool
	Line      int
	Column    int
	// Start and End are byte offsets of the declaration including its
	// trailing ';'. End is exclusive. Both are -1 when the backend has no offsets.
	Start int
	End   int
}

// HasSpan reports whether the declaration carries byte offsets.
func (d Declaration) HasSpan() bool {
	return d.Start >= 0 && d.End > d.Start
}

// String renders the declaration as "property: value".
func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " !important"
	}
	return d.Property + ": " + d.Value
}

// Rule is a selector (or at-rule prelude) with its declaration block.
type Rule struct {
	// Selector is the serialized prelude. At-rules keep their "@name" prefix.
	Selector string
	// AtRule is set for at-rules such as @font-face.
	AtRule bool
	Line   int
	Column int

	Declarations []Declaration
	// Children holds rules nested inside @media blocks or nested selectors.
	Children []*Rule
}

// Key returns the selector, or the serialized rule when the prelude is empty.
func (r *Rule) Key() string {
	if r.Selector != "" {
		return r.Selector
	}
	parts := make([]string, 0, len(r.Declarations))
	for _, d := range r.Declarations {
		parts = append(parts, d.Property+":"+d.Value)
	}
	return "{" + strings.Join(parts, ";") + "}"
}

// Stylesheet is the parse result.
type Stylesheet struct {
	Rules []*Rule
}

// Walk visits every rule depth-first in document order.
func (s *Stylesheet) Walk(fn func(*Rule)) {
	var walk func([]*Rule)
	walk = func(rules []*Rule) {
		for _, r := range rules {
			fn(r)
			walk(r.Children)
		}
	}
	walk(s.Rules)
}

// ParseError describes a syntax problem. Line and Column are 1-based, 0 when unknown.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

// Parser is the CSS parsing capability.
type Parser interface {
	// Name identifies the backend in configuration and logs.
	Name() string
	// Available reports whether the backend can be used.
	Available() bool
	// Parse parses text. It always returns a stylesheet, possibly partial.
	Parse(text string) (*Stylesheet, []*ParseError)
}

// Backend names accepted by New.
const (
	BackendScanner = "scanner"
	BackendDouceur = "douceur"
)

// New returns the parser registered under name. Unknown names fall back
// to the built-in scanner parser.
func New(name string) Parser {
	switch strings.ToLower(name) {
	case BackendDouceur:
		return Douceur{}
	default:
		return Scanner{}
	}
}

// Choose returns preferred when it is available, otherwise the built-in parser.
func Choose(preferred Parser) Parser {
	if preferred != nil && preferred.Available() {
		return preferred
	}
	return Scanner{}
}
