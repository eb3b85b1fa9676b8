// Package diff compares two sources of the same language.
//
// Structural comparison extracts named symbols from each side (CSS
// selectors, HTML ids, JS/TS functions, variables and classes) and reports
// the names both sides share, flagging those whose code differs. When no
// name is shared, callers fall back to a plain text diff.
package diff

import "github.com/wharflab/reval/internal/rules"

// Operation is the kind of a text diff segment.
type Operation int

const (
	// OpDelete marks text only present on the left.
	OpDelete Operation = -1
	// OpEqual marks text present on both sides.
	OpEqual Operation = 0
	// OpInsert marks text only present on the right.
	OpInsert Operation = 1
)

// Segment is one (operation, text) pair of a text diff.
type Segment struct {
	Op   Operation `json:"op"`
	Text string    `json:"text"`
}

// Kind classifies an extracted symbol.
type Kind string

const (
	KindSelector Kind = "selector"
	KindID       Kind = "id"
	KindFunction Kind = "function"
	KindVariable Kind = "variable"
	KindClass    Kind = "class"
)

// CssDuplicate is a selector present on both sides. Declarations are
// sorted "property: value" strings.
type CssDuplicate struct {
	Selector      string   `json:"selector"`
	DeclarationsA []string `json:"declarationsA"`
	DeclarationsB []string `json:"declarationsB"`
	HasConflict   bool     `json:"hasConflict"`
}

// SymbolDuplicate is a named symbol present on both sides.
type SymbolDuplicate struct {
	Kind        Kind   `json:"kind"`
	Name        string `json:"name"`
	LeftCode    string `json:"leftCode"`
	RightCode   string `json:"rightCode"`
	HasConflict bool   `json:"hasConflict"`
}

// Comparison is the result of Compare. Exactly one of Selectors, Symbols
// or TextDiff is populated; FellBack is set when TextDiff was used because
// no symbol was shared.
type Comparison struct {
	Language  rules.Language    `json:"language"`
	Selectors []CssDuplicate    `json:"selectors,omitempty"`
	Symbols   []SymbolDuplicate `json:"symbols,omitempty"`
	TextDiff  []Segment         `json:"textDiff,omitempty"`
	FellBack  bool              `json:"fellBack"`
}

// Conflicts counts the duplicates whose two sides differ.
func (c *Comparison) Conflicts() int {
	n := 0
	for _, d := range c.Selectors {
		if d.HasConflict {
			n++
		}
	}
	for _, d := range c.Symbols {
		if d.HasConflict {
			n++
		}
	}
	return n
}

// Duplicates counts the names present on both sides.
func (c *Comparison) Duplicates() int {
	return len(c.Selectors) + len(c.Symbols)
}
