package diff

import (
	"io"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/sirupsen/logrus"

	"github.com/wharflab/reval/internal/cssparse"
	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/scan"
	"github.com/wharflab/reval/internal/validator"
)

// Text diff algorithms accepted by Options.TextDiff.
const (
	TextDiffMyers = "myers"
	TextDiffNone  = "none"
)

// Options configures a Differ.
type Options struct {
	// CSSParser parses stylesheets. Nil means the built-in scanner parser.
	CSSParser cssparse.Parser

	// TextDiff selects the text diff algorithm. "none" degrades DiffText
	// to a two-segment result.
	TextDiff string

	// Logger receives debug output. Nil means silent.
	Logger logrus.FieldLogger
}

// Differ compares sources. It holds no per-call state and is safe for
// concurrent use.
type Differ struct {
	parser cssparse.Parser
	myers  bool
	log    logrus.FieldLogger
}

// New creates a Differ.
func New(opts Options) *Differ {
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Differ{
		parser: cssparse.Choose(opts.CSSParser),
		myers:  opts.TextDiff != TextDiffNone,
		log:    logger,
	}
}

var defaultDiffer = New(Options{})

// CompareSelectors reports the selectors present in both stylesheets.
func CompareSelectors(cssA, cssB string) []CssDuplicate {
	return defaultDiffer.CompareCss(cssA, cssB)
}

// CompareSymbols reports the symbols present in both sources.
func CompareSymbols(textA, textB, language string) ([]SymbolDuplicate, error) {
	return defaultDiffer.CompareCode(textA, textB, language)
}

// DiffText returns the text diff of a and b.
func DiffText(a, b string) []Segment {
	return defaultDiffer.DiffText(a, b)
}

// CompareCss reports the selectors present in both stylesheets, in the
// order they first appear in cssA. Parse problems are ignored; whatever
// rules were read are compared.
func (d *Differ) CompareCss(cssA, cssB string) []CssDuplicate {
	return compareSelectors(d.parser, cssA, cssB)
}

// CompareCode reports the symbols present in both sources, in the order
// they appear in textA. language is html, javascript or typescript
// (aliases accepted); anything else is an *validator.UnsupportedLanguageError.
func (d *Differ) CompareCode(textA, textB, language string) ([]SymbolDuplicate, error) {
	lang, ok := rules.ParseLanguage(language)
	if !ok || lang == rules.LanguageCSS {
		return nil, &validator.UnsupportedLanguageError{Language: language}
	}
	left, right := extractSymbols(textA, lang), extractSymbols(textB, lang)

	out := []SymbolDuplicate{}
	for _, name := range left.order {
		r, ok := right.byName[name]
		if !ok {
			continue
		}
		l := left.byName[name]
		out = append(out, SymbolDuplicate{
			Kind:        l.kind,
			Name:        name,
			LeftCode:    l.code,
			RightCode:   r.code,
			HasConflict: scan.NormalizeSpace(l.code) != scan.NormalizeSpace(r.code),
		})
	}
	return out, nil
}

func extractSymbols(text string, lang rules.Language) *symbolTable {
	switch lang {
	case rules.LanguageHTML:
		return extractHTMLIDs(text)
	case rules.LanguageTypeScript:
		return extractScript(text, true)
	default:
		return extractScript(text, false)
	}
}

// DiffText returns the diff of a and b as (operation, text) segments. It is
// empty when the texts are equal. With the Myers algorithm disabled, unequal
// texts give the two-segment result [(0, a), (0, b)].
func (d *Differ) DiffText(a, b string) []Segment {
	if a == b {
		return []Segment{}
	}
	if !d.myers {
		return []Segment{{Op: OpEqual, Text: a}, {Op: OpEqual, Text: b}}
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	out := make([]Segment, 0, len(diffs))
	for _, df := range diffs {
		out = append(out, Segment{Op: operation(df.Type), Text: df.Text})
	}
	return out
}

func operation(t diffmatchpatch.Operation) Operation {
	switch t {
	case diffmatchpatch.DiffDelete:
		return OpDelete
	case diffmatchpatch.DiffInsert:
		return OpInsert
	default:
		return OpEqual
	}
}

// Compare runs the structural comparison for language and falls back to a
// text diff when no name is shared.
func (d *Differ) Compare(textA, textB, language string) (*Comparison, error) {
	lang, ok := rules.ParseLanguage(language)
	if !ok {
		return nil, &validator.UnsupportedLanguageError{Language: language}
	}

	c := &Comparison{Language: lang}
	if lang == rules.LanguageCSS {
		c.Selectors = d.CompareCss(textA, textB)
	} else {
		symbols, err := d.CompareCode(textA, textB, language)
		if err != nil {
			return nil, err
		}
		c.Symbols = symbols
	}

	if c.Duplicates() == 0 {
		d.log.WithField("language", lang).Debug("no shared symbols, falling back to text diff")
		c.Selectors, c.Symbols = nil, nil
		c.TextDiff = d.DiffText(textA, textB)
		c.FellBack = true
	}
	return c, nil
}
