package diff

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/wharflab/reval/internal/scan"
)

// symbol is one extracted unit of one side.
type symbol struct {
	kind   Kind
	name   string
	code   string
	offset int
}

// symbolTable keeps the first symbol per name, in source order.
type symbolTable struct {
	byName map[string]symbol
	order  []string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{byName: make(map[string]symbol)}
}

func (t *symbolTable) add(s symbol) {
	if _, ok := t.byName[s.name]; ok {
		return
	}
	t.byName[s.name] = s
	t.order = append(t.order, s.name)
}

// extractHTMLIDs maps each id to the whitespace-normalized opening tag of
// the first element carrying it.
//
// False negatives: ids set on end tags or inside comments, script or style
// contents are not seen.
func extractHTMLIDs(text string) *symbolTable {
	t := newSymbolTable()
	for _, tok := range scan.Tokenize(text) {
		if tok.Kind != scan.TokenStartTag && tok.Kind != scan.TokenSelfClosingTag {
			continue
		}
		id, ok := scan.FindAttr(tok.Attrs, "id")
		if !ok || strings.TrimSpace(id.Value) == "" {
			continue
		}
		t.add(symbol{kind: KindID, name: id.Value, code: scan.NormalizeSpace(tok.Raw), offset: tok.Start})
	}
	return t
}

var (
	functionRe = regexp.MustCompile(`\bfunction\b\s*\*?\s*([A-Za-z_$][\w$]*)\s*(?:<[^>(]*>\s*)?\(`)
	bindingRe  = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*(?::[^=;]*)?=[^=>]`)
	classRe    = regexp.MustCompile(`\bclass\s+([A-Za-z_$][\w$]*)`)
	arrowRe    = regexp.MustCompile(`^\s*(?:async\s+)?(?:\([^()]*\)|[A-Za-z_$][\w$]*)\s*(?::[^=;{]*)?=>\s*`)
)

// scriptSource pairs a script with its masked copy, in which the contents
// of strings, comments, templates and regexes are blanked so delimiter
// scans see code only.
type scriptSource struct {
	text   string
	masked string
}

func newScriptSource(text string) scriptSource {
	return scriptSource{text: text, masked: scan.MaskScript(text)}
}

// topLevel reports whether offset is outside every (), [] and {} group.
func (s scriptSource) topLevel(offset int) bool {
	return scan.DepthAt(s.masked, offset) == 0
}

// snippet returns the original text of [start, end), trimmed.
func (s scriptSource) snippet(start, end int) string {
	return strings.TrimSpace(s.text[start:end])
}

// extractFunctions finds top-level named function declarations. The body
// is the brace block following the parameter list.
//
// False negatives: functions nested in other blocks, and declarations whose
// return type annotation contains a '{' (object types).
func (s scriptSource) extractFunctions() []symbol {
	var out []symbol
	for _, m := range functionRe.FindAllStringSubmatchIndex(s.masked, -1) {
		start := m[0]
		if !s.topLevel(start) {
			continue
		}
		closeParen := scan.MatchParen(s.masked, m[1])
		if closeParen == scan.NotFound {
			continue
		}
		open := strings.IndexByte(s.masked[closeParen:], '{')
		if open < 0 {
			continue
		}
		open += closeParen
		end := scan.MatchBrace(s.masked, open+1)
		if end == scan.NotFound {
			continue
		}
		out = append(out, symbol{
			kind:   KindFunction,
			name:   s.masked[m[2]:m[3]],
			code:   s.snippet(start, end+1),
			offset: start,
		})
	}
	return out
}

// extractBindings finds top-level const/let/var bindings. Arrow functions
// and function expressions are reported as functions: a block body ends at
// its matching brace, an expression body at the end of the statement.
// Any other initializer is reported as a variable up to the end of its
// statement.
//
// False negatives: destructuring patterns, and several declarators in one
// statement (only the first is seen).
func (s scriptSource) extractBindings() []symbol {
	var out []symbol
	for _, m := range bindingRe.FindAllStringSubmatchIndex(s.masked, -1) {
		start := m[0]
		if !s.topLevel(start) {
			continue
		}
		rhs := m[1] - 1
		kind := KindVariable
		end := scan.NotFound

		rest := s.masked[rhs:]
		if head := arrowRe.FindStringIndex(rest); head != nil {
			kind = KindFunction
			bodyStart := rhs + head[1]
			if bodyStart < len(s.masked) && s.masked[bodyStart] == '{' {
				if closing := scan.MatchBrace(s.masked, bodyStart+1); closing != scan.NotFound {
					end = closing + 1
				}
			} else {
				end = scan.StatementEnd(s.masked, bodyStart)
			}
		} else {
			if strings.HasPrefix(strings.TrimSpace(rest), "function") ||
				strings.HasPrefix(strings.TrimSpace(rest), "async function") {
				kind = KindFunction
			}
			end = scan.StatementEnd(s.masked, rhs)
		}
		if end == scan.NotFound || end <= start {
			continue
		}
		// A terminating ';' is optional, so it never makes two bindings differ.
		code := strings.TrimSpace(strings.TrimSuffix(s.snippet(start, end), ";"))
		out = append(out, symbol{
			kind:   kind,
			name:   s.masked[m[2]:m[3]],
			code:   code,
			offset: start,
		})
	}
	return out
}

// extractClasses finds top-level class declarations with their bodies.
//
// False negatives: class expressions assigned to bindings.
func (s scriptSource) extractClasses() []symbol {
	var out []symbol
	for _, m := range classRe.FindAllStringSubmatchIndex(s.masked, -1) {
		start := m[0]
		if !s.topLevel(start) {
			continue
		}
		open := classBodyOpen(s.masked, m[1])
		if open == scan.NotFound {
			continue
		}
		end := scan.MatchBrace(s.masked, open+1)
		if end == scan.NotFound {
			continue
		}
		out = append(out, symbol{
			kind:   KindClass,
			name:   s.masked[m[2]:m[3]],
			code:   s.snippet(start, end+1),
			offset: start,
		})
	}
	return out
}

// classBodyOpen returns the index of the '{' opening the class body that
// follows the class name ending at from. Braces inside type parameters and
// type arguments (`<T extends {x: number}>`) are skipped.
func classBodyOpen(text string, from int) int {
	angle := 0
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '<':
			angle++
		case '>':
			if angle > 0 && text[i-1] != '=' {
				angle--
			}
		case '{':
			if angle == 0 {
				return i
			}
		case ';':
			if angle == 0 {
				return scan.NotFound
			}
		}
	}
	return scan.NotFound
}

// extractScript collects the symbols of a JS or TS source. When a name
// is extracted more than once, the earliest in the source wins.
func extractScript(text string, withClasses bool) *symbolTable {
	s := newScriptSource(text)
	found := append(s.extractFunctions(), s.extractBindings()...)
	if withClasses {
		found = append(found, s.extractClasses()...)
	}
	slices.SortStableFunc(found, func(a, b symbol) int {
		return cmp.Compare(a.offset, b.offset)
	})

	t := newSymbolTable()
	for _, sym := range found {
		t.add(sym)
	}
	return t
}
