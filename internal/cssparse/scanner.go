package cssparse

import (
	"strings"
	"unicode/utf8"

	"github.com/gorilla/css/scanner"

	"github.com/wharflab/reval/internal/sourcemap"
)

// Scanner is the built-in parser. It keeps line, column and byte offsets
// for every rule and declaration.
type Scanner struct{}

// Name implements Parser.
func (Scanner) Name() string { return BackendScanner }

// Available implements Parser.
func (Scanner) Available() bool { return true }

// Parse implements Parser.
func (Scanner) Parse(text string) (*Stylesheet, []*ParseError) {
	text = FoldNewlines(text)
	p := &tokenParser{sm: sourcemap.New(text)}
	p.tokenize(text)
	rules := p.parseRuleList(false)
	return &Stylesheet{Rules: rules}, p.errs
}

// newlineFolder mirrors the tokenizer's own preprocessing, which treats CRLF,
// a lone CR and a form feed as one newline.
var newlineFolder = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\f", "\n")

// FoldNewlines rewrites text the way the scanner sees it. Offsets and
// positions reported by Scanner index into the folded text.
func FoldNewlines(text string) string {
	return newlineFolder.Replace(text)
}

// ruleListAtRules hold nested rules rather than declarations.
var ruleListAtRules = map[string]bool{
	"media": true, "supports": true, "document": true, "layer": true,
	"container": true, "scope": true, "starting-style": true,
}

// token is a scanner token with its byte offset and length in the source.
type token struct {
	*scanner.Token
	off int
	n   int
}

func (t *token) end() int {
	return t.off + t.n
}

// sourceLen is the number of source bytes starting at off that produced
// value. The tokenizer replaces NUL with U+FFFD, so each of those runes
// stands for a single source byte.
func sourceLen(text string, off int, value string) int {
	n := 0
	for len(value) > 0 {
		r, size := utf8.DecodeRuneInString(value)
		value = value[size:]
		if r == utf8.RuneError && size == 3 && off+n < len(text) && text[off+n] == 0 {
			n++
			continue
		}
		n += size
	}
	return n
}

type tokenParser struct {
	sm   *sourcemap.SourceMap
	toks []*token
	pos  int
	errs []*ParseError
}

func (p *tokenParser) tokenize(text string) {
	s := scanner.New(text)
	offset := 0
	for {
		tok := &token{Token: s.Next(), off: offset}
		tok.n = sourceLen(text, offset, tok.Value)
		offset += tok.n
		switch tok.Type {
		case scanner.TokenEOF:
			return
		case scanner.TokenError:
			p.errorAt(tok, "Unrecognized input "+quoteSnippet(tok.Value))
			return
		case scanner.TokenComment, scanner.TokenCDO, scanner.TokenCDC, scanner.TokenBOM:
			continue
		}
		p.toks = append(p.toks, tok)
	}
}

func (p *tokenParser) peek() *token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return nil
}

func (p *tokenParser) next() *token {
	tok := p.peek()
	if tok != nil {
		p.pos++
	}
	return tok
}

func (p *tokenParser) skipSpace() {
	for tok := p.peek(); tok != nil && tok.Type == scanner.TokenS; tok = p.peek() {
		p.pos++
	}
}

func (p *tokenParser) errorAt(tok *token, msg string) {
	e := &ParseError{Message: msg}
	if tok != nil {
		e.Line, e.Column = p.sm.Position(tok.off)
	}
	p.errs = append(p.errs, e)
}

func isChar(tok *token, c string) bool {
	return tok != nil && tok.Type == scanner.TokenChar && tok.Value == c
}

// parseRuleList reads rules until EOF, or until the closing '}' when nested.
func (p *tokenParser) parseRuleList(nested bool) []*Rule {
	var rules []*Rule
	for {
		p.skipSpace()
		tok := p.peek()
		switch {
		case tok == nil:
			return rules
		case isChar(tok, "}"):
			p.pos++
			if nested {
				return rules
			}
			p.errorAt(tok, "Unexpected '}'")
		case isChar(tok, ";"):
			p.pos++
		case tok.Type == scanner.TokenAtKeyword:
			if r := p.parseAtRule(); r != nil {
				rules = append(rules, r)
			}
		default:
			if r := p.parseQualifiedRule(); r != nil {
				rules = append(rules, r)
			}
		}
	}
}

// collectPrelude reads tokens up to '{' (consumed) or a terminator.
// It returns the prelude tokens and the token that stopped the scan.
func (p *tokenParser) collectPrelude() ([]*token, *token) {
	var prelude []*token
	depth := 0
	for {
		tok := p.next()
		switch {
		case tok == nil:
			return prelude, nil
		case tok.Type == scanner.TokenFunction || isChar(tok, "(") || isChar(tok, "["):
			depth++
		case isChar(tok, ")") || isChar(tok, "]"):
			if depth > 0 {
				depth--
			}
		case depth == 0 && (isChar(tok, "{") || isChar(tok, ";")):
			return prelude, tok
		case depth == 0 && isChar(tok, "}"):
			p.pos-- // leave it for the enclosing list
			return prelude, tok
		}
		prelude = append(prelude, tok)
	}
}

func (p *tokenParser) newRule(at *token, selector string) *Rule {
	r := &Rule{Selector: selector}
	r.Line, r.Column = p.sm.Position(at.off)
	return r
}

func (p *tokenParser) parseAtRule() *Rule {
	at := p.next()
	prelude, stop := p.collectPrelude()
	name := strings.ToLower(strings.TrimPrefix(at.Value, "@"))

	if !isChar(stop, "{") {
		// Statement at-rules such as @import or @charset carry no block.
		if stop == nil && len(prelude) > 0 && !isStatementAtRule(name) {
			p.errorAt(at, "Unexpected end of input in @"+name)
		}
		return nil
	}

	rule := p.newRule(at, NormalizeSelector(at.Value+" "+joinTokens(prelude)))
	rule.AtRule = true
	if ruleListAtRules[name] || strings.HasSuffix(name, "keyframes") {
		rule.Children = p.parseRuleList(true)
		return rule
	}
	p.parseBlock(rule)
	return rule
}

func isStatementAtRule(name string) bool {
	switch name {
	case "import", "charset", "namespace", "layer":
		return true
	}
	return false
}

func (p *tokenParser) parseQualifiedRule() *Rule {
	first := p.peek()
	prelude, stop := p.collectPrelude()
	if !isChar(stop, "{") {
		switch {
		case stop == nil:
			p.errorAt(first, "Unexpected end of input, expected '{'")
		case isChar(stop, ";"):
			p.errorAt(stop, "Unexpected ';' in selector")
		case len(prelude) > 0:
			p.errorAt(first, "Expected '{' after "+quoteSnippet(joinTokens(prelude)))
		}
		return nil
	}
	at := first
	if len(prelude) == 0 {
		at = stop
	}
	rule := p.newRule(at, NormalizeSelector(joinTokens(prelude)))
	p.parseBlock(rule)
	return rule
}

// parseBlock reads declarations and nested rules up to the closing '}'.
func (p *tokenParser) parseBlock(rule *Rule) {
	for {
		p.skipSpace()
		tok := p.peek()
		switch {
		case tok == nil:
			p.errs = append(p.errs, &ParseError{
				Message: "Unclosed block for " + quoteSnippet(rule.Key()),
				Line:    rule.Line,
				Column:  rule.Column,
			})
			return
		case isChar(tok, "}"):
			p.pos++
			return
		case isChar(tok, ";"):
			p.pos++
		case tok.Type == scanner.TokenAtKeyword:
			if child := p.parseAtRule(); child != nil {
				rule.Children = append(rule.Children, child)
			}
		default:
			p.parseDeclarationOrNested(rule)
		}
	}
}

func (p *tokenParser) parseDeclarationOrNested(rule *Rule) {
	start := p.pos
	first := p.peek()

	// Property name: everything up to ':' unless a '{' shows a nested rule first.
	var name []*token
	for {
		tok := p.peek()
		switch {
		case tok == nil, isChar(tok, "}"), isChar(tok, ";"):
			p.errorAt(first, "Expected ':' after "+quoteSnippet(joinTokens(name)))
			if isChar(tok, ";") {
				p.pos++
			}
			return
		case isChar(tok, "{"):
			p.pos = start
			if child := p.parseQualifiedRule(); child != nil {
				rule.Children = append(rule.Children, child)
			}
			return
		case isChar(tok, ":") && looksLikeProperty(name):
			p.pos++
			p.parseValue(rule, strings.TrimSpace(joinTokens(name)), first, tok)
			return
		}
		name = append(name, tok)
		p.pos++
	}
}

// looksLikeProperty distinguishes "color:" from a nested selector such as "&:hover".
func looksLikeProperty(name []*token) bool {
	var n []*token
	for _, t := range name {
		if t.Type != scanner.TokenS {
			n = append(n, t)
		}
	}
	if len(n) == 0 {
		return false
	}
	if len(n) == 1 && n[0].Type == scanner.TokenIdent {
		return true
	}
	// Custom properties (--x) and legacy hacks such as *zoom or _height.
	return len(n) == 2 && n[0].Type == scanner.TokenChar && n[1].Type == scanner.TokenIdent
}

func (p *tokenParser) parseValue(rule *Rule, property string, first, colon *token) {
	var value []*token
	last := colon
	depth := 0
	for {
		tok := p.peek()
		if tok == nil {
			break
		}
		if depth == 0 && (isChar(tok, ";") || isChar(tok, "}")) {
			if isChar(tok, ";") {
				last = tok
				p.pos++
			}
			break
		}
		if depth == 0 && isChar(tok, "{") {
			p.errorAt(tok, "Unexpected '{' in value of "+quoteSnippet(property))
			p.pos++
			p.skipBlock()
			return
		}
		switch {
		case tok.Type == scanner.TokenFunction || isChar(tok, "(") || isChar(tok, "["):
			depth++
		case isChar(tok, ")") || isChar(tok, "]"):
			if depth > 0 {
				depth--
			}
		}
		value = append(value, tok)
		if tok.Type != scanner.TokenS {
			last = tok
		}
		p.pos++
	}

	text, important := splitImportant(joinTokens(value))
	d := Declaration{
		Property:  property,
		Value:     text,
		Important: important,
		Start:     first.off,
		End:       last.end(),
	}
	d.Line, d.Column = p.sm.Position(first.off)
	rule.Declarations = append(rule.Declarations, d)
}

// skipBlock consumes tokens through the '}' matching an already consumed '{'.
func (p *tokenParser) skipBlock() {
	depth := 1
	for tok := p.next(); tok != nil; tok = p.next() {
		switch {
		case isChar(tok, "{"):
			depth++
		case isChar(tok, "}"):
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func splitImportant(v string) (string, bool) {
	lower := strings.ToLower(v)
	idx := strings.LastIndex(lower, "!")
	if idx >= 0 && strings.TrimSpace(lower[idx+1:]) == "important" {
		return strings.TrimSpace(v[:idx]), true
	}
	return v, false
}

// joinTokens serializes tokens with whitespace collapsed.
func joinTokens(toks []*token) string {
	var b strings.Builder
	for _, t := range toks {
		if t.Type == scanner.TokenS {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(t.Value)
	}
	return NormalizeValue(b.String())
}

func quoteSnippet(s string) string {
	s = NormalizeValue(s)
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return "'" + s + "'"
}

var _ Parser = Scanner{}
