package scan

import (
	"strings"

	"golang.org/x/net/html"
)

// TokenKind classifies markup tokens.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenStartTag
	TokenEndTag
	TokenSelfClosingTag
	TokenComment
	TokenDoctype
)

// Token is one markup token with its position in the source.
type Token struct {
	Kind TokenKind
	// Name is the lowercased tag name for tag tokens.
	Name string
	// RawName is the tag name as written.
	RawName string
	// Raw is the unmodified token text.
	Raw string
	// Data is the unescaped text for text, comment and doctype tokens.
	Data string
	// Attrs holds the attributes of start and self-closing tags.
	Attrs []Attr
	// Start and End delimit the token in the source.
	Start int
	End   int
}

// IsTag reports whether the token is a start, end or self-closing tag.
func (t Token) IsTag() bool {
	return t.Kind == TokenStartTag || t.Kind == TokenEndTag || t.Kind == TokenSelfClosingTag
}

// Tokenize splits markup into tokens using the HTML5 tokenizer, which
// treats script, style and other raw-text element contents as text.
// Malformed markup never fails; it just yields fewer tags.
func Tokenize(src string) []Token {
	z := html.NewTokenizer(strings.NewReader(src))
	var tokens []Token
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return tokens
		}
		// Raw must be copied before any other tokenizer call.
		raw := string(z.Raw())
		tok := Token{Raw: raw, Start: offset, End: offset + len(raw)}
		offset = tok.End

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			tok.Name = string(name)
			tok.RawName = rawTagName(raw)
			switch tt {
			case html.StartTagToken:
				tok.Kind = TokenStartTag
			case html.SelfClosingTagToken:
				tok.Kind = TokenSelfClosingTag
			default:
				tok.Kind = TokenEndTag
			}
			if tok.Kind != TokenEndTag {
				tok.Attrs = ParseAttrs(raw, tok.Start)
			}
		case html.CommentToken:
			tok.Kind = TokenComment
			tok.Data = string(z.Text())
		case html.DoctypeToken:
			tok.Kind = TokenDoctype
			tok.Data = string(z.Text())
		default:
			tok.Kind = TokenText
			tok.Data = string(z.Text())
		}
		tokens = append(tokens, tok)
	}
}

func rawTagName(raw string) string {
	i := 1
	if i < len(raw) && raw[i] == '/' {
		i++
	}
	j := i
	for j < len(raw) && !isSpace(raw[j]) && raw[j] != '>' && raw[j] != '/' {
		j++
	}
	return raw[i:j]
}
