package rules

import "strings"

// Language is the canonical name of a supported source language.
type Language string

const (
	LanguageHTML       Language = "html"
	LanguageCSS        Language = "css"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
)

// ParseLanguage maps a caller-supplied language tag to its canonical form.
// Tags are case-insensitive; "js" and "ts" are accepted as aliases.
func ParseLanguage(tag string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "html", "htm":
		return LanguageHTML, true
	case "css":
		return LanguageCSS, true
	case "javascript", "js":
		return LanguageJavaScript, true
	case "typescript", "ts":
		return LanguageTypeScript, true
	default:
		return "", false
	}
}

// IsScript reports whether l is JavaScript or TypeScript.
func (l Language) IsScript() bool {
	return l == LanguageJavaScript || l == LanguageTypeScript
}

// Languages returns all supported languages in display order.
func Languages() []Language {
	return []Language{LanguageHTML, LanguageCSS, LanguageJavaScript, LanguageTypeScript}
}
