// Package html implements the HTML analyzer and the markup linter backend.
package html

import (
	"github.com/wharflab/reval/internal/rules"
)

// Rule ids reported by the built-in checks.
const (
	NotMarkupCode     = "html-not-markup"
	DuplicateIDCode   = "html-duplicate-id"
	ImgAltCode        = "img-alt"
	DuplicateAttrCode = "html-duplicate-attr"
	UnclosedTagCode   = "html-unclosed-tag"
)

// Rule ids reported by MarkupLinter.
const (
	TagnameLowercaseCode  = "tagname-lowercase"
	AttrLowercaseCode     = "attr-lowercase"
	AttrDoubleQuotesCode  = "attr-value-double-quotes"
	DoctypeFirstCode      = "doctype-first"
	SpecCharEscapeCode    = "spec-char-escape"
	SrcNotEmptyCode       = "src-not-empty"
	markupLinterBackendID = "markup-linter"
)

var htmlOnly = []rules.Language{rules.LanguageHTML}

func builtin(code, name, desc string, sev rules.Severity, category string) rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            code,
		Name:            name,
		Description:     desc,
		Languages:       htmlOnly,
		DefaultSeverity: sev,
		Category:        category,
	}
}

func linted(code, name, desc string, category string) rules.RuleMetadata {
	m := builtin(code, name, desc, rules.SeverityWarning, category)
	m.Backend = markupLinterBackendID
	return m
}

var (
	notMarkupRule = builtin(NotMarkupCode, "Not markup",
		"The content contains no tags at all", rules.SeverityWarning, "correctness")
	duplicateIDRule = builtin(DuplicateIDCode, "Duplicate id",
		"An id value is used by more than one element", rules.SeverityWarning, "correctness")
	imgAltRule = builtin(ImgAltCode, "Image alt text",
		"An <img> has no alt attribute or an empty one", rules.SeverityWarning, "accessibility")
	duplicateAttrRule = builtin(DuplicateAttrCode, "Duplicate attribute",
		"An attribute is repeated within one tag", rules.SeverityWarning, "correctness")
	unclosedTagRule = builtin(UnclosedTagCode, "Unclosed tag",
		"A non-void element is opened but never closed", rules.SeverityError, "syntax")
)

var (
	tagnameLowercaseRule = linted(TagnameLowercaseCode, "Lowercase tag names",
		"Tag names are written in lowercase", "style")
	attrLowercaseRule = linted(AttrLowercaseCode, "Lowercase attribute names",
		"Attribute names are written in lowercase", "style")
	attrDoubleQuotesRule = linted(AttrDoubleQuotesCode, "Double-quoted attribute values",
		"Attribute values are wrapped in double quotes", "style")
	doctypeFirstRule = linted(DoctypeFirstCode, "Doctype first",
		"A full document starts with a doctype declaration", "correctness")
	specCharEscapeRule = linted(SpecCharEscapeCode, "Escape special characters",
		"Text content does not contain raw '<' or '>'", "correctness")
	srcNotEmptyRule = linted(SrcNotEmptyCode, "Non-empty src",
		"Resource attributes such as src and href are not empty", "correctness")
)

func builtinRules() []rules.Rule {
	return []rules.Rule{notMarkupRule, duplicateIDRule, imgAltRule, duplicateAttrRule, unclosedTagRule}
}

func linterRules() []rules.Rule {
	return []rules.Rule{
		tagnameLowercaseRule,
		attrLowercaseRule,
		attrDoubleQuotesRule,
		doctypeFirstRule,
		specCharEscapeRule,
		srcNotEmptyRule,
	}
}

func init() {
	for _, r := range builtinRules() {
		rules.Register(r)
	}
	for _, r := range linterRules() {
		rules.Register(r)
	}
}
