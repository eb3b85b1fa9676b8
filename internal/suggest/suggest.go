// Package suggest maps rule ids to short textual remedies.
package suggest

import (
	"github.com/wharflab/reval/internal/rules"
)

const uniqueIDs = "Ensure element id attributes are unique within the document."

var table = map[string]string{
	"tagname-lowercase":        "Use lowercase tag names: <div> not <DIV>.",
	"attr-lowercase":           "Use lowercase attribute names.",
	"attr-value-double-quotes": "Wrap attribute values in double quotes.",
	"doctype-first":            "Add <!doctype html> at the top of the document.",
	"id-unique":                uniqueIDs,
	"html-duplicate-id":        uniqueIDs,
	"src-not-empty":            "Ensure src attributes are not empty.",
	"spec-char-escape":         "Escape special characters such as < and > as &lt; and &gt;.",
	"attr-no-duplication":      "Remove duplicated attribute on the element.",
	"html-duplicate-attr":      "Remove duplicated attribute on the element.",
	"html-unclosed-tag":        "Close the element or remove the stray opening tag.",
	"img-alt":                  `Add descriptive alt="..." to <img> elements.`,
	"html-not-markup":          "Check file type or ensure HTML tags are present.",
	"css-empty-rule":           "Remove the empty rule or add declarations.",
	"css-empty-declaration":    "Provide a value or remove the declaration.",
	"css-duplicate-property":   "Remove the duplicate declaration; the last one wins.",
	"css-conflicting-values":   "Keep a single value for the property across rules with this selector.",
	"css-large-rule":           "Deduplicate declarations or split the rule.",
	"css-parse-error":          "Fix the syntax error; rules after it may be ignored.",
}

// Lookup returns the table entry for a rule id.
func Lookup(ruleID string) (string, bool) {
	s, ok := table[ruleID]
	return s, ok
}

// For returns the suggestion to show for an issue. An issue that already
// carries one keeps it; unknown rule ids get a generic review hint.
func For(issue rules.Issue) string {
	if issue.Suggestion != "" {
		return issue.Suggestion
	}
	if s, ok := table[issue.RuleID]; ok {
		return s
	}
	return "Review: " + issue.Message
}
