package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wharflab/reval/internal/rules"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name  string
		issue rules.Issue
		want  string
	}{
		{
			name:  "table entry",
			issue: rules.NewIssue(rules.SeverityWarning, 1, "tagname-lowercase", "Tag name 'DIV' must be lowercase"),
			want:  "Use lowercase tag names: <div> not <DIV>.",
		},
		{
			name:  "duplicate id shares id-unique text",
			issue: rules.NewIssue(rules.SeverityWarning, 3, "html-duplicate-id", "Duplicate id 'x' (used 2 times)"),
			want:  "Ensure element id attributes are unique within the document.",
		},
		{
			name: "own suggestion kept",
			issue: rules.NewIssue(rules.SeverityWarning, 1, "img-alt", "Image missing alt attribute").
				WithSuggestion("Describe the image."),
			want: "Describe the image.",
		},
		{
			name:  "unknown rule",
			issue: rules.NewIssue(rules.SeverityError, 2, "js-redeclare", "Variable 'x' is declared more than once"),
			want:  "Review: Variable 'x' is declared more than once",
		},
		{
			name:  "no rule id",
			issue: rules.NewIssue(rules.SeverityInfo, 1, "", "Something odd"),
			want:  "Review: Something odd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, For(tt.issue))
		})
	}
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("spec-char-escape")
	assert.True(t, ok)
	assert.Contains(t, s, "&lt;")

	_, ok = Lookup("no-such-rule")
	assert.False(t, ok)
}
