package fix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/reval/internal/rules"
)

func TestApplyEdit(t *testing.T) {
	tests := []struct {
		name   string
		source string
		edit   rules.TextEdit
		want   string
	}{
		{
			name:   "single line span",
			source: "body {\n  color: red; color: red;\n}\n",
			edit:   rules.TextEdit{Range: rules.NewSpanRange(2, 15, 2, 25)},
			want:   "body {\n  color: red; \n}\n",
		},
		{
			name:   "whole line blanked",
			source: "a\nb\nc",
			edit:   rules.TextEdit{Range: rules.NewLineRange(2)},
			want:   "a\n\nc",
		},
		{
			name:   "whole line keeps CRLF",
			source: "a\r\nb\r\nc",
			edit:   rules.TextEdit{Range: rules.NewLineRange(2), NewText: "x"},
			want:   "a\r\nx\r\nc",
		},
		{
			name:   "end column zero swallows line break",
			source: "a\nb\nc\n",
			edit:   rules.TextEdit{Range: rules.NewSpanRange(2, 1, 3, 0)},
			want:   "a\nc\n",
		},
		{
			name:   "multi line replacement",
			source: "<p>\n<SPAN>x</SPAN>\n</p>",
			edit:   rules.TextEdit{Range: rules.NewSpanRange(1, 2, 2, 5), NewText: "div>\n<span"},
			want:   "<div>\n<span>x</SPAN>\n</p>",
		},
		{
			name:   "insertion before a column",
			source: "let x = 1;",
			edit:   rules.TextEdit{Range: rules.NewSpanRange(1, 5, 1, 4), NewText: "y"},
			want:   "let yx = 1;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyEdit(tt.source, tt.edit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyEdit_RangeError(t *testing.T) {
	for _, r := range []rules.Range{
		rules.NewLineRange(0),
		rules.NewLineRange(4),
		rules.NewSpanRange(2, 1, 1, 1),
		rules.NewSpanRange(1, 3, 1, 1),
	} {
		_, err := ApplyEdit("a\nb\nc", rules.TextEdit{Range: r})
		var rangeErr *RangeError
		require.ErrorAs(t, err, &rangeErr, "%+v", r)
		assert.Equal(t, 3, rangeErr.Lines)
	}
}

func TestApply_NoFix(t *testing.T) {
	_, err := Apply("x", nil)
	assert.ErrorIs(t, err, ErrNoQuickFix)

	_, _, err = ApplyIssue("body { color: red; }", rules.NewIssue(rules.SeverityWarning, 1, "css-large-rule", "large"))
	assert.True(t, errors.Is(err, ErrNoQuickFix))
}

func TestApplyIssue_OwnFixWins(t *testing.T) {
	source := "a {\n  color: red;\n  color: red;\n}\n"
	issue := rules.NewIssue(rules.SeverityWarning, 3, "css-duplicate-property", "Duplicate property").
		WithFix(&rules.QuickFix{
			Title:      "Remove duplicate property color",
			Edit:       rules.TextEdit{Range: rules.NewLineRange(3)},
			Confidence: rules.ConfidenceHigh,
			IsSafe:     true,
		})

	out, qf, err := ApplyIssue(source, issue)
	require.NoError(t, err)
	assert.Equal(t, "Remove duplicate property color", qf.Title)
	assert.Equal(t, "a {\n  color: red;\n\n}\n", out)
}

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name   string
		source string
		issue  rules.Issue
		want   string
		ok     bool
	}{
		{
			name:   "duplicate css line",
			source: "a {\n  color: red;\n  color: red;\n}\n",
			issue:  rules.NewIssue(rules.SeverityWarning, 3, "css-duplicate-property", "dup"),
			want:   "a {\n  color: red;\n}\n",
			ok:     true,
		},
		{
			name:   "redeclare on the last line",
			source: "let x = 1;\nlet x = 1;",
			issue:  rules.NewIssue(rules.SeverityError, 2, "js-redeclare", "redeclared"),
			want:   "let x = 1;",
			ok:     true,
		},
		{
			name:   "no identical earlier line",
			source: "let x = 1;\nlet x = 2;\n",
			issue:  rules.NewIssue(rules.SeverityError, 2, "js-redeclare", "redeclared"),
			ok:     false,
		},
		{
			name:   "duplicate attribute",
			source: "<p>\n<div class=\"a\" id=\"x\" class=\"b\">text</div>\n</p>",
			issue:  rules.NewIssue(rules.SeverityWarning, 2, "attr-no-duplication", "dup attr"),
			want:   "<p>\n<div class=\"a\" id=\"x\">text</div>\n</p>",
			ok:     true,
		},
		{
			name:   "duplicate attribute case insensitive",
			source: "<img SRC=a.png src='b.png' alt=\"\">",
			issue:  rules.NewIssue(rules.SeverityWarning, 1, "html-duplicate-attr", "dup attr"),
			want:   "<img SRC=a.png alt=\"\">",
			ok:     true,
		},
		{
			name:   "no duplicate attribute on the line",
			source: "<div class=\"a\">",
			issue:  rules.NewIssue(rules.SeverityWarning, 1, "html-duplicate-attr", "dup attr"),
			ok:     false,
		},
		{
			name:   "empty rule line",
			source: ".a { color: red; }\n.empty {  }\n.b { top: 0; }\n",
			issue:  rules.NewIssue(rules.SeverityWarning, 2, "css-empty-rule", "empty"),
			want:   ".a { color: red; }\n.b { top: 0; }\n",
			ok:     true,
		},
		{
			name:   "empty rule spanning lines",
			source: ".empty {\n}\n",
			issue:  rules.NewIssue(rules.SeverityWarning, 1, "css-empty-rule", "empty"),
			ok:     false,
		},
		{
			name:   "line out of range",
			source: "a\n",
			issue:  rules.NewIssue(rules.SeverityWarning, 9, "css-empty-rule", "empty"),
			ok:     false,
		},
		{
			name:   "unknown rule",
			source: "a\na\n",
			issue:  rules.NewIssue(rules.SeverityWarning, 2, "img-alt", "alt"),
			ok:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qf, ok := Heuristic(tt.source, tt.issue)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			got, err := Apply(tt.source, qf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
