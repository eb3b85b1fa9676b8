package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/reval/internal/rules"
)

func TestPrintTextPlain_SingleIssue(t *testing.T) {
	t.Parallel()
	res := Result{
		File:   "x.css",
		Source: "a { }\n",
		Report: rules.NewReport(rules.LanguageCSS, []rules.Issue{
			rules.NewIssue(rules.SeverityWarning, 1, "css-empty-rule", "Empty rule 'a'"),
		}, testTime),
	}

	var buf bytes.Buffer
	require.NoError(t, PrintTextPlain(&buf, []Result{res}))

	want := "\nWARNING: css-empty-rule\n" +
		"Empty rule 'a'\n" +
		"\n" +
		"x.css:1\n" +
		"--------------------\n" +
		"   1 | >>> a { }\n" +
		"   2 |     \n" +
		"--------------------\n" +
		"\n1 issue (0 errors, 1 warning, 0 info) in 1 file\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintTextPlain_Context(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, PrintTextPlain(&buf, []Result{cssResult()}))
	out := buf.String()

	assert.Contains(t, out, "WARNING: css-duplicate-property\nDuplicate property 'color'\n")
	assert.Contains(t, out, "Suggestion: Remove duplicate 'color' or merge values.")
	assert.Contains(t, out, "styles/site.css:3\n")
	assert.Contains(t, out, "   3 | >>>   color: red;\n")
	assert.Contains(t, out, "   2 |       color: red;\n")
	assert.Contains(t, out, "styles/site.css:5\n")
	assert.Contains(t, out, "2 issues (0 errors, 2 warnings, 0 info) in 1 file")
	assert.Less(t, strings.Index(out, "css-duplicate-property"), strings.Index(out, "css-empty-rule"),
		"issues are sorted by line")
}

func TestPrintText_Severities(t *testing.T) {
	t.Parallel()
	tests := []struct {
		severity rules.Severity
		want     string
	}{
		{rules.SeverityError, "ERROR: r"},
		{rules.SeverityWarning, "WARNING: r"},
		{rules.SeverityInfo, "INFO: r"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			res := Result{File: "f.js", Report: rules.NewReport(rules.LanguageJavaScript,
				[]rules.Issue{rules.NewIssue(tt.severity, 1, "r", "m")}, testTime)}
			var buf bytes.Buffer
			require.NoError(t, PrintTextPlain(&buf, []Result{res}))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestPrintText_NoSource(t *testing.T) {
	t.Parallel()
	r := NewTextReporter(TextOptions{Color: new(false), ShowSource: false})
	var buf bytes.Buffer
	require.NoError(t, r.Print(&buf, []Result{htmlResult()}))

	assert.Equal(t, "\nERROR: html-unclosed-tag\nUnclosed tag <div>\n\n1 issue (1 error, 0 warnings, 0 info) in 1 file\n", buf.String())
}

func TestPrintText_Untagged(t *testing.T) {
	t.Parallel()
	res := Result{File: "a.css", Report: rules.NewReport(rules.LanguageCSS,
		[]rules.Issue{rules.NewIssue(rules.SeverityError, 1, "", "Unclosed comment")}, testTime)}
	var buf bytes.Buffer
	require.NoError(t, PrintTextPlain(&buf, []Result{res}))
	assert.True(t, strings.HasPrefix(buf.String(), "\nERROR:\nUnclosed comment\n"))
}

func TestPrintText_Clean(t *testing.T) {
	t.Parallel()
	res := Result{File: "a.css", Source: "a { top: 0; }", Report: rules.NewReport(rules.LanguageCSS, nil, testTime)}
	var buf bytes.Buffer
	require.NoError(t, PrintTextPlain(&buf, []Result{res, res}))
	assert.Equal(t, "No issues found in 2 files\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintTextPlain(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestPrintText_Color(t *testing.T) {
	t.Parallel()
	r := NewTextReporter(TextOptions{Color: new(true), ShowSource: true})
	var buf bytes.Buffer
	require.NoError(t, r.Print(&buf, []Result{cssResult()}))
	out := buf.String()

	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "css-duplicate-property")
	assert.Contains(t, out, "│")
}
