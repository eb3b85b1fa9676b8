package reporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/testutil"
)

func TestMarkdownReporter_NoIssues(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	res := Result{File: "a.css", Report: rules.NewReport(rules.LanguageCSS, nil, testTime)}
	require.NoError(t, NewMarkdownReporter(&buf).Report([]Result{res}, ReportMetadata{}))
	assert.Equal(t, "**No issues found**\n", buf.String())
}

func TestMarkdownReporter_SingleFile(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownReporter(&buf).Report([]Result{cssResult()}, ReportMetadata{}))

	want := "**2 issues** in `styles/site.css`\n\n" +
		"| Line | Rule | Issue |\n" +
		"|------|------|-------|\n" +
		"| 3 | `css-duplicate-property` | ⚠️ Duplicate property 'color' <br>Remove duplicate 'color' or merge values. |\n" +
		"| 5 | `css-empty-rule` | ⚠️ Empty rule '.empty' <br>Remove the empty CSS rule or add declarations. |\n"
	assert.Equal(t, want, buf.String())
}

func TestMarkdownReporter_MultiFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownReporter(&buf).Report([]Result{cssResult(), htmlResult()}, ReportMetadata{}))
	testutil.MatchSourceSnapshot(t, buf.String(), "md")
}

func TestEscapeMarkdown(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `a \| b c`, escapeMarkdown("a | b\r\nc"))
}
