package reporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/reval/internal/rules"
)

func TestGitHubActionsReporter(t *testing.T) {
	t.Parallel()
	multi := Result{
		File: "src/app.js",
		Report: rules.NewReport(rules.LanguageJavaScript, []rules.Issue{
			rules.NewIssue(rules.SeverityInfo, 4, "js-large-function", "Function 'run' is 60 lines: 100%").
				WithRange(rules.NewSpanRange(4, 1, 63, 1)),
		}, testTime),
	}

	var buf bytes.Buffer
	require.NoError(t, NewGitHubActionsReporter(&buf).Report([]Result{htmlResult(), multi}, ReportMetadata{}))

	want := "::error file=index.html,line=2,col=1,title=html-unclosed-tag::Unclosed tag <div>\n" +
		"::notice file=src/app.js,line=4,endLine=63,title=js-large-function::Function 'run' is 60 lines: 100%25\n"
	assert.Equal(t, want, buf.String())
}

func TestGitHubActionsReporter_Suggestion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewGitHubActionsReporter(&buf).Report([]Result{cssResult()}, ReportMetadata{}))
	assert.Contains(t, buf.String(),
		"::warning file=styles/site.css,line=3,col=3,title=css-duplicate-property::Duplicate property 'color'%0ARemove duplicate 'color' or merge values.\n")
}

func TestEscapeGitHub(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a%3Ab%2Cc%25%0A", escapeGitHubProperty("a:b,c%\n"))
	assert.Equal(t, "a:b,c%25%0D", escapeGitHubMessage("a:b,c%\r"))
}
