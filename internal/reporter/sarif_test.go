package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/reval/internal/rules"
)

type sarifDoc struct {
	Version string `json:"version"`
	Runs    []struct {
		Tool struct {
			Driver struct {
				Name    string `json:"name"`
				Version string `json:"version"`
				Rules   []struct {
					ID string `json:"id"`
				} `json:"rules"`
			} `json:"driver"`
		} `json:"tool"`
		Artifacts []struct {
			Location struct {
				URI string `json:"uri"`
			} `json:"location"`
		} `json:"artifacts"`
		Results []struct {
			RuleID  string `json:"ruleId"`
			Level   string `json:"level"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
			Locations []struct {
				PhysicalLocation struct {
					ArtifactLocation struct {
						URI string `json:"uri"`
					} `json:"artifactLocation"`
					Region struct {
						StartLine   int `json:"startLine"`
						StartColumn int `json:"startColumn"`
						EndLine     int `json:"endLine"`
						EndColumn   int `json:"endColumn"`
						Snippet     struct {
							Text string `json:"text"`
						} `json:"snippet"`
					} `json:"region"`
				} `json:"physicalLocation"`
			} `json:"locations"`
		} `json:"results"`
	} `json:"runs"`
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()
	spanned := Result{
		File:   "app.ts",
		Source: "let x = 1;\nif (x = 2) {}\n",
		Report: rules.NewReport(rules.LanguageTypeScript, []rules.Issue{
			rules.NewIssue(rules.SeverityInfo, 2, "js-assign-in-condition", "Assignment in condition").
				WithColumn(5).
				WithRange(rules.NewSpanRange(2, 5, 2, 9)),
			rules.NewIssue(rules.SeverityError, 1, "", "Unclosed comment"),
		}, testTime),
	}

	var buf bytes.Buffer
	r := NewSARIFReporter(&buf, "", "1.2.3", "")
	require.NoError(t, r.Report([]Result{cssResult(), spanned}, ReportMetadata{}))

	var doc sarifDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc), buf.String())
	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]

	assert.Equal(t, "reval", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)

	var ruleIDs []string
	for _, rule := range run.Tool.Driver.Rules {
		ruleIDs = append(ruleIDs, rule.ID)
	}
	assert.Equal(t, []string{"css-duplicate-property", "css-empty-rule", "js-assign-in-condition", "reval"}, ruleIDs)

	var uris []string
	for _, a := range run.Artifacts {
		uris = append(uris, a.Location.URI)
	}
	assert.Equal(t, []string{"app.ts", "styles/site.css"}, uris)

	require.Len(t, run.Results, 4)

	// app.ts sorts first; its untagged error is on line 1.
	untagged := run.Results[0]
	assert.Equal(t, "reval", untagged.RuleID)
	assert.Equal(t, "error", untagged.Level)
	assert.Equal(t, "let x = 1;", untagged.Locations[0].PhysicalLocation.Region.Snippet.Text)

	assign := run.Results[1]
	assert.Equal(t, "note", assign.Level)
	region := assign.Locations[0].PhysicalLocation.Region
	assert.Equal(t, 2, region.StartLine)
	assert.Equal(t, 5, region.StartColumn)
	assert.Equal(t, 2, region.EndLine)
	assert.Equal(t, 10, region.EndColumn)

	dup := run.Results[2]
	assert.Equal(t, "css-duplicate-property", dup.RuleID)
	assert.Equal(t, "warning", dup.Level)
	assert.Equal(t, "Duplicate property 'color' Remove duplicate 'color' or merge values.", dup.Message.Text)
	assert.Equal(t, "styles/site.css", dup.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Zero(t, dup.Locations[0].PhysicalLocation.Region.EndLine, "whole-line ranges carry no end")
}

func TestSeverityToSARIFLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "error", severityToSARIFLevel(rules.SeverityError))
	assert.Equal(t, "warning", severityToSARIFLevel(rules.SeverityWarning))
	assert.Equal(t, "note", severityToSARIFLevel(rules.SeverityInfo))
}
