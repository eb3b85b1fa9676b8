package reporter

import (
	"io"
	"slices"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/sourcemap"
)

// Default SARIF tool information.
const (
	defaultToolName = "reval"
	defaultToolURI  = "https://github.com/wharflab/reval"
)

// untaggedRuleID names results whose issue carries no rule id.
const untaggedRuleID = "reval"

// SARIFReporter formats reports as SARIF 2.1.0.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
	toolURI     string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolName, toolVersion, toolURI string) *SARIFReporter {
	if toolName == "" {
		toolName = defaultToolName
	}
	if toolURI == "" {
		toolURI = defaultToolURI
	}
	return &SARIFReporter{
		writer:      w,
		toolName:    toolName,
		toolVersion: toolVersion,
		toolURI:     toolURI,
	}
}

func sarifRuleID(issue rules.Issue) string {
	if issue.RuleID == "" {
		return untaggedRuleID
	}
	return issue.RuleID
}

// Report implements Reporter.
func (r *SARIFReporter) Report(results []Result, _ ReportMetadata) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI(r.toolName, r.toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	issues := sortFileIssues(flatten(results))

	var ruleIDs, files []string
	for _, fi := range issues {
		if id := sarifRuleID(fi.Issue); !slices.Contains(ruleIDs, id) {
			ruleIDs = append(ruleIDs, id)
		}
		if !slices.Contains(files, fi.File) {
			files = append(files, fi.File)
		}
	}
	slices.Sort(ruleIDs)
	slices.Sort(files)

	for _, id := range ruleIDs {
		rule := run.AddRule(id)
		if meta := rules.Get(id); meta != nil {
			md := meta.Metadata()
			rule.WithShortDescription(sarif.NewMultiformatMessageString().WithText(md.Description))
		}
	}
	for _, file := range files {
		run.AddDistinctArtifact(file)
	}

	sources := make(map[string]*sourcemap.SourceMap, len(results))
	for _, res := range results {
		sources[res.File] = sourcemap.New(res.Source)
	}

	for _, fi := range issues {
		issue := fi.Issue
		message := issue.Message
		if issue.Suggestion != "" {
			message += " " + issue.Suggestion
		}
		result := sarif.NewRuleResult(sarifRuleID(issue)).
			WithMessage(sarif.NewTextMessage(message)).
			WithLevel(severityToSARIFLevel(issue.Type))

		region := sarif.NewRegion().WithStartLine(issue.Line)
		if issue.Column > 0 {
			region.WithStartColumn(issue.Column)
		}
		if rg := issue.Range; rg.EndLine >= issue.Line && !rg.IsWholeLine() && rg.EndColumn > 0 {
			region.WithEndLine(rg.EndLine)
			region.WithEndColumn(rg.EndColumn + 1) // SARIF end columns are exclusive
		}
		if sm := sources[fi.File]; sm != nil {
			if snippet := sm.Line(issue.Line); snippet != "" {
				region.WithSnippet(sarif.NewArtifactContent().WithText(snippet))
			}
		}

		physicalLocation := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewSimpleArtifactLocation(fi.File)).
			WithRegion(region)
		result.WithLocations([]*sarif.Location{
			sarif.NewLocationWithPhysicalLocation(physicalLocation),
		})

		run.AddResult(result)
	}

	report.AddRun(run)
	return report.PrettyWrite(r.writer)
}

// SARIF severity levels.
const (
	sarifLevelError   = "error"
	sarifLevelWarning = "warning"
	sarifLevelNote    = "note"
)

// severityToSARIFLevel maps an issue kind to SARIF levels.
func severityToSARIFLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return sarifLevelError
	case rules.SeverityInfo:
		return sarifLevelNote
	case rules.SeverityWarning, rules.SeverityOff:
		return sarifLevelWarning
	default:
		return sarifLevelWarning
	}
}
