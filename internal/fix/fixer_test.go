package fix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/reval/internal/rules"
)

func issueWithFix(line int, ruleID string, r rules.Range, text string, conf rules.Confidence, safe bool) rules.Issue {
	return rules.NewIssue(rules.SeverityWarning, line, ruleID, ruleID).WithFix(&rules.QuickFix{
		Title:      "fix " + ruleID,
		Edit:       rules.TextEdit{Range: r, NewText: text},
		Confidence: conf,
		IsSafe:     safe,
	})
}

func TestFixer_Apply(t *testing.T) {
	source := "<P>\n  <SPAN>x</SPAN>\n</P>\n"
	issues := []rules.Issue{
		issueWithFix(1, "tagname-lowercase", rules.NewSpanRange(1, 2, 1, 2), "p", rules.ConfidenceHigh, true),
		issueWithFix(2, "tagname-lowercase", rules.NewSpanRange(2, 4, 2, 7), "span", rules.ConfidenceHigh, true),
		issueWithFix(2, "tagname-lowercase", rules.NewSpanRange(2, 12, 2, 15), "span", rules.ConfidenceHigh, true),
		issueWithFix(3, "tagname-lowercase", rules.NewSpanRange(3, 3, 3, 3), "p", rules.ConfidenceHigh, true),
	}

	f := &Fixer{}
	res := f.Apply(source, issues)
	assert.Equal(t, "<p>\n  <span>x</span>\n</p>\n", res.Content)
	assert.Len(t, res.Applied, 4)
	assert.Empty(t, res.Skipped)
	assert.True(t, res.HasChanges())
}

func TestFixer_Apply_Skips(t *testing.T) {
	source := "aaaa\nbbbb\ncccc\n"
	issues := []rules.Issue{
		issueWithFix(1, "first", rules.NewSpanRange(1, 1, 1, 2), "X", rules.ConfidenceHigh, true),
		issueWithFix(1, "overlapping", rules.NewSpanRange(1, 2, 1, 3), "Y", rules.ConfidenceHigh, true),
		issueWithFix(2, "low", rules.NewLineRange(2), "", rules.ConfidenceLow, true),
		issueWithFix(3, "unsafe", rules.NewLineRange(3), "", rules.ConfidenceHigh, false),
		issueWithFix(9, "outside", rules.NewLineRange(9), "", rules.ConfidenceHigh, true),
		rules.NewIssue(rules.SeverityWarning, 2, "no-fix", "nothing to do"),
	}

	res := (&Fixer{}).Apply(source, issues)
	assert.Equal(t, "Xaa\nbbbb\ncccc\n", res.Content)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, "first", res.Applied[0].Issue.RuleID)

	reasons := make(map[string]SkipReason)
	for _, s := range res.Skipped {
		reasons[s.Issue.RuleID] = s.Reason
	}
	assert.Equal(t, map[string]SkipReason{
		"overlapping": SkipConflict,
		"low":         SkipSafety,
		"unsafe":      SkipSafety,
		"outside":     SkipInvalidRange,
	}, reasons)
}

func TestFixer_Apply_Options(t *testing.T) {
	source := "aaaa\nbbbb\n"
	issues := []rules.Issue{
		issueWithFix(1, "keep", rules.NewLineRange(1), "A", rules.ConfidenceLow, false),
		issueWithFix(2, "other", rules.NewLineRange(2), "B", rules.ConfidenceHigh, true),
	}

	res := (&Fixer{MinConfidence: rules.ConfidenceLow, IncludeUnsafe: true, RuleFilter: []string{"keep"}}).Apply(source, issues)
	assert.Equal(t, "A\nbbbb\n", res.Content)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, SkipRuleFilter, res.Skipped[0].Reason)
}

func TestFixer_Apply_Heuristics(t *testing.T) {
	source := ".a {\n  color: red;\n  color: red;\n}\n.empty { }\n"
	issues := []rules.Issue{
		rules.NewIssue(rules.SeverityWarning, 3, "css-duplicate-property", "dup"),
		rules.NewIssue(rules.SeverityWarning, 5, "css-empty-rule", "empty"),
	}

	res := (&Fixer{}).Apply(source, issues)
	assert.False(t, res.HasChanges(), "heuristics are off by default")

	res = (&Fixer{Heuristics: true}).Apply(source, issues)
	assert.Equal(t, ".a {\n  color: red;\n}\n", res.Content)
	assert.Len(t, res.Applied, 2)
}

func TestSkipReason_String(t *testing.T) {
	assert.Equal(t, "conflicts with another fix", SkipConflict.String())
	assert.Equal(t, "below safety threshold", SkipSafety.String())
	assert.Equal(t, "unknown reason", SkipReason(99).String())
}
