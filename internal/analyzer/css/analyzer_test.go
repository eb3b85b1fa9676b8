package css

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/reval/internal/cssparse"
	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/rules/configutil"
	"github.com/wharflab/reval/internal/testutil"
)

const demoCSS = `/* Demo CSS for validation */
body {
  background-color: #fff;
  background-color: white; /* duplicate */
  color: #333;
}

.container {
  width: 100%;
  height: ;
  border: 1px solid #000;
}

.text {
  font-size: 16px;
  font-weight: bold;
  font-weight: bold;
}

.empty-rule {}

.button {
  background-color: blue;
  background-color: #0000FF;
}
`

func TestLargeRuleSchema(t *testing.T) {
	require.NoError(t, configutil.ValidateRuleOptions(LargeRule{}, map[string]any{"max-declarations": 4}))
	require.Error(t, configutil.ValidateRuleOptions(LargeRule{}, map[string]any{"max-declarations": 0}))
	require.Error(t, configutil.ValidateRuleOptions(LargeRule{}, map[string]any{"max": 4}))
}

func TestAnalyzer_Demo(t *testing.T) {
	issues := New(nil).Analyze(testutil.MakeInput(rules.LanguageCSS, demoCSS))

	codes := make([]string, 0, len(issues))
	lines := make([]int, 0, len(issues))
	for _, issue := range issues {
		codes = append(codes, issue.RuleID)
		lines = append(lines, issue.Line)
	}
	assert.Equal(t, []string{
		DuplicatePropCode,
		EmptyDeclarationCode,
		DuplicatePropCode,
		EmptyRuleCode,
		DuplicatePropCode,
		ConflictingCode,
		ConflictingCode,
	}, codes)
	assert.Equal(t, []int{4, 10, 17, 20, 24, 3, 23}, lines)
}

func TestAnalyzer(t *testing.T) {
	testutil.RunAnalyzerTests(t, New(nil), []testutil.AnalyzerTestCase{
		{
			Name:       "clean stylesheet",
			Content:    ".a { color: red; }\n.b { margin: 0 }\n",
			WantIssues: 0,
		},
		{
			Name:         "duplicate property on second declaration line",
			Content:      ".a {\n  color: red;\n  color: blue;\n}\n",
			WantCodes:    []string{DuplicatePropCode, ConflictingCode},
			WantLines:    []int{3, 2},
			WantMessages: []string{"Duplicate property 'color'", "Conflicting values for 'color' in selector '.a'"},
		},
		{
			Name:       "merged declaration has no duplicate",
			Content:    ".a {\n  color: blue;\n}\n",
			WantIssues: 0,
		},
		{
			Name:       "empty rule",
			Content:    "\n.x {}\n",
			WantCodes:  []string{EmptyRuleCode},
			WantLines:  []int{2},
			WantIssues: 1,
		},
		{
			Name:       "two empty rules on one line stay distinct",
			Content:    ".x {} .y {}",
			WantCodes:  []string{EmptyRuleCode, EmptyRuleCode},
			WantIssues: 2,
		},
		{
			Name:         "conflicting values across occurrences",
			Content:      ".a{color:red} .a{color:blue}",
			WantCodes:    []string{ConflictingCode},
			WantMessages: []string{"Conflicting values for 'color' in selector '.a'"},
		},
		{
			Name:       "repeated selector with equal values",
			Content:    ".a{color:red}\n.a{color:red}",
			WantIssues: 0,
		},
		{
			Name:       "custom properties are case sensitive",
			Content:    ".a { --Main: 1px; --main: 2px; }",
			WantIssues: 0,
		},
		{
			Name:       "properties are case insensitive",
			Content:    ".a { COLOR: red; color: red; }",
			WantCodes:  []string{DuplicatePropCode},
			WantIssues: 1,
		},
		{
			Name:       "parse error still analyzes parsed rules",
			Content:    ".a {}\n}\n.b { color: red; color: red; }",
			WantCodes:  []string{ParseErrorCode, EmptyRuleCode, DuplicatePropCode},
			WantLines:  []int{2, 1, 3},
			WantIssues: 3,
		},
		{
			Name:       "rules nested in media queries",
			Content:    "@media print {\n  .a {}\n}",
			WantCodes:  []string{EmptyRuleCode},
			WantLines:  []int{2},
			WantIssues: 1,
		},
		{
			Name:       "at-rule blocks are not style rules",
			Content:    "@font-face {}",
			WantIssues: 0,
		},
	})
}

func largeCSS(n int) string {
	var b strings.Builder
	b.WriteString(".big {\n")
	for i := range n {
		fmt.Fprintf(&b, "  prop-%d: %d;\n", i, i)
	}
	b.WriteString("}\n")
	return b.String()
}

func TestAnalyzer_LargeRule(t *testing.T) {
	a := New(nil)

	issues := a.Analyze(testutil.MakeInput(rules.LanguageCSS, largeCSS(8)))
	testutil.AssertNoIssues(t, issues)

	issues = a.Analyze(testutil.MakeInput(rules.LanguageCSS, largeCSS(9)))
	require.Len(t, issues, 1)
	assert.Equal(t, LargeRuleCode, issues[0].RuleID)
	assert.Equal(t, 2, issues[0].Line)

	// Occurrences accumulate across the stylesheet.
	split := ".big { a: 1; b: 2; c: 3; d: 4; e: 5 }\n.big { f: 6; g: 7; h: 8; i: 9 }"
	issues = a.Analyze(testutil.MakeInput(rules.LanguageCSS, split))
	require.Len(t, issues, 1)
	assert.Equal(t, LargeRuleCode, issues[0].RuleID)

	input := testutil.MakeInputWithOptions(rules.LanguageCSS, largeCSS(4), LargeRuleCode,
		map[string]any{"max-declarations": 3})
	issues = a.Analyze(input)
	require.Len(t, issues, 1)
	assert.Equal(t, LargeRuleCode, issues[0].RuleID)
}

func TestAnalyzer_DuplicateQuickFix(t *testing.T) {
	a := New(nil)

	t.Run("own line", func(t *testing.T) {
		issues := a.Analyze(testutil.MakeInput(rules.LanguageCSS, ".a {\n  color: red;\n  color: red;\n}"))
		require.Len(t, issues, 1)
		fix := issues[0].Fix
		require.NotNil(t, fix)
		assert.Equal(t, "Remove duplicate property color", fix.Title)
		assert.Equal(t, rules.NewLineRange(3), fix.Edit.Range)
		assert.Empty(t, fix.Edit.NewText)
		assert.Equal(t, rules.ConfidenceHigh, fix.Confidence)
		assert.True(t, fix.IsSafe)
	})

	t.Run("shared line", func(t *testing.T) {
		src := ".a { color: red; color: red; }"
		issues := a.Analyze(testutil.MakeInput(rules.LanguageCSS, src))
		require.Len(t, issues, 1)
		r := issues[0].Fix.Edit.Range
		assert.Equal(t, rules.NewSpanRange(1, 18, 1, 28), r)
		assert.Equal(t, "color: red;", src[r.StartColumn-1:r.EndColumn])
	})

	t.Run("NUL in an earlier value", func(t *testing.T) {
		issues := a.Analyze(testutil.MakeInput(rules.LanguageCSS, "a { content: \"\x00\"; color: red; color: blue; }"))
		require.Len(t, issues, 1)
		assert.Equal(t, 31, issues[0].Column)
		assert.Equal(t, rules.NewSpanRange(1, 31, 1, 42), issues[0].Fix.Edit.Range)
	})

	t.Run("lone CR line breaks", func(t *testing.T) {
		issues := a.Analyze(testutil.MakeInput(rules.LanguageCSS, ".a\r{\rcolor:red;\rcolor:blue;\r}"))
		require.Len(t, issues, 1)
		assert.Equal(t, 4, issues[0].Line)
		assert.Equal(t, rules.NewLineRange(4), issues[0].Fix.Edit.Range)
	})

	t.Run("douceur backend has no offsets", func(t *testing.T) {
		d := New(cssparse.Douceur{})
		issues := d.Analyze(testutil.MakeInput(rules.LanguageCSS, ".a { color: red; color: red; }"))
		require.Len(t, issues, 1)
		assert.Equal(t, rules.NewLineRange(1), issues[0].Fix.Edit.Range)
	})
}

func TestAnalyzer_Rules(t *testing.T) {
	a := New(nil)
	codes := make([]string, 0)
	for _, r := range a.Rules() {
		codes = append(codes, r.Metadata().Code)
		assert.True(t, rules.DefaultRegistry().Has(r.Metadata().Code))
	}
	assert.Contains(t, codes, LargeRuleCode)
	assert.Equal(t, []rules.Language{rules.LanguageCSS}, a.Languages())
	assert.Equal(t, cssparse.BackendScanner, a.Parser().Name())
}
