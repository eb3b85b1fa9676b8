package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/testutil"
)

const userClassTS = `class User {
  name = 'x';
  age: number = 3;
  private id;
  constructor(private email: string) {}
  greet() {
    const msg = 'hi';
    return msg;
  }
}
`

const pointTS = `class Point {
  constructor(public x: number, public y: number, label?: string) {}
}
const p = new Point(1, "2", 3);
`

func TestAnalyzer_JavaScript(t *testing.T) {
	testutil.RunAnalyzerTests(t, New(nil), []testutil.AnalyzerTestCase{
		{
			Name:         "redeclared variable at every site",
			Content:      "let a = 1;\nconst b = 2;\nvar a = 3;\n",
			WantCodes:    []string{RedeclareCode, RedeclareCode},
			WantLines:    []int{1, 3},
			WantMessages: []string{"Variable 'a' is declared more than once"},
		},
		{
			Name:       "for loop bindings",
			Content:    "for (const x of a) {}\nfor (const x of b) {}\n",
			WantIssues: 0,
		},
		{
			Name:       "destructuring and later comma names are not tracked",
			Content:    "const { a } = o;\nlet [b] = xs;\nlet c = 1, a = 2, b = 3;\n",
			WantIssues: 0,
		},
		{
			Name:       "declarations inside strings and comments",
			Content:    "const s = \"let s = 1\"; // let s\n/* var s */\n",
			WantIssues: 0,
		},
		{
			Name:      "assignment in condition",
			Content:   "if (a = b) {\n}\n",
			WantCodes: []string{AssignInIfCode},
			WantLines: []int{1},
		},
		{
			Name:       "comparisons in condition",
			Content:    "if (a === b && c != d && e <= f && g >= h) {}\n",
			WantIssues: 0,
		},
		{
			Name:       "arrow function in condition",
			Content:    "if (list.some(x => x > 1)) {}\n",
			WantIssues: 0,
		},
		{
			Name:       "equals sign in a string",
			Content:    "if (s === \"a=b\") {}\n",
			WantIssues: 0,
		},
		{
			Name:      "if without braces",
			Content:   "if (ok) return;\n",
			WantCodes: []string{MissingBracesCode},
			WantLines: []int{1},
		},
		{
			Name:      "if body on next line",
			Content:   "function f() {\n  if (ok)\n    doIt();\n}\n",
			WantCodes: []string{MissingBracesCode},
			WantLines: []int{2},
		},
		{
			Name:         "duplicate array entries",
			Content:      "const xs = [1, 2, 1, 'a', 'a'];\n",
			WantCodes:    []string{DuplicateEntryCode, DuplicateEntryCode},
			WantMessages: []string{"Duplicate array entry 1", "Duplicate array entry 'a'"},
		},
		{
			Name:       "index access is not an array literal",
			Content:    "const y = xs[0] + xs[0];\n",
			WantIssues: 0,
		},
		{
			Name:       "multi-line array literal",
			Content:    "const xs = [\n  1,\n  1\n];\n",
			WantIssues: 0,
		},
		{
			Name:       "innermost arrays",
			Content:    "const m = [[1, 1], [2]];\n",
			WantCodes:  []string{DuplicateEntryCode},
			WantIssues: 1,
		},
		{
			Name:       "commas inside string entries",
			Content:    "const xs = [\"a,b\", \"a,b\"];\n",
			WantCodes:  []string{DuplicateEntryCode},
			WantIssues: 1,
		},
		{
			Name:       "returned array literal",
			Content:    "function f() {\n  return [x, x];\n}\n",
			WantCodes:  []string{DuplicateEntryCode},
			WantLines:  []int{2},
			WantIssues: 1,
		},
		{
			Name:       "typescript checks skipped for javascript",
			Content:    "let n: string = 42;\n",
			WantIssues: 0,
		},
	})
}

func TestAnalyzer_TypeScript(t *testing.T) {
	testutil.RunAnalyzerTests(t, New(nil), []testutil.AnalyzerTestCase{
		{
			Name:       "tuple type is not a duplicate",
			Language:   rules.LanguageTypeScript,
			Content:    "let p: [number, number] = [1, 2];\n",
			WantIssues: 0,
		},
		{
			Name:         "class fields without type",
			Language:     rules.LanguageTypeScript,
			Content:      userClassTS,
			WantCodes:    []string{MissingFieldCode, MissingFieldCode},
			WantLines:    []int{2, 4},
			WantMessages: []string{"Class field 'name' in 'User'", "Class field 'id' in 'User'"},
		},
		{
			Name:     "literal type mismatch",
			Language: rules.LanguageTypeScript,
			Content:  "let n: string = 42;\nconst ok: number = 1;\nlet f: boolean = 'yes';\n",
			WantCodes: []string{TypeMismatchCode, TypeMismatchCode},
			WantLines: []int{1, 3},
			WantMessages: []string{
				"Type 'number' is not assignable to type 'string'",
				"Type 'string' is not assignable to type 'boolean'",
			},
		},
		{
			Name:       "non-literal initializer",
			Language:   rules.LanguageTypeScript,
			Content:    "let n: string = String(42);\nlet m: number = 1 + 2;\n",
			WantIssues: 0,
		},
		{
			Name:      "constructor argument types",
			Language:  rules.LanguageTypeScript,
			Content:   pointTS,
			WantCodes: []string{CtorArgTypeCode, CtorArgTypeCode},
			WantLines: []int{4, 4},
			WantMessages: []string{
				"Argument of type 'string' is not assignable to parameter of type 'number' in 'new Point'",
				"Argument of type 'number' is not assignable to parameter of type 'string' in 'new Point'",
			},
		},
		{
			Name:       "constructor of unknown class",
			Language:   rules.LanguageTypeScript,
			Content:    "const d = new Date(\"2024\");\n",
			WantIssues: 0,
		},
	})
}

func TestAnalyzer_FixedOrder(t *testing.T) {
	src := "let a = 1;\nlet a = 2;\nif (a = 3) run();\nconst xs = [a, a];\n"
	a := New(nil)
	first := a.Analyze(testutil.MakeInput(rules.LanguageJavaScript, src))

	codes := make([]string, 0, len(first))
	for _, issue := range first {
		codes = append(codes, issue.RuleID)
	}
	assert.Equal(t, []string{RedeclareCode, RedeclareCode, AssignInIfCode, MissingBracesCode, DuplicateEntryCode}, codes)

	second := a.Analyze(testutil.MakeInput(rules.LanguageJavaScript, src))
	assert.Equal(t, first, second)
}

func TestAnalyzer_UnavailableCompiler(t *testing.T) {
	a := New(&SyntaxChecker{})
	assert.Nil(t, a.Compiler())
	assert.Len(t, a.Rules(), len(checks))
}

func TestLiteralType(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{`"   "`, "string"},
		{"'  '", "string"},
		{"`   `", "string"},
		{"42", "number"},
		{"-1.5e3", "number"},
		{"0xff", "number"},
		{"10n", "number"},
		{"true", "boolean"},
		{"false", "boolean"},
		{"truthy", ""},
		{`" " + " "`, ""},
		{"x", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, literalType(tt.expr))
		})
	}
}

func TestParamType(t *testing.T) {
	tests := []struct {
		param string
		want  string
	}{
		{"x: number", "number"},
		{"public readonly name: string", "string"},
		{"label?: string", "string"},
		{"count: number = 0", "number"},
		{"cb: (a: number) => void", "(a: number) => void"},
		{"opts: Map<string, number> = new Map()", "Map<string, number>"},
		{"untyped", ""},
		{"withDefault = 1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.want, paramType(tt.param))
		})
	}
}

func TestSourceMasksLiterals(t *testing.T) {
	s := newSource("const a = 'b';", rules.LanguageJavaScript)
	require.Len(t, s.masked, len(s.text))
	assert.Equal(t, "const a = ' ';", s.masked)
}
