// Package script implements the JavaScript and TypeScript analyzer: lexical
// heuristics over masked source, plus an optional tree-sitter syntax check.
//
// The heuristics do not parse. Each check documents what it misses.
package script

import (
	"github.com/wharflab/reval/internal/rules"
)

// Rule ids reported by the analyzer.
const (
	RedeclareCode      = "js-redeclare"
	AssignInIfCode     = "js-assign-in-if"
	MissingBracesCode  = "js-missing-braces"
	DuplicateEntryCode = "js-duplicate-array-entry"
	MissingFieldCode   = "ts-missing-field-type"
	TypeMismatchCode   = "ts-type-mismatch"
	CtorArgTypeCode    = "ts-constructor-arg-type"
	SyntaxErrorCode    = "ts-syntax-error"
)

var (
	scriptLanguages = []rules.Language{rules.LanguageJavaScript, rules.LanguageTypeScript}
	tsOnly          = []rules.Language{rules.LanguageTypeScript}
)

var (
	redeclareRule = rules.RuleMetadata{
		Code:            RedeclareCode,
		Name:            "Redeclared variable",
		Description:     "A name is bound more than once with let, const or var",
		Languages:       scriptLanguages,
		DefaultSeverity: rules.SeverityError,
		Category:        "correctness",
	}
	assignInIfRule = rules.RuleMetadata{
		Code:            AssignInIfCode,
		Name:            "Assignment in condition",
		Description:     "An if condition contains a single '=' assignment",
		Languages:       scriptLanguages,
		DefaultSeverity: rules.SeverityError,
		Category:        "correctness",
	}
	missingBracesRule = rules.RuleMetadata{
		Code:            MissingBracesCode,
		Name:            "Missing braces",
		Description:     "An if statement body is not wrapped in braces",
		Languages:       scriptLanguages,
		DefaultSeverity: rules.SeverityWarning,
		Category:        "style",
	}
	duplicateEntryRule = rules.RuleMetadata{
		Code:            DuplicateEntryCode,
		Name:            "Duplicate array entry",
		Description:     "A single-line array literal repeats an element",
		Languages:       scriptLanguages,
		DefaultSeverity: rules.SeverityWarning,
		Category:        "correctness",
	}
	missingFieldRule = rules.RuleMetadata{
		Code:            MissingFieldCode,
		Name:            "Missing field type",
		Description:     "A class field is declared without a type annotation",
		Languages:       tsOnly,
		DefaultSeverity: rules.SeverityWarning,
		Category:        "types",
	}
	typeMismatchRule = rules.RuleMetadata{
		Code:            TypeMismatchCode,
		Name:            "Literal type mismatch",
		Description:     "A variable annotated with a primitive type is initialized with a literal of another type",
		Languages:       tsOnly,
		DefaultSeverity: rules.SeverityError,
		Category:        "types",
	}
	ctorArgTypeRule = rules.RuleMetadata{
		Code:            CtorArgTypeCode,
		Name:            "Constructor argument type",
		Description:     "A literal passed to new C(...) does not match the declared constructor parameter type",
		Languages:       tsOnly,
		DefaultSeverity: rules.SeverityError,
		Category:        "types",
	}
	syntaxErrorRule = rules.RuleMetadata{
		Code:            SyntaxErrorCode,
		Name:            "Syntax error",
		Description:     "The TypeScript grammar could not parse part of the source",
		Languages:       scriptLanguages,
		DefaultSeverity: rules.SeverityError,
		Category:        "syntax",
		Backend:         syntaxBackendName,
	}
)

func heuristicRules() []rules.Rule {
	out := make([]rules.Rule, 0, len(checks))
	for _, c := range checks {
		out = append(out, c.rule)
	}
	return out
}

func init() {
	for _, r := range heuristicRules() {
		rules.Register(r)
	}
	rules.Register(syntaxErrorRule)
}
