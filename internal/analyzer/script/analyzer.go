package script

import (
	"github.com/wharflab/reval/internal/analyzer"
	"github.com/wharflab/reval/internal/rules"
)

// Analyzer checks JavaScript and TypeScript.
type Analyzer struct {
	compiler Compiler
}

// New creates a script analyzer. compiler may be nil; an unavailable
// compiler is dropped.
func New(compiler Compiler) *Analyzer {
	if compiler != nil && !compiler.Available() {
		compiler = nil
	}
	return &Analyzer{compiler: compiler}
}

// Compiler returns the active diagnostics backend, or nil.
func (a *Analyzer) Compiler() Compiler {
	return a.compiler
}

// Languages implements rules.Analyzer.
func (a *Analyzer) Languages() []rules.Language {
	return scriptLanguages
}

// Rules implements rules.Analyzer.
func (a *Analyzer) Rules() []rules.Rule {
	out := heuristicRules()
	if a.compiler != nil {
		out = append(out, syntaxErrorRule)
	}
	return out
}

// Analyze implements rules.Analyzer. TypeScript-only checks run when the
// input language is TypeScript. The compiler parses both languages, since
// the TypeScript grammar accepts plain JavaScript.
func (a *Analyzer) Analyze(input rules.Input) []rules.Issue {
	s := newSource(input.Source, input.Language)
	var issues []rules.Issue
	for _, c := range checks {
		if c.tsOnly && !s.isTypeScript() {
			continue
		}
		issues = append(issues, analyzer.Guard(c.rule.Code, 1, func() []rules.Issue {
			return c.run(s)
		})...)
	}
	if a.compiler != nil {
		issues = append(issues, analyzer.Guard(a.compiler.Name(), 1, func() []rules.Issue {
			return a.compiler.Check(input)
		})...)
	}
	return issues
}
