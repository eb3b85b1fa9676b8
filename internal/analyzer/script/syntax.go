package script

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/wharflab/reval/internal/rules"
)

const syntaxBackendName = "tree-sitter"

// maxSyntaxIssues caps the diagnostics from one parse; after the first few
// errors tree-sitter's recovery mostly produces noise.
const maxSyntaxIssues = 10

// Compiler is an optional JavaScript and TypeScript diagnostics backend. The heuristic
// checks run whether or not one is available.
type Compiler interface {
	Name() string
	Available() bool
	Check(input rules.Input) []rules.Issue
}

// SyntaxChecker reports syntax errors found by the tree-sitter TypeScript
// grammar. It is safe for concurrent use; each check gets its own parser.
type SyntaxChecker struct {
	lang *sitter.Language
}

// NewSyntaxChecker loads the grammar. The checker reports itself
// unavailable if loading fails.
func NewSyntaxChecker() *SyntaxChecker {
	return &SyntaxChecker{lang: loadTypeScript()}
}

func loadTypeScript() (lang *sitter.Language) {
	defer func() {
		if recover() != nil {
			lang = nil
		}
	}()
	return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
}

// Name implements Compiler.
func (c *SyntaxChecker) Name() string { return syntaxBackendName }

// Available implements Compiler.
func (c *SyntaxChecker) Available() bool { return c != nil && c.lang != nil }

// Check implements Compiler.
func (c *SyntaxChecker) Check(input rules.Input) []rules.Issue {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(c.lang); err != nil {
		return nil
	}

	src := []byte(input.Source)
	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	var issues []rules.Issue
	collectSyntaxErrors(root, src, &issues)
	return issues
}

// collectSyntaxErrors walks down to ERROR and MISSING nodes, reporting
// each once without descending into them.
func collectSyntaxErrors(n *sitter.Node, src []byte, issues *[]rules.Issue) {
	if len(*issues) >= maxSyntaxIssues {
		return
	}
	switch {
	case n.IsMissing():
		*issues = append(*issues, syntaxIssue(n, fmt.Sprintf("Missing '%s'", n.Kind())))
		return
	case n.IsError():
		*issues = append(*issues, syntaxIssue(n, fmt.Sprintf("Unexpected %s", errorSnippet(n, src))))
		return
	}
	for i := range n.ChildCount() {
		child := n.Child(i)
		if child != nil && (child.HasError() || child.IsMissing()) {
			collectSyntaxErrors(child, src, issues)
		}
	}
}

func syntaxIssue(n *sitter.Node, msg string) rules.Issue {
	pos := n.StartPosition()
	line, col := int(pos.Row)+1, int(pos.Column)+1
	return rules.NewIssue(rules.SeverityError, line, SyntaxErrorCode, msg).
		WithColumn(col).
		WithRange(rules.NewPointRange(line, col))
}

func errorSnippet(n *sitter.Node, src []byte) string {
	text := strings.TrimSpace(n.Utf8Text(src))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if text == "" {
		return "end of input"
	}
	if len(text) > 30 {
		text = text[:30] + "..."
	}
	return "'" + text + "'"
}

var _ Compiler = (*SyntaxChecker)(nil)
