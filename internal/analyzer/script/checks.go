package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/scan"
)

type check struct {
	rule   rules.RuleMetadata
	tsOnly bool
	run    func(s *source) []rules.Issue
}

// checks run in this order; output order follows it.
var checks = []check{
	{rule: redeclareRule, run: checkRedeclare},
	{rule: assignInIfRule, run: checkAssignInIf},
	{rule: missingBracesRule, run: checkMissingBraces},
	{rule: duplicateEntryRule, run: checkDuplicateEntries},
	{rule: missingFieldRule, tsOnly: true, run: checkMissingFieldTypes},
	{rule: typeMismatchRule, tsOnly: true, run: checkTypeMismatch},
	{rule: ctorArgTypeRule, tsOnly: true, run: checkConstructorArgs},
}

var (
	bindingRe   = regexp.MustCompile(`\b(?:let|const|var)\s+([A-Za-z_$][\w$]*)`)
	ifRe        = regexp.MustCompile(`\bif\s*\(`)
	typedLitRe  = regexp.MustCompile(`\b(?:let|const|var)\s+[A-Za-z_$][\w$]*\s*:\s*(string|number|boolean)\s*=`)
	fieldRe     = regexp.MustCompile(`^(?:(?:public|private|protected|readonly|static|declare|override|accessor)\s+)*#?([A-Za-z_$][\w$]*)\s*(?:=|;)`)
	modifiersRe = regexp.MustCompile(`^(?:(?:public|private|protected|readonly|override)\s+)*`)
)

// checkRedeclare reports every binding site of a name bound more than once
// anywhere in the text. There is no scope analysis, so shadowing in
// separate functions is reported too. Bindings in for-loop heads are
// skipped, as are destructuring patterns and the second and later names
// of a comma-separated declaration.
func checkRedeclare(s *source) []rules.Issue {
	type site struct {
		name   string
		offset int
	}
	var sites []site
	counts := make(map[string]int)
	for _, m := range bindingRe.FindAllStringSubmatchIndex(s.masked, -1) {
		if s.inForHead(m[0]) {
			continue
		}
		name := s.masked[m[2]:m[3]]
		sites = append(sites, site{name: name, offset: m[2]})
		counts[name]++
	}

	var issues []rules.Issue
	for _, st := range sites {
		if counts[st.name] > 1 {
			issues = append(issues, s.issueAt(rules.SeverityError, st.offset, RedeclareCode,
				fmt.Sprintf("Variable '%s' is declared more than once", st.name)))
		}
	}
	return issues
}

func (s *source) inForHead(at int) bool {
	j := s.prevSignificant(at)
	if j < 0 || s.masked[j] != '(' {
		return false
	}
	return s.wordBefore(s.prevSignificant(j)) == "for"
}

// ifConditions yields the offset of each "if" keyword and the span of its
// condition between the parentheses. Conditions whose closing parenthesis
// is missing are skipped.
func (s *source) ifConditions(fn func(at, open, closing int)) {
	for _, m := range ifRe.FindAllStringIndex(s.masked, -1) {
		closing := scan.MatchParen(s.masked, m[1])
		if closing == scan.NotFound {
			continue
		}
		fn(m[0], m[1], closing)
	}
}

// checkAssignInIf reports the first single '=' inside each if condition.
// Compound assignments such as '+=' count as assignments.
func checkAssignInIf(s *source) []rules.Issue {
	var issues []rules.Issue
	s.ifConditions(func(_, open, closing int) {
		if k := assignmentIndex(s.masked[open:closing]); k >= 0 {
			issues = append(issues, s.issueAt(rules.SeverityError, open+k, AssignInIfCode,
				"Assignment inside if condition; did you mean '===' ?"))
		}
	})
	return issues
}

func assignmentIndex(cond string) int {
	for i := 0; i < len(cond); i++ {
		if cond[i] != '=' {
			continue
		}
		var prev, next byte
		if i > 0 {
			prev = cond[i-1]
		}
		if i+1 < len(cond) {
			next = cond[i+1]
		}
		if strings.IndexByte("=!<>", prev) < 0 && next != '=' && next != '>' {
			return i
		}
	}
	return -1
}

// checkMissingBraces reports if statements whose body does not start
// with '{'. else branches are not inspected.
func checkMissingBraces(s *source) []rules.Issue {
	var issues []rules.Issue
	s.ifConditions(func(at, _, closing int) {
		k := scan.SkipSpace(s.masked, closing+1)
		if k >= len(s.masked) || s.masked[k] == '{' {
			return
		}
		issues = append(issues, s.issueAt(rules.SeverityWarning, at, MissingBracesCode,
			"Missing braces after if statement").
			WithSuggestion("Wrap the if body in braces."))
	})
	return issues
}

// primitiveTypes are the names that make a bracket list a tuple type
// rather than an array value.
var primitiveTypes = map[string]bool{
	"string": true, "number": true, "boolean": true, "bigint": true, "symbol": true,
	"any": true, "unknown": true, "never": true, "void": true, "null": true,
	"undefined": true, "object": true,
}

// checkDuplicateEntries looks at array literals that sit on one line and
// contain no nested array. Entries are compared by trimmed source text, so
// equal values spelled differently are missed. A bracket counts as a
// literal only after an operator, an opening delimiter or "return".
func checkDuplicateEntries(s *source) []rules.Issue {
	var issues []rules.Issue
	for i := 0; i < len(s.masked); i++ {
		if s.masked[i] != '[' || !s.arrayLiteralAt(i) {
			continue
		}
		end := scan.MatchDelim(s.masked, i+1, '[', ']')
		if end == scan.NotFound {
			continue
		}
		inner := s.masked[i+1 : end]
		if strings.ContainsAny(inner, "\n[") {
			continue
		}
		spans := scan.SplitTopLevel(inner, ',')
		if s.isTypeScript() && isTupleType(inner, spans) {
			continue
		}

		seen := make(map[string]bool, len(spans))
		for _, sp := range spans {
			sp = scan.Span{Start: i + 1 + sp.Start, End: i + 1 + sp.End}
			entry := strings.TrimSpace(sp.Of(s.text))
			if entry == "" {
				continue
			}
			if seen[entry] {
				issues = append(issues, s.issueAt(rules.SeverityWarning, s.leadingSpace(sp), DuplicateEntryCode,
					fmt.Sprintf("Duplicate array entry %s", entry)))
			}
			seen[entry] = true
		}
	}
	return issues
}

func (s *source) arrayLiteralAt(i int) bool {
	j := s.prevSignificant(i)
	if j < 0 {
		return true
	}
	if strings.IndexByte("=([,:?!&|{};", s.masked[j]) >= 0 {
		return true
	}
	return s.wordBefore(j) == "return"
}

func isTupleType(inner string, spans []scan.Span) bool {
	for _, sp := range spans {
		if !primitiveTypes[strings.TrimSpace(sp.Of(inner))] {
			return false
		}
	}
	return true
}

// class is a class declaration found in masked text.
type class struct {
	name      string
	bodyStart int // just after '{'
	bodyEnd   int // the closing '}'
}

var classRe = regexp.MustCompile(`\bclass\s+([A-Za-z_$][\w$]*)[^{;]*\{`)

// classes finds class declarations with a complete body.
func (s *source) classes() []class {
	var out []class
	for _, m := range classRe.FindAllStringSubmatchIndex(s.masked, -1) {
		end := scan.MatchBrace(s.masked, m[1])
		if end == scan.NotFound {
			continue
		}
		out = append(out, class{name: s.masked[m[2]:m[3]], bodyStart: m[1], bodyEnd: end})
	}
	return out
}

// checkMissingFieldTypes inspects lines that start at the top level of a
// class body. A field is a name, after optional modifiers, followed
// directly by '=' or ';'. Fields spread over several lines with the name
// not at a line start are missed.
func checkMissingFieldTypes(s *source) []rules.Issue {
	var issues []rules.Issue
	for _, c := range s.classes() {
		body := s.masked[c.bodyStart:c.bodyEnd]
		offset := c.bodyStart
		depth := 0
		for _, line := range strings.SplitAfter(body, "\n") {
			if depth == 0 {
				trimmed := strings.TrimLeft(line, " \t")
				if m := fieldRe.FindStringSubmatchIndex(trimmed); m != nil && !strings.HasPrefix(trimmed[m[3]:], "==") {
					at := offset + len(line) - len(trimmed) + m[2]
					issues = append(issues, s.issueAt(rules.SeverityWarning, at, MissingFieldCode,
						fmt.Sprintf("Class field '%s' in '%s' has no type annotation", trimmed[m[2]:m[3]], c.name)))
				}
			}
			depth = max(depth+delimDelta(line), 0)
			offset += len(line)
		}
	}
	return issues
}

func delimDelta(text string) int {
	d := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{', '(', '[':
			d++
		case '}', ')', ']':
			d--
		}
	}
	return d
}

// checkTypeMismatch compares a let/const/var annotated with string, number
// or boolean against its initializer when that initializer is exactly one
// literal.
func checkTypeMismatch(s *source) []rules.Issue {
	var issues []rules.Issue
	for _, m := range typedLitRe.FindAllStringSubmatchIndex(s.masked, -1) {
		declared := s.masked[m[2]:m[3]]
		start := scan.SkipSpace(s.masked, m[1])
		end := scan.StatementEnd(s.masked, start)
		got := literalType(strings.TrimSuffix(strings.TrimSpace(s.masked[start:end]), ";"))
		if got == "" || got == declared {
			continue
		}
		issues = append(issues, s.issueAt(rules.SeverityError, start, TypeMismatchCode,
			fmt.Sprintf("Type '%s' is not assignable to type '%s'", got, declared)))
	}
	return issues
}

var (
	ctorRe = regexp.MustCompile(`\bconstructor\s*\(`)
	newRe  = regexp.MustCompile(`\bnew\s+([A-Za-z_$][\w$]*)\s*(?:<[^<>()]*>)?\s*\(`)
)

// constructorParams maps class names to the declared type of each
// constructor parameter, "" where a parameter has no annotation. The first
// class of a given name wins.
func (s *source) constructorParams() map[string][]string {
	out := make(map[string][]string)
	for _, c := range s.classes() {
		if _, dup := out[c.name]; dup {
			continue
		}
		body := s.masked[c.bodyStart:c.bodyEnd]
		for _, m := range ctorRe.FindAllStringIndex(body, -1) {
			if scan.DepthAt(body, m[0]) != 0 {
				continue
			}
			open := c.bodyStart + m[1]
			closing := scan.MatchParen(s.masked, open)
			if closing == scan.NotFound {
				break
			}
			var types []string
			list := s.masked[open:closing]
			if strings.TrimSpace(list) != "" {
				for _, sp := range scan.SplitTopLevel(list, ',') {
					types = append(types, paramType(sp.Of(list)))
				}
			}
			out[c.name] = types
			break
		}
	}
	return out
}

// paramType extracts the annotation of "mods name?: T = default".
func paramType(param string) string {
	param = modifiersRe.ReplaceAllString(strings.TrimSpace(param), "")
	colon := -1
	depth := 0
	for i := 0; i < len(param); i++ {
		switch param[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}':
			depth--
		case '>':
			if i == 0 || param[i-1] != '=' {
				depth--
			}
		case ':':
			if depth == 0 && colon < 0 {
				colon = i
			}
		case '=':
			if depth == 0 && (i+1 >= len(param) || param[i+1] != '>') {
				if colon < 0 {
					return ""
				}
				return strings.TrimSpace(param[colon+1 : i])
			}
		}
	}
	if colon < 0 {
		return ""
	}
	return strings.TrimSpace(param[colon+1:])
}

// checkConstructorArgs matches "new Name(...)" against the constructor of
// a class named Name in the same text. Only literal arguments checked
// against string, number or boolean parameters are reported.
func checkConstructorArgs(s *source) []rules.Issue {
	params := s.constructorParams()
	if len(params) == 0 {
		return nil
	}
	var issues []rules.Issue
	for _, m := range newRe.FindAllStringSubmatchIndex(s.masked, -1) {
		name := s.masked[m[2]:m[3]]
		want, ok := params[name]
		if !ok {
			continue
		}
		closing := scan.MatchParen(s.masked, m[1])
		if closing == scan.NotFound {
			continue
		}
		args := s.masked[m[1]:closing]
		if strings.TrimSpace(args) == "" {
			continue
		}
		for i, sp := range scan.SplitTopLevel(args, ',') {
			if i >= len(want) {
				break
			}
			if want[i] != "string" && want[i] != "number" && want[i] != "boolean" {
				continue
			}
			got := literalType(sp.Of(args))
			if got == "" || got == want[i] {
				continue
			}
			at := s.leadingSpace(scan.Span{Start: m[1] + sp.Start, End: m[1] + sp.End})
			issues = append(issues, s.issueAt(rules.SeverityError, at, CtorArgTypeCode,
				fmt.Sprintf("Argument of type '%s' is not assignable to parameter of type '%s' in 'new %s'",
					got, want[i], name)))
		}
	}
	return issues
}
