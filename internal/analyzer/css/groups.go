package css

import (
	"fmt"

	"github.com/wharflab/reval/internal/cssparse"
	"github.com/wharflab/reval/internal/rules"
)

// selectorGroups accumulates declarations per selector across all
// occurrences, preserving first-seen order of selectors and properties.
type selectorGroups struct {
	order  []string
	groups map[string]*selectorGroup
}

type selectorGroup struct {
	decls     []cssparse.Declaration
	propOrder []string
	values    map[string][]string
}

func newSelectorGroups() *selectorGroups {
	return &selectorGroups{groups: make(map[string]*selectorGroup)}
}

func (s *selectorGroups) add(r *cssparse.Rule) {
	if len(r.Declarations) == 0 {
		return
	}
	key := r.Key()
	g, ok := s.groups[key]
	if !ok {
		g = &selectorGroup{values: make(map[string][]string)}
		s.groups[key] = g
		s.order = append(s.order, key)
	}
	for _, d := range r.Declarations {
		g.decls = append(g.decls, d)
		prop := propertyKey(d.Property)
		vals, seen := g.values[prop]
		if !seen {
			g.propOrder = append(g.propOrder, prop)
		}
		if !contains(vals, d.Value) {
			g.values[prop] = append(vals, d.Value)
		}
	}
}

// check reports conflicting values and oversized selectors. Both point at
// the first declaration recorded for the selector.
func (s *selectorGroups) check(maxDecls int) []rules.Issue {
	var issues []rules.Issue
	for _, sel := range s.order {
		g := s.groups[sel]
		line := g.decls[0].Line
		for _, prop := range g.propOrder {
			if len(g.values[prop]) > 1 {
				issues = append(issues, rules.NewIssue(rules.SeverityWarning, line, ConflictingCode,
					fmt.Sprintf("Conflicting values for '%s' in selector '%s'", prop, sel)).
					WithRange(rules.NewPointRange(line, 1)).
					WithSuggestion(fmt.Sprintf("Consolidate conflicting '%s' values for selector %s.", prop, sel)))
			}
		}
		if len(g.decls) > maxDecls {
			issues = append(issues, rules.NewIssue(rules.SeverityWarning, line, LargeRuleCode,
				fmt.Sprintf("Selector '%s' has many declarations (possible duplication)", sel)).
				WithRange(rules.NewPointRange(line, 1)).
				WithSuggestion("Consider splitting or deduplicating CSS rules."))
		}
	}
	return issues
}

func contains(vals []string, v string) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}
