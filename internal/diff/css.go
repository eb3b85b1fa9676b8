package diff

import (
	"slices"

	"github.com/wharflab/reval/internal/cssparse"
)

// selectorDeclarations maps each style rule selector to its sorted
// declarations, and lists the selectors in first-seen order. A selector
// appearing in several rules keeps the declarations of its last rule.
func selectorDeclarations(parser cssparse.Parser, text string) (map[string][]string, []string) {
	sheet, _ := parser.Parse(text)
	decls := make(map[string][]string)
	var order []string
	sheet.Walk(func(r *cssparse.Rule) {
		if r.AtRule {
			return
		}
		key := r.Key()
		if _, seen := decls[key]; !seen {
			order = append(order, key)
		}
		list := make([]string, 0, len(r.Declarations))
		for _, d := range r.Declarations {
			list = append(list, d.String())
		}
		slices.Sort(list)
		decls[key] = list
	})
	return decls, order
}

func compareSelectors(parser cssparse.Parser, cssA, cssB string) []CssDuplicate {
	left, order := selectorDeclarations(parser, cssA)
	right, _ := selectorDeclarations(parser, cssB)

	out := []CssDuplicate{}
	for _, sel := range order {
		declsB, ok := right[sel]
		if !ok {
			continue
		}
		declsA := left[sel]
		out = append(out, CssDuplicate{
			Selector:      sel,
			DeclarationsA: declsA,
			DeclarationsB: declsB,
			HasConflict:   !slices.Equal(declsA, declsB),
		})
	}
	return out
}
