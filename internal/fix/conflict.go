package fix

import "github.com/wharflab/reval/internal/rules"

// editsOverlap checks if two edits overlap in their ranges.
// Overlapping edits cannot both be applied safely.
func editsOverlap(a, b rules.TextEdit) bool {
	return a.Range.Overlaps(b.Range)
}
