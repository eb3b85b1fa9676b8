package rules

// WholeLine is an end column large enough to cover any line.
// Edits clamp it to the actual line length when applied.
const WholeLine = 9999

// Range is a region of source text.
// Lines and columns are 1-based; the end column is inclusive.
type Range struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// NewPointRange creates a range covering a single position.
func NewPointRange(line, column int) Range {
	return Range{StartLine: line, StartColumn: column, EndLine: line, EndColumn: column}
}

// NewLineRange creates a range covering a whole line.
func NewLineRange(line int) Range {
	return Range{StartLine: line, StartColumn: 1, EndLine: line, EndColumn: WholeLine}
}

// NewSpanRange creates a range spanning multiple lines/columns.
func NewSpanRange(startLine, startCol, endLine, endCol int) Range {
	return Range{StartLine: startLine, StartColumn: startCol, EndLine: endLine, EndColumn: endCol}
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool {
	return r.StartLine == 0
}

// IsWholeLine reports whether the range covers complete lines.
func (r Range) IsWholeLine() bool {
	return r.StartColumn <= 1 && r.EndColumn >= WholeLine
}

// Normalized fills missing end coordinates and clamps lines to at least 1.
func (r Range) Normalized() Range {
	if r.StartLine < 1 {
		r.StartLine = 1
	}
	if r.StartColumn < 1 {
		r.StartColumn = 1
	}
	if r.EndLine < r.StartLine {
		r.EndLine = r.StartLine
	}
	if r.EndColumn < 1 || (r.EndLine == r.StartLine && r.EndColumn < r.StartColumn) {
		r.EndColumn = r.StartColumn
	}
	return r
}

// Overlaps reports whether two ranges share any position.
// Ranges that only touch at a boundary do not overlap when one of them is empty.
func (r Range) Overlaps(other Range) bool {
	a, b := r.Normalized(), other.Normalized()
	if before(a.EndLine, a.EndColumn, b.StartLine, b.StartColumn) ||
		before(b.EndLine, b.EndColumn, a.StartLine, a.StartColumn) {
		return false
	}
	return true
}

func before(line1, col1, line2, col2 int) bool {
	if line1 != line2 {
		return line1 < line2
	}
	return col1 < col2
}
