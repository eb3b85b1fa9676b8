// Package sourcemap converts between byte offsets and line/column positions
// and gives line-based access to source text.
//
// All line and column numbers are 1-based, matching the issue model.
// Columns count bytes, not runes.
package sourcemap

import (
	"sort"
	"strings"
)

// SourceMap provides efficient access to source code by line.
// It precomputes line boundaries for fast position lookups.
type SourceMap struct {
	// source is the raw source content.
	source string

	// lines are the individual lines (without line endings).
	lines []string

	// lineOffsets[i] is the byte offset where line i+1 starts in source.
	lineOffsets []int
}

// New creates a SourceMap from source content.
// Lines are split on \n (handles both \n and \r\n).
func New(source string) *SourceMap {
	rawLines := strings.Split(source, "\n")
	lines := make([]string, len(rawLines))
	lineOffsets := make([]int, len(rawLines))

	offset := 0
	for i, line := range rawLines {
		lineOffsets[i] = offset
		lines[i] = strings.TrimSuffix(line, "\r")
		offset += len(line) + 1
	}

	return &SourceMap{
		source:      source,
		lines:       lines,
		lineOffsets: lineOffsets,
	}
}

// Source returns the raw source content.
func (sm *SourceMap) Source() string {
	return sm.source
}

// Lines returns all lines (without line endings).
// The returned slice should not be modified.
func (sm *SourceMap) Lines() []string {
	return sm.lines
}

// LineCount returns the total number of lines.
func (sm *SourceMap) LineCount() int {
	return len(sm.lines)
}

// Line returns the text of a 1-based line.
// Returns empty string if line is out of range.
func (sm *SourceMap) Line(line int) string {
	if line < 1 || line > len(sm.lines) {
		return ""
	}
	return sm.lines[line-1]
}

// LineOffset returns the byte offset where a 1-based line starts.
// Returns -1 if line is out of range.
func (sm *SourceMap) LineOffset(line int) int {
	if line < 1 || line > len(sm.lineOffsets) {
		return -1
	}
	return sm.lineOffsets[line-1]
}

// LineOf returns the 1-based line containing the byte offset.
// Offsets past the end map to the last line.
func (sm *SourceMap) LineOf(offset int) int {
	if offset <= 0 {
		return 1
	}
	// First line whose start is beyond offset, minus one.
	idx := sort.SearchInts(sm.lineOffsets, offset+1)
	return idx
}

// Position returns the 1-based line and column of a byte offset.
func (sm *SourceMap) Position(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(sm.source) {
		offset = len(sm.source)
	}
	line = sm.LineOf(offset)
	return line, offset - sm.lineOffsets[line-1] + 1
}

// Offset converts a 1-based line/column to a byte offset.
// Columns past the end of the line clamp to the line end.
// Returns -1 if line is out of range.
func (sm *SourceMap) Offset(line, column int) int {
	start := sm.LineOffset(line)
	if start < 0 {
		return -1
	}
	if column < 1 {
		column = 1
	}
	width := len(sm.lines[line-1])
	if column-1 > width {
		column = width + 1
	}
	return start + column - 1
}

// Snippet extracts a range of 1-based lines (inclusive) as a single string.
// Returns empty string if range is invalid.
func (sm *SourceMap) Snippet(startLine, endLine int) string {
	if startLine < 1 {
		startLine = 1
	}
	if endLine > len(sm.lines) {
		endLine = len(sm.lines)
	}
	if startLine > endLine {
		return ""
	}
	return strings.Join(sm.lines[startLine-1:endLine], "\n")
}

// SnippetAround extracts context lines around a target line.
func (sm *SourceMap) SnippetAround(line, before, after int) string {
	return sm.Snippet(line-before, line+after)
}

// LineFromOffset counts the newlines preceding offset and returns the
// 1-based line. It is a shortcut for callers without a SourceMap.
func LineFromOffset(source string, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		offset = 0
	}
	return strings.Count(source[:offset], "\n") + 1
}
