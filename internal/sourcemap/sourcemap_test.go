package sourcemap

import (
	"testing"
)

func TestNew(t *testing.T) {
	sm := New(".a {}\n.b { color: red; }\n<p>")

	if sm.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", sm.LineCount())
	}
}

func TestNew_EmptySource(t *testing.T) {
	sm := New("")
	if sm.LineCount() != 1 {
		// Empty source still has one empty "line"
		t.Errorf("LineCount() = %d, want 1", sm.LineCount())
	}
}

func TestNew_CRLF(t *testing.T) {
	sm := New("let a = 1;\r\nlet b = 2;\r\n")

	if sm.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", sm.LineCount())
	}
	if sm.Line(1) != "let a = 1;" {
		t.Errorf("Line(1) = %q, want %q", sm.Line(1), "let a = 1;")
	}
}

func TestLine_OutOfRange(t *testing.T) {
	sm := New("one\ntwo")
	if got := sm.Line(0); got != "" {
		t.Errorf("Line(0) = %q, want empty", got)
	}
	if got := sm.Line(3); got != "" {
		t.Errorf("Line(3) = %q, want empty", got)
	}
	if got := sm.LineOffset(2); got != 4 {
		t.Errorf("LineOffset(2) = %d, want 4", got)
	}
	if got := sm.LineOffset(9); got != -1 {
		t.Errorf("LineOffset(9) = %d, want -1", got)
	}
}

func TestPosition(t *testing.T) {
	source := "ab\ncd\n\nef"
	sm := New(source)

	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3}, // the newline itself belongs to line 1
		{3, 2, 1},
		{6, 3, 1},
		{7, 4, 1},
		{9, 4, 3},
		{100, 4, 3},
	}

	for _, tc := range tests {
		line, col := sm.Position(tc.offset)
		if line != tc.wantLine || col != tc.wantCol {
			t.Errorf("Position(%d) = (%d, %d), want (%d, %d)", tc.offset, line, col, tc.wantLine, tc.wantCol)
		}
		if tc.offset <= len(source) {
			if got := LineFromOffset(source, tc.offset); got != tc.wantLine {
				t.Errorf("LineFromOffset(%d) = %d, want %d", tc.offset, got, tc.wantLine)
			}
		}
	}
}

func TestOffset(t *testing.T) {
	sm := New("ab\ncdef")

	if got := sm.Offset(2, 2); got != 4 {
		t.Errorf("Offset(2, 2) = %d, want 4", got)
	}
	if got := sm.Offset(2, 9999); got != 7 {
		t.Errorf("Offset(2, 9999) = %d, want 7 (clamped)", got)
	}
	if got := sm.Offset(5, 1); got != -1 {
		t.Errorf("Offset(5, 1) = %d, want -1", got)
	}
}

func TestSnippet(t *testing.T) {
	sm := New("l1\nl2\nl3\nl4")

	if got := sm.Snippet(2, 3); got != "l2\nl3" {
		t.Errorf("Snippet(2, 3) = %q", got)
	}
	if got := sm.SnippetAround(1, 2, 1); got != "l1\nl2" {
		t.Errorf("SnippetAround(1, 2, 1) = %q", got)
	}
	if got := sm.Snippet(3, 2); got != "" {
		t.Errorf("Snippet(3, 2) = %q, want empty", got)
	}
}
