package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/reval/internal/diff"
	"github.com/wharflab/reval/internal/rules"
)

func TestWriteComparison_TextSelectors(t *testing.T) {
	t.Parallel()
	cmp := &diff.Comparison{
		Language: rules.LanguageCSS,
		Selectors: []diff.CssDuplicate{
			{Selector: ".btn", DeclarationsA: []string{"color: red"}, DeclarationsB: []string{"color: blue"}, HasConflict: true},
			{Selector: ".card", DeclarationsA: []string{"top: 0"}, DeclarationsB: []string{"top: 0"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, cmp, CompareOptions{Left: "a.css", Right: "b.css"}))

	want := "Comparing a.css and b.css (css)\n" +
		"\nCONFLICT selector .btn\n" +
		"  - color: red\n" +
		"  + color: blue\n" +
		"\nSAME     selector .card\n" +
		"\n2 shared, 1 conflict\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteComparison_TextSymbols(t *testing.T) {
	t.Parallel()
	cmp := &diff.Comparison{
		Language: rules.LanguageTypeScript,
		Symbols: []diff.SymbolDuplicate{
			{Kind: diff.KindFunction, Name: "add", LeftCode: "function add(a, b) {\n  return a + b;\n}", RightCode: "function add(a, b) {\n  return a - b;\n}", HasConflict: true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, cmp, CompareOptions{Left: "l.ts", Right: "r.ts"}))
	out := buf.String()
	snaps.MatchSnapshot(t, out)

	assert.Contains(t, out, "CONFLICT function add\n")
	assert.Contains(t, out, "  -   return a + b;\n")
	assert.Contains(t, out, "  +   return a - b;\n")
	assert.Contains(t, out, "1 shared, 1 conflict\n")
}

func TestWriteComparison_TextFallback(t *testing.T) {
	t.Parallel()
	cmp := &diff.Comparison{
		Language: rules.LanguageJavaScript,
		FellBack: true,
		TextDiff: []diff.Segment{
			{Op: diff.OpEqual, Text: "let a = "},
			{Op: diff.OpDelete, Text: "1"},
			{Op: diff.OpInsert, Text: "2"},
			{Op: diff.OpEqual, Text: ";"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, cmp, CompareOptions{Left: "a.js", Right: "b.js"}))
	assert.Equal(t, "Comparing a.js and b.js (javascript)\n\nNo shared symbols, showing text diff:\n\nlet a = [-1-]{+2+};\n", buf.String())
}

func TestWriteComparison_JSON(t *testing.T) {
	t.Parallel()
	cmp := &diff.Comparison{
		Language: rules.LanguageHTML,
		Symbols: []diff.SymbolDuplicate{
			{Kind: diff.KindID, Name: "main", LeftCode: `<div id="main">`, RightCode: `<section id="main">`, HasConflict: true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, cmp, CompareOptions{Format: FormatJSON, Left: "a.html", Right: "b.html"}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a.html", got["left"])
	assert.Equal(t, "html", got["language"])
	assert.InDelta(t, 1, got["duplicates"], 0)
	assert.InDelta(t, 1, got["conflicts"], 0)
	assert.Equal(t, false, got["fellBack"])
	symbols := got["symbols"].([]any)
	require.Len(t, symbols, 1)
	assert.Equal(t, "id", symbols[0].(map[string]any)["kind"])
}

func TestWriteComparison_UnknownFormat(t *testing.T) {
	t.Parallel()
	err := WriteComparison(&bytes.Buffer{}, &diff.Comparison{}, CompareOptions{Format: FormatSARIF})
	require.Error(t, err)
}

func TestWriteSegments(t *testing.T) {
	t.Parallel()
	segments := []diff.Segment{
		{Op: diff.OpEqual, Text: "a"},
		{Op: diff.OpDelete, Text: "b"},
		{Op: diff.OpInsert, Text: "c\n"},
	}

	var text bytes.Buffer
	require.NoError(t, WriteSegments(&text, segments, CompareOptions{}))
	assert.Equal(t, "a[-b-]{+c\n+}\n", text.String())

	var js bytes.Buffer
	require.NoError(t, WriteSegments(&js, segments, CompareOptions{Format: FormatJSON}))
	assert.JSONEq(t, `[[0, "a"], [-1, "b"], [1, "c\n"]]`, js.String())

	var colored bytes.Buffer
	require.NoError(t, WriteSegments(&colored, segments, CompareOptions{Color: new(true)}))
	assert.Contains(t, colored.String(), "\x1b[31mb")

	var empty bytes.Buffer
	require.NoError(t, WriteSegments(&empty, nil, CompareOptions{}))
	assert.Empty(t, empty.String())
}
