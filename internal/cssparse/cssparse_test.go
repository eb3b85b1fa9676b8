package cssparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `body {
  margin: 0;
  background-color: #fff;
}

.button:hover > span, .link {
  color: red !important;
  height: ;
}

@media (max-width: 600px) {
  .a { color: blue }
}

.empty {}
`

func collect(s *Stylesheet) []*Rule {
	var out []*Rule
	s.Walk(func(r *Rule) { out = append(out, r) })
	return out
}

func TestScanner_Parse(t *testing.T) {
	sheet, errs := Scanner{}.Parse(sample)
	require.Empty(t, errs)

	rules := collect(sheet)
	require.Len(t, rules, 5)

	body := rules[0]
	assert.Equal(t, "body", body.Selector)
	assert.Equal(t, 1, body.Line)
	require.Len(t, body.Declarations, 2)
	assert.Equal(t, "background-color", body.Declarations[1].Property)
	assert.Equal(t, "#fff", body.Declarations[1].Value)
	assert.Equal(t, 3, body.Declarations[1].Line)
	assert.Equal(t, 3, body.Declarations[1].Column)
	assert.Equal(t, "margin: 0;", sample[body.Declarations[0].Start:body.Declarations[0].End])

	button := rules[1]
	assert.Equal(t, ".button:hover>span,.link", button.Selector)
	assert.Equal(t, 6, button.Line)
	require.Len(t, button.Declarations, 2)
	assert.Equal(t, "red", button.Declarations[0].Value)
	assert.True(t, button.Declarations[0].Important)
	assert.Equal(t, "", button.Declarations[1].Value)
	assert.Equal(t, 8, button.Declarations[1].Line)
	assert.Equal(t, "height: ;", sample[button.Declarations[1].Start:button.Declarations[1].End])

	media := rules[2]
	assert.True(t, media.AtRule)
	assert.Equal(t, "@media (max-width: 600px)", media.Selector)
	assert.Equal(t, ".a", rules[3].Selector)
	assert.Equal(t, 12, rules[3].Line)
	a := rules[3].Declarations[0]
	assert.Equal(t, "color: blue", sample[a.Start:a.End])

	empty := rules[4]
	assert.Equal(t, ".empty", empty.Selector)
	assert.Equal(t, 15, empty.Line)
	assert.Empty(t, empty.Declarations)
}

func TestScanner_ParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		css       string
		wantRules int
		wantLine  int
	}{
		{name: "unclosed block", css: ".a { color: red;\n.b { x: 1 }", wantRules: 1, wantLine: 1},
		{name: "stray brace", css: ".a { color: red }\n}\n.b { color: blue }", wantRules: 2, wantLine: 2},
		{name: "missing colon", css: ".a {\n  color red;\n  margin: 0;\n}", wantRules: 1, wantLine: 2},
		{name: "missing block", css: ".a { color: red }\n.b", wantRules: 1, wantLine: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sheet, errs := Scanner{}.Parse(tc.css)
			require.NotEmpty(t, errs)
			assert.Equal(t, tc.wantLine, errs[0].Line)
			assert.Len(t, sheet.Rules, tc.wantRules)
		})
	}
}

func TestScanner_NestedRule(t *testing.T) {
	sheet, errs := Scanner{}.Parse(".card { color: red; &:hover { color: blue; } }")
	require.Empty(t, errs)
	require.Len(t, sheet.Rules, 1)
	card := sheet.Rules[0]
	require.Len(t, card.Declarations, 1)
	require.Len(t, card.Children, 1)
	assert.Equal(t, "&:hover", card.Children[0].Selector)
}

func TestScanner_SourcePositions(t *testing.T) {
	t.Run("NUL keeps its source width", func(t *testing.T) {
		src := "a { content: \"\x00\"; color: red; color: blue; }"
		sheet, errs := Scanner{}.Parse(src)
		require.Empty(t, errs)
		require.Len(t, sheet.Rules, 1)
		decls := sheet.Rules[0].Declarations
		require.Len(t, decls, 3)
		assert.Equal(t, 31, decls[2].Column)
		assert.Equal(t, "color: blue;", src[decls[2].Start:decls[2].End])
	})

	t.Run("lone CR and form feed break lines", func(t *testing.T) {
		src := ".a\r{\rcolor:red;\rcolor:blue;\f}"
		sheet, errs := Scanner{}.Parse(src)
		require.Empty(t, errs)
		require.Len(t, sheet.Rules, 1)
		decls := sheet.Rules[0].Declarations
		require.Len(t, decls, 2)
		assert.Equal(t, 3, decls[0].Line)
		assert.Equal(t, 4, decls[1].Line)
		assert.Equal(t, 1, decls[1].Column)
		assert.Equal(t, "color:blue;", FoldNewlines(src)[decls[1].Start:decls[1].End])
	})
}

func TestFoldNewlines(t *testing.T) {
	assert.Equal(t, "a\nb\nc\nd", FoldNewlines("a\r\nb\rc\fd"))
	assert.Equal(t, "x\x00", FoldNewlines("x\x00"))
}

func TestDouceur_Parse(t *testing.T) {
	css := "body {\n  margin: 0;\n  color: red;\n}\n\n.link, .nav > a {\n  color: blue !important;\n}\n"
	sheet, errs := Douceur{}.Parse(css)
	require.Empty(t, errs)

	rules := collect(sheet)
	require.Len(t, rules, 2)
	assert.Equal(t, "body", rules[0].Selector)
	assert.Equal(t, 1, rules[0].Line)
	require.Len(t, rules[0].Declarations, 2)
	assert.Equal(t, 3, rules[0].Declarations[1].Line)
	assert.False(t, rules[0].Declarations[1].HasSpan())

	assert.Equal(t, ".link,.nav>a", rules[1].Selector)
	assert.Equal(t, 6, rules[1].Line)
	require.Len(t, rules[1].Declarations, 1)
	assert.True(t, rules[1].Declarations[0].Important)
	assert.Equal(t, "blue", rules[1].Declarations[0].Value)
}

func TestRule_Key(t *testing.T) {
	r := &Rule{Declarations: []Declaration{{Property: "color", Value: "red"}}}
	assert.Equal(t, "{color:red}", r.Key())
	r.Selector = ".x"
	assert.Equal(t, ".x", r.Key())
}

func TestNormalizeSelector(t *testing.T) {
	assert.Equal(t, ".a>.b,.c", NormalizeSelector(" .a >  .b ,\n.c "))
	assert.Equal(t, "div p", NormalizeSelector("div\n\tp"))
}

func TestIsEmptyValue(t *testing.T) {
	assert.True(t, IsEmptyValue(""))
	assert.True(t, IsEmptyValue(" ; "))
	assert.False(t, IsEmptyValue(`""`))
	assert.False(t, IsEmptyValue("0"))
}

func TestNew(t *testing.T) {
	assert.Equal(t, BackendScanner, New("").Name())
	assert.Equal(t, BackendDouceur, New("Douceur").Name())
	assert.Equal(t, BackendScanner, Choose(nil).Name())
}
