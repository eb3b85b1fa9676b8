package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/wharflab/reval/internal/diff"
)

// CompareOptions configures comparison output.
type CompareOptions struct {
	// Format is FormatText or FormatJSON.
	Format Format

	// Color enables colored text output. Nil means off.
	Color *bool

	// Left and Right name the compared inputs.
	Left, Right string
}

// comparisonJSON is the JSON form of a comparison.
type comparisonJSON struct {
	Left       string `json:"left"`
	Right      string `json:"right"`
	Duplicates int    `json:"duplicates"`
	Conflicts  int    `json:"conflicts"`
	*diff.Comparison
}

// segmentPainter renders text diff segments.
type segmentPainter struct {
	del, ins, conflict, same *color.Color
	color                    bool
}

func newSegmentPainter(enabled *bool) *segmentPainter {
	p := &segmentPainter{
		del:      color.New(color.FgRed),
		ins:      color.New(color.FgGreen),
		conflict: color.New(color.FgRed, color.Bold),
		same:     color.New(color.FgGreen, color.Bold),
		color:    enabled != nil && *enabled,
	}
	for _, c := range []*color.Color{p.del, p.ins, p.conflict, p.same} {
		if p.color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// segment renders one segment. Without color, deletions read [-text-] and
// insertions {+text+}.
func (p *segmentPainter) segment(s diff.Segment) string {
	switch s.Op {
	case diff.OpDelete:
		if p.color {
			return p.del.Sprint(s.Text)
		}
		return "[-" + s.Text + "-]"
	case diff.OpInsert:
		if p.color {
			return p.ins.Sprint(s.Text)
		}
		return "{+" + s.Text + "+}"
	default:
		return s.Text
	}
}

// WriteComparison writes a structural comparison.
func WriteComparison(w io.Writer, cmp *diff.Comparison, opts CompareOptions) error {
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(comparisonJSON{
			Left:       opts.Left,
			Right:      opts.Right,
			Duplicates: cmp.Duplicates(),
			Conflicts:  cmp.Conflicts(),
			Comparison: cmp,
		})
	case FormatText, "":
		return writeComparisonText(w, cmp, opts)
	default:
		return fmt.Errorf("unknown compare format: %q (valid: text, json)", opts.Format)
	}
}

func writeComparisonText(w io.Writer, cmp *diff.Comparison, opts CompareOptions) error {
	p := newSegmentPainter(opts.Color)
	var b strings.Builder

	fmt.Fprintf(&b, "Comparing %s and %s (%s)\n", opts.Left, opts.Right, cmp.Language)

	status := func(conflict bool) string {
		if conflict {
			return p.conflict.Sprint("CONFLICT")
		}
		return p.same.Sprint("SAME    ")
	}

	for _, d := range cmp.Selectors {
		fmt.Fprintf(&b, "\n%s selector %s\n", status(d.HasConflict), d.Selector)
		if d.HasConflict {
			for _, decl := range d.DeclarationsA {
				fmt.Fprintf(&b, "  %s\n", p.del.Sprint("- "+decl))
			}
			for _, decl := range d.DeclarationsB {
				fmt.Fprintf(&b, "  %s\n", p.ins.Sprint("+ "+decl))
			}
		}
	}
	for _, d := range cmp.Symbols {
		fmt.Fprintf(&b, "\n%s %s %s\n", status(d.HasConflict), d.Kind, d.Name)
		if d.HasConflict {
			writeCodeBlock(&b, d.LeftCode, "- ", p.del)
			writeCodeBlock(&b, d.RightCode, "+ ", p.ins)
		}
	}

	if cmp.FellBack {
		b.WriteString("\nNo shared symbols, showing text diff:\n\n")
		for _, s := range cmp.TextDiff {
			b.WriteString(p.segment(s))
		}
		if !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	} else {
		fmt.Fprintf(&b, "\n%d shared, %d %s\n",
			cmp.Duplicates(), cmp.Conflicts(), pluralize(cmp.Conflicts(), "conflict", "conflicts"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCodeBlock(b *strings.Builder, code, prefix string, c *color.Color) {
	for line := range strings.SplitSeq(code, "\n") {
		fmt.Fprintf(b, "  %s\n", c.Sprint(prefix+line))
	}
}

// WriteSegments writes a text diff. JSON output lists [op, text] pairs.
func WriteSegments(w io.Writer, segments []diff.Segment, opts CompareOptions) error {
	switch opts.Format {
	case FormatJSON:
		pairs := make([][2]any, 0, len(segments))
		for _, s := range segments {
			pairs = append(pairs, [2]any{int(s.Op), s.Text})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pairs)
	case FormatText, "":
		p := newSegmentPainter(opts.Color)
		var b strings.Builder
		for _, s := range segments {
			b.WriteString(p.segment(s))
		}
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		return fmt.Errorf("unknown diff format: %q (valid: text, json)", opts.Format)
	}
}
