package reporter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/sourcemap"
)

// Styles for different parts of the output
var (
	// Color detection using termenv (respects NO_COLOR, CLICOLOR_FORCE, terminal detection)
	useColors = termenv.EnvColorProfile() != termenv.Ascii

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	ruleIDStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	suggestionStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("108"))

	fileLocStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	lineNumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	markerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	summaryStyle = lipgloss.NewStyle().
			Bold(true)

	severityStyles = map[rules.Severity]lipgloss.Style{
		rules.SeverityError: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		rules.SeverityWarning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
		rules.SeverityInfo: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
	}
)

// AutoColor reports whether colored output suits w: it must be a terminal
// and the environment must not ask for plain output.
func AutoColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return !termenv.EnvNoColor()
}

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// SyntaxHighlight enables syntax highlighting in snippets.
	SyntaxHighlight bool

	// ShowSource shows source code snippets. Default: true.
	ShowSource bool

	// ChromaStyle is the Chroma style name for syntax highlighting.
	// Default: "monokai" for dark terminals, "github" for light.
	ChromaStyle string
}

// DefaultTextOptions returns sensible defaults for text output.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		SyntaxHighlight: true,
		ShowSource:      true,
	}
}

// TextReporter formats reports as styled text output.
type TextReporter struct {
	opts      TextOptions
	color     bool
	formatter chroma.Formatter
	style     *chroma.Style
	lexers    map[rules.Language]chroma.Lexer
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(opts TextOptions) *TextReporter {
	r := &TextReporter{opts: opts, color: useColors}
	if opts.Color != nil {
		r.color = *opts.Color
	}

	if r.color && opts.SyntaxHighlight {
		styleName := opts.ChromaStyle
		if styleName == "" {
			if termenv.HasDarkBackground() {
				styleName = "monokai"
			} else {
				styleName = "github"
			}
		}
		r.style = styles.Get(styleName)
		if r.style == nil {
			r.style = styles.Fallback
		}

		r.formatter = formatters.Get("terminal256")
		if r.formatter == nil {
			r.formatter = formatters.Fallback
		}
		r.lexers = make(map[rules.Language]chroma.Lexer)
	}

	return r
}

// lexer returns the cached Chroma lexer for lang.
func (r *TextReporter) lexer(lang rules.Language) chroma.Lexer {
	if l, ok := r.lexers[lang]; ok {
		return l
	}
	l := lexers.Get(string(lang))
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)
	r.lexers[lang] = l
	return l
}

func (r *TextReporter) render(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

// Print writes every result, sorted by line, followed by a summary line.
func (r *TextReporter) Print(w io.Writer, results []Result) error {
	var total rules.Summary
	files := 0
	for _, res := range results {
		if res.Report == nil {
			continue
		}
		files++
		total.Errors += res.Report.Summary.Errors
		total.Warnings += res.Report.Summary.Warnings
		total.Info += res.Report.Summary.Info

		var sm *sourcemap.SourceMap
		if r.opts.ShowSource && res.Source != "" {
			sm = sourcemap.New(res.Source)
		}
		for _, issue := range SortIssues(res.Report.Issues) {
			if err := r.printIssue(w, res.File, res.Report.Language, issue, sm); err != nil {
				return err
			}
		}
	}

	if files == 0 {
		return nil
	}
	var line string
	if total.Total() == 0 {
		line = fmt.Sprintf("No issues found in %d %s", files, pluralize(files, "file", "files"))
	} else {
		line = fmt.Sprintf("\n%d %s (%d %s, %d %s, %d info) in %d %s",
			total.Total(), pluralize(total.Total(), "issue", "issues"),
			total.Errors, pluralize(total.Errors, "error", "errors"),
			total.Warnings, pluralize(total.Warnings, "warning", "warnings"),
			total.Info,
			files, pluralize(files, "file", "files"))
	}
	_, err := fmt.Fprintln(w, r.render(summaryStyle, line))
	return err
}

// printIssue formats a single issue.
func (r *TextReporter) printIssue(w io.Writer, file string, lang rules.Language, issue rules.Issue, sm *sourcemap.SourceMap) error {
	sevStyle, ok := severityStyles[issue.Type]
	if !ok {
		sevStyle = warningStyle
	}

	label := strings.ToUpper(issue.Type.String())
	header := "\n" + r.render(sevStyle, label+":")
	if issue.RuleID != "" {
		header += " " + r.render(ruleIDStyle, issue.RuleID)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, r.render(messageStyle, issue.Message)); err != nil {
		return err
	}
	if issue.Suggestion != "" {
		if _, err := fmt.Fprintln(w, r.render(suggestionStyle, "Suggestion: "+issue.Suggestion)); err != nil {
			return err
		}
	}

	if sm != nil {
		r.printSource(w, file, lang, issue, sm)
	}
	return nil
}

// printSource renders the lines around the issue with the affected lines marked.
func (r *TextReporter) printSource(w io.Writer, file string, lang rules.Language, issue rules.Issue, sm *sourcemap.SourceMap) {
	start := issue.Line
	end := issue.Range.EndLine
	if end < start {
		end = start
	}
	if start < 1 || start > sm.LineCount() {
		return
	}
	end = min(end, sm.LineCount())

	// 2-4 lines of context
	pad := 2
	if end == start {
		pad = 4
	}
	first, last := start, end
	for p := 0; p < pad; {
		expanded := false
		if first > 1 {
			first--
			p++
			expanded = true
		}
		if last < sm.LineCount() {
			last++
			p++
			expanded = true
		}
		if !expanded {
			break
		}
	}

	sep := "--------------------"
	if r.color {
		sep = "────────────────────"
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, r.render(fileLocStyle, fmt.Sprintf("%s:%d", file, start)))
	fmt.Fprintln(w, r.render(separatorStyle, sep))

	for i := first; i <= last; i++ {
		lineNum := fmt.Sprintf(" %3d |", i)
		if r.color {
			lineNum = lineNumStyle.Render(fmt.Sprintf(" %3d │", i))
		}

		marker := "   "
		if i >= start && i <= end {
			marker = r.render(markerStyle, ">>>")
		}

		content := sm.Line(i)
		if r.formatter != nil {
			content = r.highlightLine(lang, content)
		}

		fmt.Fprintf(w, "%s %s %s\n", lineNum, marker, content)
	}

	fmt.Fprintln(w, r.render(separatorStyle, sep))
}

// highlightLine applies syntax highlighting to a single line.
func (r *TextReporter) highlightLine(lang rules.Language, line string) string {
	iterator, err := r.lexer(lang).Tokenise(nil, line)
	if err != nil {
		return line
	}

	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return line
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// PrintTextPlain writes results without any styling (for non-TTY output).
func PrintTextPlain(w io.Writer, results []Result) error {
	noColor := false
	return NewTextReporter(TextOptions{Color: &noColor, ShowSource: true}).Print(w, results)
}
