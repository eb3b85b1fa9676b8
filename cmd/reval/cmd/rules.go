package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/reval/internal/rules"
)

func rulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "List the registered rules",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "lang",
				Aliases: []string{"l"},
				Usage:   "Only list rules for this language",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only list rules in this category (e.g. correctness, style)",
			},
			&cli.StringFlag{
				Name:  "severity",
				Usage: "Only list rules with this default severity: error, warning, info",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output rule metadata as JSON",
			},
		},
		Action: runRules,
	}
}

func runRules(_ context.Context, cmd *cli.Command) error {
	errOut := stderr(cmd)
	var q ruleQuery
	if name := cmd.String("lang"); name != "" {
		lang, ok := rules.ParseLanguage(name)
		if !ok {
			fmt.Fprintf(errOut, "Error: unsupported language: %q\n", name)
			return cli.Exit("", ExitUnsupportedLanguage)
		}
		q.lang = lang
	}
	q.category = cmd.String("category")
	if name := cmd.String("severity"); name != "" {
		sev, err := rules.ParseSeverity(name)
		if err != nil || sev == rules.SeverityOff {
			fmt.Fprintf(errOut, "Error: invalid --severity %q\n", name)
			return cli.Exit("", ExitConfigError)
		}
		q.severity = &sev
	}

	selected := q.apply(rules.DefaultRegistry())
	metas := make([]rules.RuleMetadata, 0, len(selected))
	for _, r := range selected {
		metas = append(metas, r.Metadata())
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(stdout(cmd))
		enc.SetIndent("", "  ")
		return enc.Encode(metas)
	}
	return printRules(stdout(cmd), metas)
}

// ruleQuery narrows the registry listing. Zero fields match everything.
type ruleQuery struct {
	lang     rules.Language
	category string
	severity *rules.Severity
}

// apply returns the rules matching every set field, sorted by code.
func (q ruleQuery) apply(reg *rules.Registry) []rules.Rule {
	out := reg.All()
	if q.lang != "" {
		out = intersect(out, reg.ByLanguage(q.lang))
	}
	if q.category != "" {
		out = intersect(out, reg.ByCategory(q.category))
	}
	if q.severity != nil {
		out = intersect(out, reg.BySeverity(*q.severity))
	}
	return out
}

// intersect keeps the rules of a whose code also appears in b.
func intersect(a, b []rules.Rule) []rules.Rule {
	codes := make(map[string]struct{}, len(b))
	for _, r := range b {
		codes[r.Metadata().Code] = struct{}{}
	}
	return slices.DeleteFunc(a, func(r rules.Rule) bool {
		_, ok := codes[r.Metadata().Code]
		return !ok
	})
}

func printRules(w io.Writer, metas []rules.RuleMetadata) error {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("RULE", "SEVERITY", "LANGUAGES", "DESCRIPTION")

	for _, m := range metas {
		langs := make([]string, 0, len(m.Languages))
		for _, l := range m.Languages {
			langs = append(langs, string(l))
		}
		t.Row(m.Code, m.DefaultSeverity.String(), strings.Join(langs, ","), m.Name)
	}

	_, err := lipgloss.Fprintln(w, t.Render())
	return err
}
