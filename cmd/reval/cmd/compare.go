package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/reval/internal/config"
	"github.com/wharflab/reval/internal/cssparse"
	"github.com/wharflab/reval/internal/diff"
	"github.com/wharflab/reval/internal/discovery"
	"github.com/wharflab/reval/internal/fileval"
	"github.com/wharflab/reval/internal/reporter"
	"github.com/wharflab/reval/internal/validator"
)

func pairFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file (default: auto-discover)",
		},
		&cli.BoolFlag{
			Name:    "no-color",
			Usage:   "Disable colored output",
			Sources: cli.EnvVars("NO_COLOR"),
		},
	}
}

func compareCommand() *cli.Command {
	flags := append(pairFlags(), &cli.StringFlag{
		Name:    "lang",
		Aliases: []string{"l"},
		Usage:   "Language of both inputs (default: from LEFT's extension)",
	})
	return &cli.Command{
		Name:      "compare",
		Usage:     "Report selectors or symbols defined in both sources",
		ArgsUsage: "LEFT RIGHT",
		Flags:     flags,
		Action:    runCompare,
	}
}

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Print a character-level diff of two sources",
		ArgsUsage: "LEFT RIGHT",
		Flags:     pairFlags(),
		Action:    runDiff,
	}
}

// sourcePair is the loaded LEFT and RIGHT arguments of compare and diff.
type sourcePair struct {
	left, right       string
	leftSrc, rightSrc string
	cfg               *config.Config
	opts              reporter.CompareOptions
}

func loadPair(cmd *cli.Command) (*sourcePair, error) {
	if cmd.NArg() != 2 {
		return nil, fmt.Errorf("expected LEFT and RIGHT, got %d argument(s)", cmd.NArg())
	}
	p := &sourcePair{left: cmd.Args().Get(0), right: cmd.Args().Get(1)}

	var err error
	if configPath := cmd.String("config"); configPath != "" {
		p.cfg, err = config.LoadFromFile(configPath)
	} else {
		p.cfg, err = config.Load(p.left)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	maxSize := p.cfg.FileValidation.MaxFileSize
	if p.leftSrc, err = fileval.ReadFile(p.left, maxSize); err != nil {
		return nil, err
	}
	if p.rightSrc, err = fileval.ReadFile(p.right, maxSize); err != nil {
		return nil, err
	}

	format, err := reporter.ParseFormat(cmd.String("format"))
	if err != nil {
		return nil, err
	}
	if format != reporter.FormatText && format != reporter.FormatJSON {
		return nil, fmt.Errorf("unsupported format %q (valid: text, json)", format)
	}

	out := stdout(cmd)
	color := reporter.AutoColor(out)
	if cmd.Bool("no-color") {
		color = false
	}
	p.opts = reporter.CompareOptions{Format: format, Color: &color, Left: p.left, Right: p.right}
	return p, nil
}

func (p *sourcePair) differ(cmd *cli.Command) *diff.Differ {
	return diff.New(diff.Options{
		CSSParser: cssparse.New(p.cfg.Backends.CSSParser),
		TextDiff:  p.cfg.Backends.TextDiff,
		Logger:    newLogger(cmd),
	})
}

func runCompare(_ context.Context, cmd *cli.Command) error {
	errOut := stderr(cmd)
	p, err := loadPair(cmd)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	lang := cmd.String("lang")
	if lang == "" {
		if detected, ok := discovery.DetectLanguage(p.left); ok {
			lang = string(detected)
		}
	}

	cmp, err := p.differ(cmd).Compare(p.leftSrc, p.rightSrc, lang)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		if errors.Is(err, validator.ErrUnsupportedLanguage) {
			return cli.Exit("", ExitUnsupportedLanguage)
		}
		return cli.Exit("", ExitConfigError)
	}

	if err := reporter.WriteComparison(stdout(cmd), cmp, p.opts); err != nil {
		fmt.Fprintf(errOut, "Error: failed to write output: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	return nil
}

func runDiff(_ context.Context, cmd *cli.Command) error {
	errOut := stderr(cmd)
	p, err := loadPair(cmd)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	segments := p.differ(cmd).DiffText(p.leftSrc, p.rightSrc)
	if err := reporter.WriteSegments(stdout(cmd), segments, p.opts); err != nil {
		fmt.Fprintf(errOut, "Error: failed to write output: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	return nil
}
