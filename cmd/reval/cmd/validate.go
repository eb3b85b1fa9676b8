package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/reval/internal/config"
	"github.com/wharflab/reval/internal/discovery"
	"github.com/wharflab/reval/internal/fileval"
	"github.com/wharflab/reval/internal/fix"
	"github.com/wharflab/reval/internal/reporter"
	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/session"
	"github.com/wharflab/reval/internal/validator"
	"github.com/wharflab/reval/internal/version"
)

const stdinPath = "-"

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate HTML, CSS, JavaScript or TypeScript sources",
		ArgsUsage: "[PATH...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "lang",
				Aliases: []string{"l"},
				Usage:   "Language of the inputs: css, html, javascript, typescript (default: from extension)",
				Sources: cli.EnvVars("REVAL_LANG"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, sarif, github-actions, markdown",
				Sources: cli.EnvVars("REVAL_FORMAT", "REVAL_OUTPUT_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path: stdout, stderr, or file path",
				Sources: cli.EnvVars("REVAL_OUTPUT_PATH"),
			},
			&cli.StringFlag{
				Name:    "fail-level",
				Usage:   "Minimum severity to cause non-zero exit: error, warning, info, none",
				Sources: cli.EnvVars("REVAL_OUTPUT_FAIL_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "fix",
				Usage: "Apply safe quick fixes and write the files back",
			},
			&cli.StringSliceFlag{
				Name:  "select",
				Usage: "Enable rules by id or pattern (can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "Disable rules by id or pattern (can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Usage:   "Glob pattern to exclude files (can be repeated)",
				Sources: cli.EnvVars("REVAL_EXCLUDE"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.BoolFlag{
				Name:    "show-source",
				Usage:   "Show source code snippets (default: true)",
				Value:   true,
				Sources: cli.EnvVars("REVAL_OUTPUT_SHOW_SOURCE"),
			},
		},
		Action: runValidate,
	}
}

// validateInput is one source queued for validation.
type validateInput struct {
	path     string
	language string
	source   string
	cfg      *config.Config
}

type validateResults struct {
	results  []reporter.Result
	firstCfg *config.Config
}

func runValidate(_ context.Context, cmd *cli.Command) error {
	log := newLogger(cmd)
	errOut := stderr(cmd)

	inputs, code := collectInputs(cmd)
	if code != ExitSuccess {
		return cli.Exit("", code)
	}

	res, err := validateInputs(cmd, inputs, log)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		if errors.Is(err, validator.ErrUnsupportedLanguage) {
			return cli.Exit("", ExitUnsupportedLanguage)
		}
		return cli.Exit("", ExitConfigError)
	}

	return writeReport(cmd, res.firstCfg, res.results)
}

// collectInputs resolves arguments to readable sources. "-" reads stdin and
// requires --lang.
func collectInputs(cmd *cli.Command) ([]validateInput, int) {
	errOut := stderr(cmd)
	lang := cmd.String("lang")

	args := cmd.Args().Slice()
	if len(args) == 0 {
		args = []string{"."}
	}

	var inputs []validateInput
	var paths []string
	for _, arg := range args {
		if arg != stdinPath {
			paths = append(paths, arg)
			continue
		}
		if lang == "" {
			fmt.Fprintf(errOut, "Error: reading from stdin requires --lang\n")
			return nil, ExitConfigError
		}
		cfg, err := loadConfigForFile(cmd, ".")
		if err != nil {
			fmt.Fprintf(errOut, "Error: failed to load config: %v\n", err)
			return nil, ExitConfigError
		}
		src, err := readStdin(cmd, cfg.FileValidation.MaxFileSize)
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return nil, ExitConfigError
		}
		inputs = append(inputs, validateInput{path: stdinPath, language: lang, source: src, cfg: cfg})
	}

	if len(paths) == 0 {
		return inputs, ExitSuccess
	}

	opts := discovery.Options{
		Patterns:        discovery.DefaultPatterns(),
		ExcludePatterns: cmd.StringSlice("exclude"),
	}
	if len(opts.ExcludePatterns) == 0 {
		opts.ExcludePatterns = nil
	}
	discovered, err := discovery.Discover(paths, opts)
	if err != nil {
		fmt.Fprintf(errOut, "Error: failed to discover files: %v\n", err)
		return nil, ExitConfigError
	}
	if len(discovered) == 0 && len(inputs) == 0 {
		reportNoFilesFound(errOut, paths)
		return nil, ExitNoFiles
	}

	for _, df := range discovered {
		cfg, err := loadConfigForFile(cmd, df.Path)
		if err != nil {
			fmt.Fprintf(errOut, "Error: failed to load config for %s: %v\n", df.Path, err)
			return nil, ExitConfigError
		}
		src, err := fileval.ReadFile(df.Path, cfg.FileValidation.MaxFileSize)
		if err != nil {
			fmt.Fprintf(errOut, "Error: failed to read %s: %v\n", df.Path, err)
			return nil, ExitConfigError
		}
		language := lang
		if language == "" {
			language = string(df.Language)
		}
		inputs = append(inputs, validateInput{path: df.Path, language: language, source: src, cfg: cfg})
	}
	return inputs, ExitSuccess
}

func readStdin(cmd *cli.Command, maxSize int64) (string, error) {
	var r io.Reader = os.Stdin
	if in := cmd.Root().Reader; in != nil {
		r = in
	}
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return "", &fileval.FileTooLargeError{Path: stdinPath, Size: int64(len(data)), MaxSize: maxSize}
	}
	return fileval.Decode(stdinPath, data)
}

// validateInputs runs every input through a session built for its config.
// Inputs sharing a config file share a session.
func validateInputs(cmd *cli.Command, inputs []validateInput, log *logrus.Logger) (*validateResults, error) {
	res := &validateResults{}
	sessions := make(map[string]*session.Session)
	fixer := &fix.Fixer{Heuristics: true}
	var fixed, filesFixed int

	for _, in := range inputs {
		if res.firstCfg == nil {
			res.firstCfg = in.cfg
		}

		sess, ok := sessions[in.cfg.ConfigFile]
		if !ok {
			var err error
			sess, err = session.New(session.Options{Config: in.cfg, Logger: log})
			if err != nil {
				return nil, fmt.Errorf("failed to configure %s: %w", in.path, err)
			}
			sessions[in.cfg.ConfigFile] = sess
		}

		report, err := sess.Validate(in.source, in.language)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.path, err)
		}

		source := in.source
		if cmd.Bool("fix") && in.path != stdinPath {
			fr := fixer.Apply(source, report.Issues)
			if fr.HasChanges() {
				if err := writeBack(in.path, fr.Content); err != nil {
					return nil, err
				}
				fixed += len(fr.Applied)
				filesFixed++
				for _, applied := range fr.Applied {
					sess.MarkFixed(applied.Issue)
				}
				source = fr.Content
				if report, err = sess.Validate(source, in.language); err != nil {
					return nil, fmt.Errorf("%s: %w", in.path, err)
				}
			}
			for _, skipped := range fr.Skipped {
				log.WithFields(logrus.Fields{
					"file":   in.path,
					"rule":   skipped.Issue.Label(),
					"line":   skipped.Issue.Line,
					"reason": skipped.Reason.String(),
				}).Debug("skipped quick fix")
			}
		}

		res.results = append(res.results, reporter.Result{File: in.path, Source: source, Report: report})
	}

	if cmd.Bool("fix") {
		if fixed > 0 {
			fmt.Fprintf(stderr(cmd), "Fixed %d issues in %d files\n", fixed, filesFixed)
		}
		for _, in := range inputs {
			if in.path == stdinPath {
				fmt.Fprintf(stderr(cmd), "Warning: --fix has no effect on stdin\n")
				break
			}
		}
	}
	return res, nil
}

// writeBack replaces path's content, keeping its permissions.
func writeBack(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// writeReport formats and writes the validation report.
func writeReport(cmd *cli.Command, cfg *config.Config, results []reporter.Result) error {
	errOut := stderr(cmd)
	outCfg := getOutputConfig(cmd, cfg)

	formatType, err := reporter.ParseFormat(outCfg.format)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	writer, closeWriter, err := outputWriter(cmd, outCfg.path)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	defer func() {
		if err := closeWriter(); err != nil {
			fmt.Fprintf(errOut, "Warning: failed to close output: %v\n", err)
		}
	}()

	opts := reporter.Options{
		Format:      formatType,
		Writer:      writer,
		ShowSource:  outCfg.showSource,
		ToolName:    "reval",
		ToolVersion: version.RawVersion(),
		ToolURI:     "https://github.com/wharflab/reval",
	}
	if cmd.IsSet("no-color") && cmd.Bool("no-color") {
		opts.Color = new(false)
	}

	rep, err := reporter.New(opts)
	if err != nil {
		fmt.Fprintf(errOut, "Error: failed to create reporter: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	metadata := reporter.ReportMetadata{
		FilesScanned: len(results),
		RulesEnabled: enabledRuleCount(cfg),
	}
	if err := rep.Report(results, metadata); err != nil {
		fmt.Fprintf(errOut, "Error: failed to write output: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	exitCode := determineExitCode(errOut, results, outCfg.failLevel)
	if exitCode != ExitSuccess {
		return cli.Exit("", exitCode)
	}
	return nil
}

// outputWriter resolves the output path. "stdout" goes to the app's writer.
func outputWriter(cmd *cli.Command, path string) (io.Writer, func() error, error) {
	switch path {
	case "", "stdout":
		return stdout(cmd), func() error { return nil }, nil
	case "stderr":
		return stderr(cmd), func() error { return nil }, nil
	default:
		return reporter.GetWriter(path)
	}
}

// loadConfigForFile loads configuration for a target file, applying CLI overrides.
func loadConfigForFile(cmd *cli.Command, targetPath string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configPath := cmd.String("config"); configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load(targetPath)
	}
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("select") {
		cfg.Rules.Include = append(cfg.Rules.Include, cmd.StringSlice("select")...)
	}
	if cmd.IsSet("ignore") {
		cfg.Rules.Exclude = append(cfg.Rules.Exclude, cmd.StringSlice("ignore")...)
	}
	return cfg, nil
}

type outputConfig struct {
	format     string
	path       string
	showSource bool
	failLevel  string
}

func getOutputConfig(cmd *cli.Command, cfg *config.Config) outputConfig {
	oc := outputConfig{
		format:     "text",
		path:       "stdout",
		showSource: true,
		failLevel:  "warning",
	}

	if cfg != nil {
		if cfg.Output.Format != "" {
			oc.format = cfg.Output.Format
		}
		if cfg.Output.Path != "" {
			oc.path = cfg.Output.Path
		}
		oc.showSource = cfg.Output.ShowSource
		if cfg.Output.FailLevel != "" {
			oc.failLevel = cfg.Output.FailLevel
		}
	}

	// CLI flags take precedence
	if cmd.IsSet("format") {
		oc.format = cmd.String("format")
	}
	if cmd.IsSet("output") {
		oc.path = cmd.String("output")
	}
	if cmd.IsSet("show-source") {
		oc.showSource = cmd.Bool("show-source")
	}
	if cmd.IsSet("fail-level") {
		oc.failLevel = cmd.String("fail-level")
	}
	return oc
}

// enabledRuleCount counts registered rules that the config does not turn off.
func enabledRuleCount(cfg *config.Config) int {
	n := 0
	for _, rule := range rules.All() {
		code := rule.Metadata().Code
		if cfg != nil {
			if enabled := cfg.Rules.IsEnabled(code); enabled != nil && !*enabled {
				continue
			}
			if cfg.Rules.GetSeverity(code) == "off" {
				continue
			}
		}
		n++
	}
	return n
}

// determineExitCode returns the exit code for results under failLevel.
func determineExitCode(errOut io.Writer, results []reporter.Result, failLevel string) int {
	// "none" means never fail due to issues
	if failLevel == "none" {
		return ExitSuccess
	}

	threshold, err := rules.ParseSeverity(failLevel)
	if err != nil || threshold == rules.SeverityOff {
		fmt.Fprintf(errOut, "Error: invalid --fail-level %q\n", failLevel)
		return ExitConfigError
	}

	for _, r := range results {
		if r.Report != nil && r.Report.HasIssuesAtLeast(threshold) {
			return ExitViolations
		}
	}
	return ExitSuccess
}

func reportNoFilesFound(errOut io.Writer, inputs []string) {
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err == nil && info.IsDir() {
			fmt.Fprintf(errOut, "Error: no HTML, CSS, JavaScript or TypeScript files found in %s\n", abs)
			return
		}
	}
	fmt.Fprintf(errOut, "Error: no files matched: %v\n", inputs)
}
