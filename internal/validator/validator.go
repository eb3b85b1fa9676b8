// Package validator provides the validation pipeline shared by the CLI and
// library callers.
//
// The pipeline: language dispatch → analyzer → processor chain → report.
// An Engine is built once from a configuration and is safe for concurrent
// use; every call to Validate computes its own report.
package validator

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wharflab/reval/internal/analyzer/css"
	"github.com/wharflab/reval/internal/analyzer/html"
	"github.com/wharflab/reval/internal/analyzer/script"
	"github.com/wharflab/reval/internal/config"
	"github.com/wharflab/reval/internal/cssparse"
	"github.com/wharflab/reval/internal/processor"
	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/rules/configutil"
)

// ErrUnsupportedLanguage is matched by errors.Is for any language tag the
// engine cannot dispatch.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// UnsupportedLanguageError carries the rejected language tag.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q (want html, css, javascript or typescript)", e.Language)
}

// Is makes errors.Is(err, ErrUnsupportedLanguage) hold.
func (e *UnsupportedLanguageError) Is(target error) bool {
	return target == ErrUnsupportedLanguage
}

// Publisher receives every report the engine produces.
type Publisher interface {
	Publish(report *rules.Report)
}

// Options configures an Engine.
type Options struct {
	// Config is the resolved configuration. Nil means config.Default().
	Config *config.Config

	// Logger receives debug output. Nil means silent.
	Logger logrus.FieldLogger

	// Publisher, if set, receives each report as the new "last validation".
	Publisher Publisher

	// Now returns the report timestamp. Nil means time.Now.
	Now func() time.Time
}

// Engine dispatches sources to analyzers and post-processes their issues.
type Engine struct {
	cfg       *config.Config
	log       logrus.FieldLogger
	publisher Publisher
	now       func() time.Time
	analyzers map[rules.Language]rules.Analyzer
	chain     *processor.Chain
	options   map[string]any
}

// New builds an engine. It fails when a rule's configured options do not
// match the rule's schema.
func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = silentLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	if err := validateRuleOptions(&cfg.Rules); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		log:       logger,
		publisher: opts.Publisher,
		now:       now,
		analyzers: make(map[rules.Language]rules.Analyzer),
		chain:     processor.DefaultChain(),
		options:   cfg.Rules.AllOptions(),
	}
	for _, a := range buildAnalyzers(cfg.Backends, logger) {
		for _, lang := range a.Languages() {
			e.analyzers[lang] = a
		}
	}
	return e, nil
}

func silentLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// buildAnalyzers picks capability providers from the backend settings.
// Unavailable providers are logged and left out; the built-in checks
// always run.
func buildAnalyzers(b config.BackendsConfig, logger logrus.FieldLogger) []rules.Analyzer {
	parser := cssparse.New(b.CSSParser)
	if !parser.Available() {
		logger.WithField("backend", parser.Name()).Warn("css parser unavailable, using built-in scanner")
	}

	var linter html.Linter
	if b.HTMLLinter {
		linter = html.MarkupLinter{}
	}

	var compiler script.Compiler
	if b.TSSyntax {
		checker := script.NewSyntaxChecker()
		if checker.Available() {
			compiler = checker
		} else {
			logger.WithField("backend", checker.Name()).Warn("typescript syntax backend unavailable")
		}
	}

	return []rules.Analyzer{
		css.New(parser),
		html.New(linter),
		script.New(compiler),
	}
}

// validateRuleOptions checks every [rules.<id>] option table against the
// schema of its rule.
func validateRuleOptions(rc *config.RulesConfig) error {
	for _, code := range rc.Codes() {
		opts := rc.GetOptions(code)
		if len(opts) == 0 {
			continue
		}
		rule := rules.Get(code)
		if rule == nil {
			return fmt.Errorf("options given for unknown rule %q", code)
		}
		if err := configutil.ValidateRuleOptions(rule, opts); err != nil {
			return err
		}
	}
	return nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Analyzer returns the analyzer for lang, or nil.
func (e *Engine) Analyzer(lang rules.Language) rules.Analyzer {
	return e.analyzers[lang]
}

// Validate analyzes source as the given language and returns a fresh report.
// The only error is *UnsupportedLanguageError.
func (e *Engine) Validate(source, language string) (*rules.Report, error) {
	return e.ValidateInput(rules.Input{Source: source}, language)
}

// ValidateInput is Validate for callers that also know the file path.
// input.Language and input.Options are set by the engine.
func (e *Engine) ValidateInput(input rules.Input, language string) (*rules.Report, error) {
	lang, ok := rules.ParseLanguage(language)
	if !ok {
		return nil, &UnsupportedLanguageError{Language: language}
	}
	a, ok := e.analyzers[lang]
	if !ok {
		return nil, &UnsupportedLanguageError{Language: language}
	}

	input.Language = lang
	input.Options = e.options

	log := e.log.WithFields(logrus.Fields{"language": lang, "bytes": len(input.Source)})
	if input.File != "" {
		log = log.WithField("file", input.File)
	}
	log.Debug("dispatching source")

	issues := a.Analyze(input)
	log.WithField("findings", len(issues)).Debug("analyzer finished")

	ctx := processor.NewContext(e.cfg, lang, input.Source, log)
	issues = e.chain.Process(issues, ctx)

	report := rules.NewReport(lang, issues, e.now())
	if e.publisher != nil {
		e.publisher.Publish(report)
	}
	return report, nil
}
