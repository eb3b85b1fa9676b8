package cmd

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/reval/internal/version"
)

// Exit codes.
const (
	ExitSuccess             = 0
	ExitViolations          = 1
	ExitConfigError         = 2
	ExitNoFiles             = 3
	ExitUnsupportedLanguage = 4
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "reval",
		Usage:   "Validate and compare HTML, CSS, JavaScript and TypeScript",
		Version: version.Version(),
		Description: `reval checks web sources for common defects and compares
two sources for duplicated or conflicting selectors and symbols.

Examples:
  reval validate index.html
  reval validate --fail-level error src/
  cat app.ts | reval validate --lang ts -
  reval compare base.css theme.css
  reval diff old.js new.js`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging on stderr",
				Sources: cli.EnvVars("REVAL_VERBOSE"),
			},
		},
		Commands: []*cli.Command{
			validateCommand(),
			compareCommand(),
			diffCommand(),
			rulesCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}

// newLogger returns the stderr logger shared by all commands.
func newLogger(cmd *cli.Command) *logrus.Logger {
	root := cmd.Root()
	var out io.Writer = os.Stderr
	if root.ErrWriter != nil {
		out = root.ErrWriter
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if root.Bool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// stdout returns the writer for primary output.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// stderr returns the writer for diagnostics.
func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
