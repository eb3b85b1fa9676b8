// Package analyzer holds what the language analyzers share: the guard
// that isolates a failing check, and the internal-error rule it reports.
package analyzer

import (
	"fmt"

	"github.com/wharflab/reval/internal/rules"
)

// InternalErrorCode is reported when a single check fails unexpectedly.
const InternalErrorCode = "internal-error"

// InternalErrorRule describes InternalErrorCode.
var InternalErrorRule = rules.RuleMetadata{
	Code:            InternalErrorCode,
	Name:            "Internal check failure",
	Description:     "A check failed on this input; the remaining checks still ran",
	Languages:       rules.Languages(),
	DefaultSeverity: rules.SeverityError,
	Category:        "internal",
}

func init() {
	rules.Register(InternalErrorRule)
}

// Guard runs fn and converts a panic into a single internal-error issue at
// line, so one failing check never aborts the rest of the analysis.
func Guard(check string, line int, fn func() []rules.Issue) (issues []rules.Issue) {
	defer func() {
		if r := recover(); r != nil {
			if line < 1 {
				line = 1
			}
			issues = []rules.Issue{
				rules.NewIssue(rules.SeverityError, line, InternalErrorCode,
					fmt.Sprintf("Check %s failed: %v", check, r)),
			}
		}
	}()
	return fn()
}
