package session

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/reval/internal/config"
	"github.com/wharflab/reval/internal/fix"
	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/validator"
)

const duplicateCSS = "a {\n  color: red;\n  color: red;\n}\n"

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func newSession(t *testing.T, cacheSize int) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.Session.CacheSize = cacheSize
	s, err := New(Options{Config: cfg, Now: fixedNow})
	require.NoError(t, err)
	return s
}

func TestSession_Validate_PublishesLastReport(t *testing.T) {
	t.Parallel()
	s := newSession(t, 8)
	assert.Nil(t, s.LastReport())

	report, err := s.Validate(duplicateCSS, "css")
	require.NoError(t, err)
	assert.Same(t, report, s.LastReport())
	assert.Equal(t, rules.LanguageCSS, report.Language)

	other, err := s.Validate("<p>x</p>", "html")
	require.NoError(t, err)
	assert.Same(t, other, s.LastReport())
}

func TestSession_Validate_Cache(t *testing.T) {
	t.Parallel()
	s := newSession(t, 8)

	first, err := s.Validate(duplicateCSS, "css")
	require.NoError(t, err)
	_, err = s.Validate("<p>x</p>", "html")
	require.NoError(t, err)

	again, err := s.Validate(duplicateCSS, "CSS")
	require.NoError(t, err)
	assert.NotSame(t, first, again)
	assert.Equal(t, first, again)
	assert.Same(t, again, s.LastReport(), "cache hit is published again")

	// Same text under another language is a different entry.
	asJS, err := s.Validate(duplicateCSS, "javascript")
	require.NoError(t, err)
	assert.NotSame(t, first, asJS)
}

func TestSession_Validate_CacheHitTimestamp(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	tick := fixedNow()
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Minute)
		return tick
	}
	cfg := config.Default()
	cfg.Session.CacheSize = 8
	s, err := New(Options{Config: cfg, Now: clock})
	require.NoError(t, err)

	first, err := s.Validate(duplicateCSS, "css")
	require.NoError(t, err)
	again, err := s.Validate(duplicateCSS, "css")
	require.NoError(t, err)

	assert.True(t, again.Timestamp.After(first.Timestamp), "cache hit gets the current time")
	assert.Equal(t, time.UTC, again.Timestamp.Location())
	assert.Equal(t, first.Issues, again.Issues)
	assert.Equal(t, first.Summary, again.Summary)
	assert.Equal(t, fixedNow().Add(time.Minute), first.Timestamp, "cached entry keeps its own time")
}

func TestSession_Validate_NoCache(t *testing.T) {
	t.Parallel()
	s := newSession(t, 0)

	first, err := s.Validate(duplicateCSS, "css")
	require.NoError(t, err)
	second, err := s.Validate(duplicateCSS, "css")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
}

func TestSession_Validate_Unsupported(t *testing.T) {
	t.Parallel()
	s := newSession(t, 8)

	_, err := s.Validate("x", "python")
	require.ErrorIs(t, err, validator.ErrUnsupportedLanguage)
	assert.Nil(t, s.LastReport())
}

func TestSession_ApplyFix(t *testing.T) {
	t.Parallel()
	s := newSession(t, 8)

	report, err := s.Validate(duplicateCSS, "css")
	require.NoError(t, err)
	var dup *rules.Issue
	for i := range report.Issues {
		if report.Issues[i].RuleID == "css-duplicate-property" {
			dup = &report.Issues[i]
		}
	}
	require.NotNil(t, dup)

	out, fixed, err := s.ApplyFix(duplicateCSS, "css", *dup)
	require.NoError(t, err)
	assert.Equal(t, "a {\n  color: red;\n\n}\n", out)
	assert.Same(t, fixed, s.LastReport())
	for _, issue := range fixed.Issues {
		assert.NotEqual(t, "css-duplicate-property", issue.RuleID)
	}
}

func TestSession_ApplyFix_NoFix(t *testing.T) {
	t.Parallel()
	s := newSession(t, 8)

	issue := rules.NewIssue(rules.SeverityWarning, 1, "css-large-rule", "too many declarations")
	_, _, err := s.ApplyFix("a { color: red; }", "css", issue)
	require.ErrorIs(t, err, fix.ErrNoQuickFix)
	assert.Nil(t, s.LastReport())
}

func TestSession_FixedMarks(t *testing.T) {
	t.Parallel()
	s := newSession(t, 8)

	a := rules.NewIssue(rules.SeverityWarning, 3, "css-duplicate-property", "Duplicate property 'color'").WithColumn(3)
	b := rules.NewIssue(rules.SeverityError, 1, "", "Unclosed comment")

	assert.Equal(t, "warning:3:3:css-duplicate-property", FixedKey(a))
	assert.Equal(t, "error:1:0:Unclosed comment", FixedKey(b))

	s.MarkFixed(a)
	s.MarkFixed(b)
	s.MarkFixed(a)
	assert.True(t, s.IsFixed(a))
	assert.Equal(t, []string{"error:1:0:Unclosed comment", "warning:3:3:css-duplicate-property"}, s.Fixed())

	s.UnmarkFixed(b)
	assert.False(t, s.IsFixed(b))
	assert.Equal(t, []string{"warning:3:3:css-duplicate-property"}, s.Fixed())
}

func TestSession_Export(t *testing.T) {
	t.Parallel()
	s := newSession(t, 8)

	var empty bytes.Buffer
	require.NoError(t, s.Export(&empty))
	assert.JSONEq(t, `{"report": null, "fixed": []}`, empty.String())

	report, err := s.Validate(duplicateCSS, "css")
	require.NoError(t, err)
	s.MarkFixed(report.Issues[0])

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf))

	var got struct {
		Report struct {
			Language  string `json:"language"`
			Timestamp string `json:"timestamp"`
			Issues    []struct {
				Type   string `json:"type"`
				RuleID string `json:"ruleId"`
			} `json:"issues"`
		} `json:"report"`
		Fixed []string `json:"fixed"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "css", got.Report.Language)
	assert.Equal(t, "2024-05-01T12:00:00Z", got.Report.Timestamp)
	require.NotEmpty(t, got.Report.Issues)
	assert.Equal(t, []string{FixedKey(report.Issues[0])}, got.Fixed)
}

func TestSession_Concurrent(t *testing.T) {
	t.Parallel()
	s := newSession(t, 2)

	sources := []string{duplicateCSS, "a { }", "b { top: 0; }"}
	var wg sync.WaitGroup
	for i := range 24 {
		wg.Go(func() {
			src := sources[i%len(sources)]
			report, err := s.Validate(src, "css")
			assert.NoError(t, err)
			assert.NotNil(t, report)
			issue := rules.NewIssue(rules.SeverityInfo, i, "x", "y")
			s.MarkFixed(issue)
			_ = s.IsFixed(issue)
		})
	}
	wg.Wait()
	assert.Len(t, s.Fixed(), 24)
	assert.NotNil(t, s.LastReport())
}
