// Package session holds the state of an interactive validation session:
// the last report, a report cache keyed by source digest, and the set of
// issues the user marked as fixed.
//
// A Session is safe for concurrent use.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/wharflab/reval/internal/config"
	"github.com/wharflab/reval/internal/fix"
	"github.com/wharflab/reval/internal/rules"
	"github.com/wharflab/reval/internal/validator"
)

// Options configures a Session.
type Options struct {
	// Config is the resolved configuration. Nil means config.Default().
	Config *config.Config

	// Logger receives debug output. Nil means silent.
	Logger logrus.FieldLogger

	// Now returns report timestamps. Nil means time.Now.
	Now func() time.Time
}

// Session wraps an engine with the per-user state around it.
type Session struct {
	engine *validator.Engine
	log    logrus.FieldLogger
	now    func() time.Time

	last  atomic.Pointer[rules.Report]
	cache *lru.Cache[string, *rules.Report] // nil when caching is off

	mu    sync.RWMutex
	fixed map[string]struct{}
}

// New creates a session and its engine.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Session{
		log:   logger,
		now:   now,
		fixed: make(map[string]struct{}),
	}
	if size := cfg.Session.CacheSize; size > 0 {
		cache, err := lru.New[string, *rules.Report](size)
		if err != nil {
			return nil, fmt.Errorf("creating report cache: %w", err)
		}
		s.cache = cache
	}

	engine, err := validator.New(validator.Options{
		Config:    cfg,
		Logger:    logger,
		Publisher: s,
		Now:       opts.Now,
	})
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// Engine returns the underlying validation engine.
func (s *Session) Engine() *validator.Engine {
	return s.engine
}

// Publish implements validator.Publisher by replacing the last report.
func (s *Session) Publish(report *rules.Report) {
	s.last.Store(report)
}

// LastReport returns the most recent report, or nil before any validation.
func (s *Session) LastReport() *rules.Report {
	return s.last.Load()
}

// Validate validates source, serving repeated inputs from the cache.
// A cache hit returns a copy of the cached report stamped with the current
// time, so every call yields a new report; the copy shares the immutable
// issue list.
func (s *Session) Validate(source, language string) (*rules.Report, error) {
	lang, ok := rules.ParseLanguage(language)
	if !ok {
		return nil, &validator.UnsupportedLanguageError{Language: language}
	}

	key := cacheKey(lang, source)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.log.WithFields(logrus.Fields{"language": lang, "key": key[:12]}).Debug("report cache hit")
			report := *cached
			report.Timestamp = s.now().UTC()
			s.Publish(&report)
			return &report, nil
		}
	}

	report, err := s.engine.Validate(source, string(lang))
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(key, report)
	}
	return report, nil
}

func cacheKey(lang rules.Language, source string) string {
	sum := sha256.Sum256([]byte(source))
	return string(lang) + ":" + hex.EncodeToString(sum[:])
}

// ApplyFix applies the issue's quick fix, or a heuristic one, and
// validates the result. It returns the new source and its report.
func (s *Session) ApplyFix(source, language string, issue rules.Issue) (string, *rules.Report, error) {
	out, qf, err := fix.ApplyIssue(source, issue)
	if err != nil {
		return "", nil, fmt.Errorf("fixing %s at line %d: %w", issue.Label(), issue.Line, err)
	}
	s.log.WithFields(logrus.Fields{
		"rule":       issue.RuleID,
		"line":       issue.Line,
		"fix":        qf.Title,
		"confidence": qf.Confidence,
	}).Debug("applied quick fix")

	report, err := s.Validate(out, language)
	if err != nil {
		return "", nil, err
	}
	return out, report, nil
}

// FixedKey identifies an issue in the fixed set.
func FixedKey(issue rules.Issue) string {
	return fmt.Sprintf("%s:%d:%d:%s", issue.Type, issue.Line, issue.Column, issue.Label())
}

// MarkFixed records the issue as fixed.
func (s *Session) MarkFixed(issue rules.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixed[FixedKey(issue)] = struct{}{}
}

// UnmarkFixed removes the issue from the fixed set.
func (s *Session) UnmarkFixed(issue rules.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fixed, FixedKey(issue))
}

// IsFixed reports whether the issue is marked fixed.
func (s *Session) IsFixed(issue rules.Issue) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.fixed[FixedKey(issue)]
	return ok
}

// Fixed returns the sorted keys of all issues marked fixed.
func (s *Session) Fixed() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.fixed))
	for k := range s.fixed {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Snapshot is the JSON document written by Session.Export.
type Snapshot struct {
	Report *rules.Report `json:"report"`
	Fixed  []string      `json:"fixed"`
}

// Export writes the last report and the fixed keys as JSON.
func (s *Session) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Snapshot{Report: s.LastReport(), Fixed: s.Fixed()})
}
