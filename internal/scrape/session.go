// Package scrape ties the analyzer, extraction engine, and validator
// together around one page. A Session carries all per-page state
// explicitly, so processing many pages concurrently is a matter of one
// session per page and nothing else.
package scrape

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/pagesift/internal/analyze"
	"github.com/jonesrussell/pagesift/internal/dom"
	"github.com/jonesrussell/pagesift/internal/extract"
	"github.com/jonesrussell/pagesift/internal/logger"
	"github.com/jonesrussell/pagesift/internal/validate"
)

// Session is one page's scraping context: the parsed document, its
// memoized structural report, and the knobs for analysis and validation.
// The document and report are immutable once built; selector specs may be
// revised and re-run against the same session freely.
type Session struct {
	id         uuid.UUID
	site       string
	baseURL    string
	doc        *dom.Document
	log        logger.Interface
	detector   analyze.Options
	thresholds validate.Thresholds
	now        func() time.Time

	report *analyze.Report
	engine *extract.Engine
}

// Option configures a session at creation time.
type Option func(*Session)

// WithLogger sets the session logger, shared with the engine.
func WithLogger(log logger.Interface) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithBaseURL sets the base URL for resolving relative references in
// samples and extracted values.
func WithBaseURL(baseURL string) Option {
	return func(s *Session) { s.baseURL = baseURL }
}

// WithDetector overrides the structural detector caps.
func WithDetector(opts analyze.Options) Option {
	return func(s *Session) { s.detector = opts }
}

// WithThresholds overrides the validation status cut-offs.
func WithThresholds(t validate.Thresholds) Option {
	return func(s *Session) { s.thresholds = t }
}

// WithClock overrides the session clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession parses the page and prepares a scraping context for it.
func NewSession(html, site string, opts ...Option) (*Session, error) {
	doc, err := dom.ParseString(html)
	if err != nil {
		return nil, fmt.Errorf("failed to create session for %s: %w", site, err)
	}

	s := &Session{
		id:         uuid.New(),
		site:       site,
		doc:        doc,
		log:        logger.NewNoOp(),
		detector:   analyze.DefaultOptions(),
		thresholds: validate.DefaultThresholds(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.baseURL != "" {
		if err := doc.SetBaseURL(s.baseURL); err != nil {
			return nil, err
		}
	}

	s.log = s.log.With("session_id", s.id.String(), "site", s.site)
	s.engine = extract.NewEngine(
		extract.WithLogger(s.log),
		extract.WithClock(s.now),
	)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Site returns the session's site label.
func (s *Session) Site() string {
	return s.site
}

// Document returns the parsed page.
func (s *Session) Document() *dom.Document {
	return s.doc
}

// Analyze builds the page's structural report. The report is computed
// once and reused on later calls.
func (s *Session) Analyze() (*analyze.Report, error) {
	if s.report != nil {
		return s.report, nil
	}
	report, err := analyze.New(s.detector, s.log).Analyze(s.doc)
	if err != nil {
		return nil, err
	}
	s.report = report
	return report, nil
}

// Extract runs a selector spec against the page. Each call is an
// independent run; nothing carries over between spec revisions.
func (s *Session) Extract(spec extract.Spec) ([]extract.Record, error) {
	return s.engine.Extract(s.doc, spec, s.site)
}

// Validate scores an extraction run with the session's thresholds.
func (s *Session) Validate(records []extract.Record) (*validate.Report, error) {
	return validate.Run(records,
		validate.WithThresholds(s.thresholds),
		validate.WithClock(s.now),
	)
}
