package extract

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/jonesrussell/pagesift/internal/dom"
	"github.com/jonesrussell/pagesift/internal/logger"
)

// minNameLength is the shortest product name the quality gate accepts.
const minNameLength = 2

// offersField collects every match instead of the first one.
const offersField = "offers"

// whitespacePattern collapses internal whitespace runs during
// normalization.
var whitespacePattern = regexp.MustCompile(`\s+`)

// containsPattern parses the :contains() pseudo-selector, which CSS
// engines do not support natively.
var containsPattern = regexp.MustCompile(`:contains\((['"]?)(.*?)(['"]?)\)`)

// attemptState tags the outcome of one selector attempt. The fallback
// loop iterates until a match or exhaustion; there is no error path out
// of a single attempt.
type attemptState int

const (
	// attemptNoMatch means the selector was valid but matched nothing
	// usable.
	attemptNoMatch attemptState = iota
	// attemptMatched means the selector produced at least one nonempty
	// value.
	attemptMatched
	// attemptUnsupported means the selector string itself could not be
	// evaluated.
	attemptUnsupported
)

// attempt is the tagged result of evaluating one selector against one
// container.
type attempt struct {
	state  attemptState
	values []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(log logger.Interface) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log.WithComponent("extractor")
		}
	}
}

// WithClock overrides the capture-timestamp source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine applies a selector spec to a parsed page. Engines hold no
// per-run state; one engine may serve many pages and spec revisions.
type Engine struct {
	log logger.Interface
	now func() time.Time
}

// NewEngine creates an extraction engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		log: logger.NewNoOp(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the spec against the document and returns the records
// that pass the quality gate, indexed 1-based in container-encounter
// order. A spec whose container selectors match nothing yields an empty
// list, not an error.
func (e *Engine) Extract(doc *dom.Document, spec Spec, site string) ([]Record, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	containers := e.findContainers(doc, spec[ContainerField])
	e.log.Info("container discovery complete", "site", site, "containers", len(containers))

	records := make([]Record, 0, len(containers))
	scrapedAt := e.now()
	dropped := 0

	for i, container := range containers {
		record := newRecord(i+1, site, scrapedAt)
		for _, field := range RecordFields {
			fs, ok := spec[field]
			if !ok {
				continue
			}
			values := e.extractField(container, field, fs)
			if len(values) == 0 {
				continue
			}
			if field == offersField {
				record.Offers = values
			} else {
				record.setField(field, values[0])
			}
		}
		if !keepRecord(record) {
			dropped++
			continue
		}
		records = append(records, record)
	}

	if dropped > 0 {
		e.log.Info("dropped records below quality gate", "site", site, "dropped", dropped, "kept", len(records))
	}
	return records, nil
}

// findContainers evaluates the container selector list against the whole
// document. The first selector with at least one match fixes the working
// set for the run.
func (e *Engine) findContainers(doc *dom.Document, fs FieldSelector) []*html.Node {
	for _, selector := range fs.Selectors {
		var nodes []*html.Node
		switch fs.Type {
		case TypeXPath:
			found, err := htmlquery.QueryAll(doc.Root(), selector)
			if err != nil {
				e.log.Warn("unsupported container selector", "selector", selector, "error", err)
				continue
			}
			nodes = found
		default:
			matcher, err := cascadia.Compile(selector)
			if err != nil {
				e.log.Warn("unsupported container selector", "selector", selector, "error", err)
				continue
			}
			nodes = doc.Selection().FindMatcher(matcher).Nodes
		}
		if len(nodes) > 0 {
			e.log.Debug("container selector matched", "selector", selector, "matches", len(nodes))
			return nodes
		}
	}
	return nil
}

// extractField walks one field's fallback chain within a container and
// returns the normalized values of the first matching selector. A nil
// result means no selector won.
func (e *Engine) extractField(container *html.Node, field string, fs FieldSelector) []string {
	for _, selector := range fs.Selectors {
		var att attempt
		switch fs.Type {
		case TypeXPath:
			att = tryXPath(container, selector, fs.Attribute)
		case TypeRegex:
			att = tryRegex(container, selector)
		default:
			att = tryCSS(container, selector, fs.Attribute)
		}

		switch att.state {
		case attemptUnsupported:
			e.log.Warn("skipping unsupported selector", "field", field, "selector", selector)
			continue
		case attemptNoMatch:
			continue
		}

		values := finishValues(att.values, fs)
		if len(values) == 0 {
			continue
		}
		return values
	}
	return nil
}

// finishValues applies the optional cleanup regex and whitespace
// normalization, dropping values that normalize to empty. The cleanup
// regex only applies when the winning strategy was not itself
// regex-typed.
func finishValues(raw []string, fs FieldSelector) []string {
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if fs.Regex != "" && fs.Type != TypeRegex {
			v = cleanWithRegex(v, fs.Regex)
		}
		v = normalize(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

// tryCSS evaluates a CSS selector within the container. The :contains()
// pseudo-selector is resolved by scanning descendant text nodes for the
// needle and returning its nearest ancestor element.
func tryCSS(container *html.Node, selector, attribute string) attempt {
	if m := containsPattern.FindStringSubmatch(selector); m != nil {
		needle := m[2]
		if needle == "" {
			return attempt{state: attemptUnsupported}
		}
		node := dom.FindByText(container, needle)
		if node == nil {
			return attempt{state: attemptNoMatch}
		}
		return singleValue(nodeValue(node, attribute))
	}

	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return attempt{state: attemptUnsupported}
	}

	var values []string
	goquery.NewDocumentFromNode(container).FindMatcher(matcher).Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			if v := nodeValue(n, attribute); v != "" {
				values = append(values, v)
			}
		}
	})
	if len(values) == 0 {
		return attempt{state: attemptNoMatch}
	}
	return attempt{state: attemptMatched, values: values}
}

// tryXPath evaluates an XPath expression relative to the container.
func tryXPath(container *html.Node, selector, attribute string) attempt {
	nodes, err := htmlquery.QueryAll(container, selector)
	if err != nil {
		return attempt{state: attemptUnsupported}
	}

	var values []string
	for _, n := range nodes {
		var v string
		if attribute != "" {
			v = strings.TrimSpace(htmlquery.SelectAttr(n, attribute))
		} else {
			v = strings.TrimSpace(htmlquery.InnerText(n))
		}
		if v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return attempt{state: attemptNoMatch}
	}
	return attempt{state: attemptMatched, values: values}
}

// tryRegex matches the selector string as a case-insensitive pattern
// against the container's full text. The first capture group wins when
// present, otherwise the whole match.
func tryRegex(container *html.Node, pattern string) attempt {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return attempt{state: attemptUnsupported}
	}
	m := re.FindStringSubmatch(dom.Text(container))
	if m == nil {
		return attempt{state: attemptNoMatch}
	}
	value := m[0]
	if len(m) > 1 && m[1] != "" {
		value = m[1]
	}
	return singleValue(value)
}

// nodeValue reads an element's attribute when one is configured,
// otherwise its aggregated text.
func nodeValue(n *html.Node, attribute string) string {
	if attribute != "" {
		v, _ := dom.Attr(n, attribute)
		return strings.TrimSpace(v)
	}
	return dom.Text(n)
}

// singleValue wraps one raw value as a matched attempt, or a no-match
// when it is empty.
func singleValue(v string) attempt {
	if strings.TrimSpace(v) == "" {
		return attempt{state: attemptNoMatch}
	}
	return attempt{state: attemptMatched, values: []string{v}}
}

// cleanWithRegex isolates the interesting part of a raw value. A pattern
// that fails to compile or match leaves the value untouched.
func cleanWithRegex(value, pattern string) string {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return value
	}
	m := re.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	if len(m) > 1 && m[1] != "" {
		return m[1]
	}
	return m[0]
}

// normalize collapses internal whitespace runs to single spaces and
// trims.
func normalize(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// keepRecord is the quality gate: a record needs a name or a current
// price, and a present name must be at least two characters.
func keepRecord(r Record) bool {
	if r.Name == Sentinel && r.CurrentPrice == Sentinel {
		return false
	}
	if r.Name != Sentinel && utf8.RuneCountInString(r.Name) < minNameLength {
		return false
	}
	return true
}
