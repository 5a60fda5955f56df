package analyze

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonesrussell/pagesift/internal/dom"
	"github.com/jonesrussell/pagesift/internal/logger"
)

// Report caps, matching the original summarizer output.
const (
	topTagEntries      = 20
	topClassEntries    = 50
	topIDEntries       = 50
	topHostEntries     = 10
	topAttrEntries     = 40
	topLongTextEntries = 20
	previewLength      = 400
)

// absoluteURLPattern recognizes scheme-qualified references.
var absoluteURLPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// wordPattern tokenizes page text for the word count.
var wordPattern = regexp.MustCompile(`[A-Za-z0-9']{2,}`)

// FreqEntry is one name/count pair in a frequency table.
type FreqEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// LinkStats aggregates the page's anchors.
type LinkStats struct {
	Total    int         `json:"total"`
	Empty    int         `json:"empty_hrefs"`
	External int         `json:"external"`
	Internal int         `json:"internal_or_relative"`
	Mailto   int         `json:"mailto"`
	Tel      int         `json:"tel"`
	TopHosts []FreqEntry `json:"top_hosts"`
}

// ImageStats aggregates the page's images.
type ImageStats struct {
	Total       int `json:"total"`
	MissingAlt  int `json:"missing_alt"`
	ExternalSrc int `json:"external_src_count"`
}

// FormStats aggregates the page's forms and inputs.
type FormStats struct {
	Forms      int         `json:"total_forms"`
	Inputs     int         `json:"total_inputs"`
	Selects    int         `json:"selects"`
	TextAreas  int         `json:"textareas"`
	InputTypes []FreqEntry `json:"input_type_counts"`
}

// ScriptStats aggregates scripts and styles.
type ScriptStats struct {
	Total       int `json:"scripts_total"`
	Inline      int `json:"inline_script_count"`
	External    int `json:"external_script_count"`
	Stylesheets int `json:"stylesheets_linked"`
	StyleBlocks int `json:"inline_style_blocks"`
}

// ClassStats aggregates class or id usage.
type ClassStats struct {
	Unique int         `json:"unique"`
	Top    []FreqEntry `json:"top"`
}

// TextStats aggregates the page's text nodes.
type TextStats struct {
	TextNodes      int    `json:"text_nodes"`
	TotalChars     int    `json:"total_text_chars"`
	WordCount      int    `json:"word_count"`
	LongestNodeLen int    `json:"longest_text_node_length"`
	LongestPreview string `json:"longest_text_node_preview"`
}

// LongTextNode points at an element carrying a long run of text.
type LongTextNode struct {
	Length  int    `json:"length"`
	Path    string `json:"path"`
	Preview string `json:"preview"`
}

// Report is the structural report for one page: everything an external
// selector-proposal step needs to draft a SelectorSpec. Built once per
// page and immutable afterwards.
type Report struct {
	Title     string `json:"title"`
	Charset   string `json:"charset"`
	SizeBytes int    `json:"size_bytes"`

	TotalNodes int            `json:"total_nodes"`
	UniqueTags int            `json:"unique_tags"`
	TopTags    []FreqEntry    `json:"top_tags"`
	Headings   map[string]int `json:"headings"`
	MaxDepth   int            `json:"max_dom_depth"`

	Links   LinkStats   `json:"links"`
	Images  ImageStats  `json:"images"`
	Forms   FormStats   `json:"forms"`
	Scripts ScriptStats `json:"scripts_styles"`
	Classes ClassStats  `json:"classes"`
	IDs     ClassStats  `json:"ids"`
	Text    TextStats   `json:"text"`

	AttributeStats map[string][]FreqEntry `json:"attribute_stats"`
	LongTextNodes  []LongTextNode         `json:"top_text_nodes"`

	Patterns          *Patterns           `json:"repeats"`
	FieldHints        map[string][]string `json:"field_hint_map"`
	SampleExtractions []SampleExtraction  `json:"sample_extractions"`
	TextPatterns      TextPatterns        `json:"text_patterns"`
	PageShape         PageShape           `json:"confidence_summary"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Options configures the analyzer caps.
type Options struct {
	// MaxGroups caps reported repeated signature groups.
	MaxGroups int
	// SampleSize caps serialized samples per group.
	SampleSize int
	// MaxPatternExamples caps text-pattern examples per category.
	MaxPatternExamples int
}

// DefaultOptions returns the default analyzer caps.
func DefaultOptions() Options {
	return Options{
		MaxGroups:          60,
		SampleSize:         3,
		MaxPatternExamples: 30,
	}
}

// Analyzer builds structural reports.
type Analyzer struct {
	opts Options
	log  logger.Interface
}

// New creates an analyzer. A nil logger falls back to the no-op logger.
func New(opts Options, log logger.Interface) *Analyzer {
	if opts.MaxGroups <= 0 {
		opts.MaxGroups = DefaultOptions().MaxGroups
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultOptions().SampleSize
	}
	if opts.MaxPatternExamples <= 0 {
		opts.MaxPatternExamples = DefaultOptions().MaxPatternExamples
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Analyzer{opts: opts, log: log.WithComponent("analyzer")}
}

// Analyze builds the structural report for a parsed document.
func (a *Analyzer) Analyze(doc *dom.Document) (*Report, error) {
	start := time.Now()

	report := &Report{
		Headings:    make(map[string]int, 6),
		GeneratedAt: start,
		SizeBytes:   doc.Size(),
	}

	a.collectDocumentStats(doc, report)

	idx := BuildIndex(doc)
	report.TotalNodes = idx.TotalElements()
	report.Patterns = DetectPatterns(idx, a.opts.MaxGroups, a.opts.SampleSize)
	report.FieldHints = FieldHints()
	report.SampleExtractions = extractSamples(doc, report.Patterns)
	report.TextPatterns = DetectTextPatterns(doc.Text(), a.opts.MaxPatternExamples)
	report.PageShape = assessPageShape(
		report.TotalNodes,
		report.Scripts.Total,
		report.Scripts.Inline,
		report.Links.Total,
		report.Links.Empty,
		report.Classes.Unique,
	)

	a.log.Debug("analysis complete",
		"nodes", report.TotalNodes,
		"repeated_signatures", report.Patterns.TotalRepeated,
		"has_container", report.Patterns.Container != nil,
		"duration", time.Since(start),
	)
	return report, nil
}

// collectDocumentStats fills the frequency tables and aggregates.
func (a *Analyzer) collectDocumentStats(doc *dom.Document, report *Report) {
	sel := doc.Selection()

	report.Title = strings.TrimSpace(sel.Find("title").First().Text())
	report.Charset = detectCharset(sel)

	tagCounts := make(map[string]int)
	classCounts := make(map[string]int)
	idCounts := make(map[string]int)
	attrCounts := make(map[string]map[string]int)

	doc.EachElement(func(n *html.Node) {
		tag := strings.ToLower(n.Data)
		tagCounts[tag]++
		for _, c := range dom.Classes(n) {
			classCounts[c]++
		}
		if id, ok := dom.Attr(n, "id"); ok && id != "" {
			idCounts[id]++
		}
		for _, attr := range n.Attr {
			if attrCounts[tag] == nil {
				attrCounts[tag] = make(map[string]int)
			}
			attrCounts[tag][attr.Key]++
		}
	})

	report.UniqueTags = len(tagCounts)
	report.TopTags = topEntries(tagCounts, topTagEntries)
	report.Classes = ClassStats{Unique: len(classCounts), Top: topEntries(classCounts, topClassEntries)}
	report.IDs = ClassStats{Unique: len(idCounts), Top: topEntries(idCounts, topIDEntries)}

	report.AttributeStats = make(map[string][]FreqEntry, len(attrCounts))
	for tag, counts := range attrCounts {
		report.AttributeStats[tag] = topEntries(counts, topAttrEntries)
	}

	for _, h := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		report.Headings[h] = sel.Find(h).Length()
	}
	report.MaxDepth = dom.MaxDepth(doc.Root())

	report.Links = collectLinkStats(sel)
	report.Images = collectImageStats(sel)
	report.Forms = collectFormStats(sel)
	report.Scripts = collectScriptStats(sel)
	report.Text = collectTextStats(doc)
	report.LongTextNodes = collectLongTextNodes(doc)
}

// detectCharset reads the document charset from its meta tags.
func detectCharset(sel *goquery.Document) string {
	if cs, ok := sel.Find("meta[charset]").First().Attr("charset"); ok {
		return cs
	}
	if content, ok := sel.Find("meta[http-equiv='Content-Type']").First().Attr("content"); ok {
		if i := strings.Index(strings.ToLower(content), "charset="); i >= 0 {
			return strings.TrimSpace(content[i+len("charset="):])
		}
	}
	return ""
}

func collectLinkStats(sel *goquery.Document) LinkStats {
	stats := LinkStats{}
	hosts := make(map[string]int)

	sel.Find("a").Each(func(_ int, s *goquery.Selection) {
		stats.Total++
		href := strings.TrimSpace(s.AttrOr("href", ""))
		switch {
		case href == "":
			stats.Empty++
		case strings.HasPrefix(strings.ToLower(href), "mailto:"):
			stats.Mailto++
		case strings.HasPrefix(strings.ToLower(href), "tel:"):
			stats.Tel++
		case absoluteURLPattern.MatchString(href):
			stats.External++
			if u, err := url.Parse(href); err == nil && u.Host != "" {
				hosts[u.Host]++
			}
		default:
			stats.Internal++
		}
	})

	stats.TopHosts = topEntries(hosts, topHostEntries)
	return stats
}

func collectImageStats(sel *goquery.Document) ImageStats {
	stats := ImageStats{}
	sel.Find("img").Each(func(_ int, s *goquery.Selection) {
		stats.Total++
		if strings.TrimSpace(s.AttrOr("alt", "")) == "" {
			stats.MissingAlt++
		}
		src := s.AttrOr("src", s.AttrOr("data-src", s.AttrOr("data-lazy-src", "")))
		if src != "" && absoluteURLPattern.MatchString(src) {
			stats.ExternalSrc++
		}
	})
	return stats
}

func collectFormStats(sel *goquery.Document) FormStats {
	stats := FormStats{
		Forms:     sel.Find("form").Length(),
		Selects:   sel.Find("select").Length(),
		TextAreas: sel.Find("textarea").Length(),
	}
	inputTypes := make(map[string]int)
	sel.Find("input").Each(func(_ int, s *goquery.Selection) {
		stats.Inputs++
		t := strings.ToLower(s.AttrOr("type", "text"))
		inputTypes[t]++
	})
	stats.InputTypes = topEntries(inputTypes, topAttrEntries)
	return stats
}

func collectScriptStats(sel *goquery.Document) ScriptStats {
	stats := ScriptStats{
		Stylesheets: sel.Find("link[rel='stylesheet']").Length(),
		StyleBlocks: sel.Find("style").Length(),
	}
	sel.Find("script").Each(func(_ int, s *goquery.Selection) {
		stats.Total++
		if _, ok := s.Attr("src"); ok {
			stats.External++
		} else {
			stats.Inline++
		}
	})
	return stats
}

func collectTextStats(doc *dom.Document) TextStats {
	stats := TextStats{}
	longest := ""
	var total strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				stats.TextNodes++
				total.WriteString(t)
				total.WriteByte(' ')
				if len(t) > len(longest) {
					longest = t
				}
			}
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc.Root())

	text := total.String()
	stats.TotalChars = len(text)
	stats.WordCount = len(wordPattern.FindAllString(text, -1))
	stats.LongestNodeLen = len(longest)
	stats.LongestPreview = preview(longest)
	return stats
}

// collectLongTextNodes ranks elements that carry direct text by their
// aggregated text length, pointing the external proposer at content-dense
// spots.
func collectLongTextNodes(doc *dom.Document) []LongTextNode {
	var nodes []LongTextNode
	doc.EachElement(func(n *html.Node) {
		hasDirectText := false
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
				hasDirectText = true
				break
			}
		}
		if !hasDirectText {
			return
		}
		text := dom.Text(n)
		nodes = append(nodes, LongTextNode{
			Length:  len(text),
			Path:    dom.NodePath(n),
			Preview: preview(text),
		})
	})

	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Length > nodes[j].Length })
	if len(nodes) > topLongTextEntries {
		nodes = nodes[:topLongTextEntries]
	}
	return nodes
}

// preview truncates text for report embedding, on a rune boundary so
// multibyte characters are never split.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLength {
		return string(runes[:previewLength]) + "..."
	}
	return text
}

// topEntries converts a count map into a sorted frequency table, count
// descending with name ascending as the deterministic tie-break.
func topEntries(counts map[string]int, limit int) []FreqEntry {
	entries := make([]FreqEntry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, FreqEntry{Name: name, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
