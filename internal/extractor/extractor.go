package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/harvestly/siteharvest/internal/model"
)

// ExtractError is returned when a document cannot be parsed at all.
// Partial or malformed markup does not produce this error; the HTML parser
// recovers from almost anything, so an ExtractError means the input was
// structurally unreadable (or the source URL was invalid).
type ExtractError struct {
	// URL is the source URL of the document.
	URL string

	// Err is the underlying parse error.
	Err error
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: malformed document: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// HTMLExtractor extracts page records from HTML using goquery.
// It is stateless and safe for concurrent use.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract parses the page bytes into a PageRecord and returns the
// absolute candidate links found on the page. The source URL is used to
// resolve relative references.
//
// Content rules:
//   - script and style content is stripped before any text extraction
//   - MainText comes from <main>, else div.content, else <body>
//   - headings h1-h6 are collected in document order
//   - paragraphs and list items exclude empty or whitespace-only text
//   - the last meta tag with a given name wins
func (e *HTMLExtractor) Extract(body []byte, sourceURL string) (*model.PageRecord, []string, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, nil, &ExtractError{URL: sourceURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, &ExtractError{URL: sourceURL, Err: err}
	}

	record := &model.PageRecord{
		URL:   sourceURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Content: model.ContentBlock{
			Headings:   make([]string, 0),
			Paragraphs: make([]string, 0),
			ListItems:  make([]string, 0),
		},
		Metadata: model.MetadataBlock{
			Attributes:   make(map[string]string),
			ImageSources: make([]string, 0),
		},
	}

	// Candidate links and metadata are collected before script/style
	// removal; removal only affects text extraction.
	links := extractLinks(doc, base)

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		if name == "" {
			name, _ = s.Attr("property") // OpenGraph uses property
		}
		content, _ := s.Attr("content")
		if name != "" && content != "" {
			record.Metadata.Attributes[name] = content
		}
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			return
		}
		if resolved := resolveRef(base, src); resolved != "" {
			record.Metadata.ImageSources = append(record.Metadata.ImageSources, resolved)
		}
	})

	doc.Find("script, style").Remove()

	record.Content.MainText = mainText(doc)

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		record.Content.Headings = append(record.Content.Headings, strings.TrimSpace(s.Text()))
	})

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			record.Content.Paragraphs = append(record.Content.Paragraphs, text)
		}
	})

	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			record.Content.ListItems = append(record.Content.ListItems, text)
		}
	})

	return record, links, nil
}

// mainText returns the normalized text of the page's main content region:
// the <main> landmark if present, else a div with class "content", else
// the whole body. Empty when none of these exist.
func mainText(doc *goquery.Document) string {
	for _, selector := range []string{"main", "div.content", "body"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return normalizeSpace(sel.Text())
		}
	}
	return ""
}

// normalizeSpace collapses all whitespace runs to single spaces and trims
// the ends. This keeps MainText stable regardless of source indentation.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// extractLinks collects every anchor's href, resolved against the base
// URL, deduplicated in document order. Pseudo-links (javascript:, mailto:,
// tel:, data:, bare fragments) are dropped.
func extractLinks(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]struct{})
	links := make([]string, 0)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved := resolveRef(base, href)
		if resolved == "" {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links
}

// resolveRef resolves href against base, returning "" for pseudo-links
// and unparseable references.
func resolveRef(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}

	if strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return base.ResolveReference(ref).String()
}
