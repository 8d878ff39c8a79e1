package model

// PageRecord holds everything extracted from one successfully fetched page.
// A record is produced exactly once per URL and never mutated after creation.
type PageRecord struct {
	// URL is the absolute URL the page was fetched from.
	URL string `json:"url"`

	// Title is the page title from the <title> tag.
	// Empty when the document has no title element.
	Title string `json:"title"`

	// Content holds the extracted textual content of the page.
	Content ContentBlock `json:"content"`

	// Metadata holds meta tag attributes and image references.
	Metadata MetadataBlock `json:"metadata"`
}

// ContentBlock is the textual content extracted from a page.
// All sequences preserve document order.
type ContentBlock struct {
	// MainText is the concatenated text of the page's main content region:
	// the <main> landmark if present, else a div with class "content",
	// else the whole <body>. Empty when none of these exist.
	MainText string `json:"main_text"`

	// Headings contains the text of all h1-h6 elements in document order.
	Headings []string `json:"headings"`

	// Paragraphs contains the text of all non-empty <p> elements.
	Paragraphs []string `json:"paragraphs"`

	// ListItems contains the text of all non-empty <li> elements.
	ListItems []string `json:"lists"`
}

// MetadataBlock holds page metadata extracted from meta tags and images.
type MetadataBlock struct {
	// Attributes maps meta tag names (or OpenGraph properties) to their
	// content values. When the same name appears more than once, the last
	// occurrence wins.
	Attributes map[string]string `json:"attributes"`

	// ImageSources contains the resolved src of every <img> element,
	// in document order.
	ImageSources []string `json:"images"`
}

// Attribute returns the value of the named meta attribute, or the empty
// string if it is absent.
func (m MetadataBlock) Attribute(name string) string {
	return m.Attributes[name]
}

// SummaryRow is the flattened, single-row projection of a PageRecord used
// for the spreadsheet export. Counts are the lengths of the underlying
// sequences.
type SummaryRow struct {
	// URL is the page URL.
	URL string

	// Title is the page title.
	Title string

	// MainText is the main content text.
	MainText string

	// HeadingsCount is the number of extracted headings.
	HeadingsCount int

	// ParagraphsCount is the number of extracted paragraphs.
	ParagraphsCount int

	// ListsCount is the number of extracted list items.
	ListsCount int

	// ImagesCount is the number of extracted image sources.
	ImagesCount int

	// Description is the "description" meta attribute, or empty.
	Description string

	// Keywords is the "keywords" meta attribute, or empty.
	Keywords string
}

// Flatten projects the record into a SummaryRow.
// Flattening is idempotent: repeated calls yield identical rows.
func (p *PageRecord) Flatten() SummaryRow {
	return SummaryRow{
		URL:             p.URL,
		Title:           p.Title,
		MainText:        p.Content.MainText,
		HeadingsCount:   len(p.Content.Headings),
		ParagraphsCount: len(p.Content.Paragraphs),
		ListsCount:      len(p.Content.ListItems),
		ImagesCount:     len(p.Metadata.ImageSources),
		Description:     p.Metadata.Attribute("description"),
		Keywords:        p.Metadata.Attribute("keywords"),
	}
}

// SummaryHeader returns the column names for tabular export, in the same
// order as the fields produced by Flatten.
func SummaryHeader() []string {
	return []string{
		"url",
		"title",
		"main_text",
		"headings_count",
		"paragraphs_count",
		"lists_count",
		"images_count",
		"description",
		"keywords",
	}
}
