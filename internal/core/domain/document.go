package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Page is the text of a single page that was read successfully.
type Page struct {
	// PageNumber is the 1-based position of the page in the source file.
	PageNumber int `json:"page_number"`

	// Text is the extracted page text.
	Text string `json:"text"`
}

// ExtractedTable is a table found on a page.
// A nil cell means the cell is missing, which is distinct from an empty string.
type ExtractedTable struct {
	// PageNumber is the page the table was found on.
	PageNumber int `json:"page_number"`

	// Rows holds the cells row by row.
	Rows [][]*string `json:"rows"`
}

// Columns returns the width of the widest row.
func (t ExtractedTable) Columns() int {
	width := 0
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Metadata holds document-level properties.
// When metadata cannot be read it degrades to the zero value.
type Metadata struct {
	// PageCount is the number of pages the file declares.
	PageCount int `json:"page_count"`

	// Title is the document title, if present.
	Title *string `json:"title,omitempty"`

	// Author is the document author, if present.
	Author *string `json:"author,omitempty"`

	// Subject is the document subject, if present.
	Subject *string `json:"subject,omitempty"`
}

// Document is the structured result of extracting a raw document.
// It is built once by an extractor and never modified afterwards.
type Document struct {
	// ID is a unique identifier assigned at extraction time.
	ID string `json:"id"`

	// Filename identifies the document within a corpus.
	Filename string `json:"filename"`

	// MIMEType is the content type the document was extracted as.
	MIMEType string `json:"mime_type"`

	// Pages holds the text of every page that was read, in file order.
	Pages []Page `json:"pages"`

	// Tables holds the tables found, in page order.
	Tables []ExtractedTable `json:"tables"`

	// Metadata holds document-level properties.
	Metadata Metadata `json:"metadata"`

	// IngestedAt is when the document was created.
	IngestedAt time.Time `json:"ingested_at"`
}

// PageMarker returns the boundary marker placed before the given page
// in FullText.
func PageMarker(pageNumber int) string {
	return fmt.Sprintf("\n--- Page %d ---\n", pageNumber)
}

// FullText concatenates the page texts in order. Pages are separated by
// PageMarker so the page a passage came from can be recovered.
func (d *Document) FullText() string {
	var b strings.Builder
	for i, page := range d.Pages {
		if i > 0 {
			b.WriteString(PageMarker(page.PageNumber))
		}
		b.WriteString(page.Text)
	}
	return b.String()
}

// WordCount returns the number of whitespace-delimited tokens across all pages.
func (d *Document) WordCount() int {
	count := 0
	for _, page := range d.Pages {
		count += len(strings.Fields(page.Text))
	}
	return count
}

// TableCount returns the number of extracted tables.
func (d *Document) TableCount() int {
	return len(d.Tables)
}

// IsEmpty reports whether no text was extracted from any page.
func (d *Document) IsEmpty() bool {
	for _, page := range d.Pages {
		if strings.TrimSpace(page.Text) != "" {
			return false
		}
	}
	return true
}

// Preview returns at most limit bytes of the full text, followed by "..."
// when the text was cut.
func (d *Document) Preview(limit int) string {
	text := d.FullText()
	if limit <= 0 || len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

// StringPtr returns a pointer to the trimmed s, or nil when s is blank.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
