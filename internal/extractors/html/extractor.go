package html

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/extractors/tables"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{domain.MIMETypeHTML, domain.MIMETypeXHTML}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Generic MIME extractor, higher than plaintext
}

// Extract parses the markup into page 1 text, tables and head metadata.
func (e *Extractor) Extract(
	_ context.Context, raw *domain.RawDocument, limits driven.Limits,
) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadable, err)
	}

	res := &driven.ExtractResult{}
	res.Document.Pages = []domain.Page{{PageNumber: 1, Text: renderText(doc)}}

	collector := tables.NewCollector(limits.MaxTables)
	for _, rows := range extractTables(doc) {
		collector.Add(1, rows)
	}
	res.Document.Tables = collector.Tables()
	if dropped := collector.Dropped(); dropped > 0 {
		res.Warn(fmt.Errorf("%w: dropped %d table(s)", domain.ErrLimitExceeded, dropped))
	}

	res.Document.Metadata = domain.Metadata{
		PageCount: 1,
		Title:     domain.StringPtr(doc.Find("title").First().Text()),
		Author:    domain.StringPtr(metaContent(doc, "author")),
		Subject:   domain.StringPtr(metaContent(doc, "description")),
	}

	if res.Document.IsEmpty() {
		res.Warn(domain.ErrEmpty)
	}
	return res, nil
}

func metaContent(doc *goquery.Document, name string) string {
	content, _ := doc.Find(`meta[name="` + name + `"]`).First().Attr("content")
	return content
}

var (
	skipped = map[string]bool{
		"head": true, "script": true, "style": true, "noscript": true,
		"svg": true, "template": true, "iframe": true,
	}
	blocks = map[string]bool{
		"p": true, "div": true, "h1": true, "h2": true, "h3": true, "h4": true,
		"h5": true, "h6": true, "li": true, "ul": true, "ol": true, "tr": true,
		"table": true, "blockquote": true, "pre": true, "section": true,
		"article": true, "header": true, "footer": true, "hr": true,
	}

	multiSpaces   = regexp.MustCompile(`[ \t\r\f\v]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// renderText walks the body, falling back to the whole tree for fragments.
func renderText(doc *goquery.Document) string {
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var b strings.Builder
	for _, n := range root.Nodes {
		render(&b, n)
	}
	return normalise(b.String())
}

func render(b *strings.Builder, n *nethtml.Node) {
	switch n.Type {
	case nethtml.TextNode:
		b.WriteString(n.Data)
		return
	case nethtml.CommentNode:
		return
	case nethtml.ElementNode:
		if skipped[n.Data] {
			return
		}
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	}

	block := n.Type == nethtml.ElementNode && blocks[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		render(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
	if n.Type == nethtml.ElementNode && (n.Data == "td" || n.Data == "th") {
		b.WriteByte(' ')
	}
}

// normalise collapses horizontal whitespace, trims each line and keeps at
// most one blank line between blocks.
func normalise(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpaces.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = multiNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// cellText renders a cell so that nested block content stays word-separated.
func cellText(cell *goquery.Selection) string {
	var b strings.Builder
	for _, n := range cell.Nodes {
		render(&b, n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// extractTables returns one row set per top-level table. Rows of nested
// tables belong to the nested table, whose text stays in the enclosing cell.
func extractTables(doc *goquery.Document) [][][]*string {
	var found [][][]*string
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if table.ParentsFiltered("table").Length() > 0 {
			return
		}

		var rows [][]*string
		table.Find("tr").
			FilterFunction(func(_ int, tr *goquery.Selection) bool {
				return tr.Closest("table").IsSelection(table)
			}).
			Each(func(_ int, tr *goquery.Selection) {
				var row []*string
				tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
					row = append(row, tables.Cell(cellText(cell)))
				})
				if len(row) > 0 {
					rows = append(rows, row)
				}
			})
		if len(rows) > 0 {
			found = append(found, rows)
		}
	})
	return found
}
