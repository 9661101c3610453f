// Package markdown provides an Extractor for Markdown documents. Formatting
// is simplified to plain text and GitHub-style pipe tables become tables.
package markdown

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/extractors/tables"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Markdown documents.
type Extractor struct{}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{domain.MIMETypeMarkdown, "text/x-markdown"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Generic MIME extractor, higher than plaintext
}

// Extract converts the markdown to page 1 text and pipe tables. The first
// H1 heading is the title.
func (e *Extractor) Extract(
	_ context.Context, raw *domain.RawDocument, limits driven.Limits,
) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	parsed := parse(string(raw.Content))

	res := &driven.ExtractResult{}
	res.Document.Pages = []domain.Page{{PageNumber: 1, Text: stripMarkdown(parsed.text)}}

	collector := tables.NewCollector(limits.MaxTables)
	for _, rows := range parsed.tables {
		collector.Add(1, rows)
	}
	res.Document.Tables = collector.Tables()
	if dropped := collector.Dropped(); dropped > 0 {
		res.Warn(fmt.Errorf("%w: dropped %d table(s)", domain.ErrLimitExceeded, dropped))
	}

	res.Document.Metadata = domain.Metadata{
		PageCount: 1,
		Title:     domain.StringPtr(parsed.title),
	}

	if res.Document.IsEmpty() {
		res.Warn(domain.ErrEmpty)
	}
	return res, nil
}

var delimiterRow = regexp.MustCompile(`^\s*\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?\s*$`)

type document struct {
	title  string
	text   string
	tables [][][]*string
}

// parse pulls pipe tables out of the source, leaving their rows in the text
// as tab-separated lines, and finds the first H1 outside code fences.
func parse(content string) document {
	var doc document
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	inFence := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		if doc.title == "" && strings.HasPrefix(trimmed, "# ") {
			doc.title = stripInline(strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
		}

		if !isTableStart(lines, i) {
			out = append(out, line)
			continue
		}

		rows := [][]*string{splitRow(line)}
		i += 2
		for ; i < len(lines); i++ {
			next := strings.TrimSpace(lines[i])
			if next == "" || !strings.Contains(next, "|") {
				break
			}
			rows = append(rows, splitRow(lines[i]))
		}
		i--

		doc.tables = append(doc.tables, rows)
		for _, row := range rows {
			out = append(out, rowText(row))
		}
	}

	doc.text = strings.Join(out, "\n")
	return doc
}

func isTableStart(lines []string, i int) bool {
	return i+1 < len(lines) &&
		strings.Contains(lines[i], "|") &&
		strings.Contains(lines[i+1], "|") &&
		delimiterRow.MatchString(lines[i+1])
}

// splitRow splits a table row on unescaped pipes, ignoring the outer ones.
func splitRow(line string) []*string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = strings.TrimSuffix(line, "|")
	}

	var cells []*string
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cur.WriteByte('|')
			i++
		case line[i] == '|':
			cells = append(cells, tables.Cell(stripInline(cur.String())))
			cur.Reset()
		default:
			cur.WriteByte(line[i])
		}
	}
	return append(cells, tables.Cell(stripInline(cur.String())))
}

func rowText(row []*string) string {
	cells := make([]string, len(row))
	for i, c := range row {
		if c != nil {
			cells[i] = *c
		}
	}
	return strings.Join(cells, "\t")
}

var (
	fences       = regexp.MustCompile("(?m)^[ \t]*(```|~~~).*$")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+`)
	blockquote   = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	hr           = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	listMarkers  = regexp.MustCompile(`(?m)^([ \t]*)[-*+][ \t]+`)
	numberedList = regexp.MustCompile(`(?m)^([ \t]*)\d+[.)][ \t]+`)
	emphasis     = regexp.MustCompile(`(\*\*|__|\*|~~)`)
	multiBlank   = regexp.MustCompile(`\n{3,}`)
)

// stripInline removes inline formatting, keeping the visible text.
func stripInline(s string) string {
	s = inlineCode.ReplaceAllString(s, "$1")
	s = images.ReplaceAllString(s, "$1")
	s = links.ReplaceAllString(s, "$1")
	return emphasis.ReplaceAllString(s, "")
}

// stripMarkdown reduces markdown to readable text. Fenced code keeps its
// content; only the fence lines go.
func stripMarkdown(content string) string {
	content = fences.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")
	content = headings.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "$1")
	content = numberedList.ReplaceAllString(content, "$1")
	content = stripInline(content)
	content = multiBlank.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
