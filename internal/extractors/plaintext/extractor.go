// Package plaintext provides the fallback Extractor for text formats.
// Comma and tab separated files also yield their rows as one table.
package plaintext

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/extractors/tables"
	"github.com/custodia-labs/warroom/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const mimeTypeTSV = "text/tab-separated-values"

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		domain.MIMETypePlain,
		domain.MIMETypeCSV,
		mimeTypeTSV,
		domain.MIMETypeMarkdown,
		domain.MIMETypeHTML,
		"text/yaml",
		"text/toml",
		"application/json",
		"application/xml",
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback extractor
}

// Extract returns the content as page 1. Content that is not text at all
// (invalid UTF-8 containing NUL bytes) is unreadable.
func (e *Extractor) Extract(
	_ context.Context, raw *domain.RawDocument, limits driven.Limits,
) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if !utf8.Valid(raw.Content) && bytes.IndexByte(raw.Content, 0) >= 0 {
		return nil, fmt.Errorf("%w: binary content", domain.ErrUnreadable)
	}

	text := strings.ToValidUTF8(string(raw.Content), "\uFFFD")
	text = strings.TrimPrefix(text, "\uFEFF")

	res := &driven.ExtractResult{}
	res.Document.Pages = []domain.Page{{PageNumber: 1, Text: text}}
	res.Document.Metadata = domain.Metadata{PageCount: 1}

	if sep, ok := separator(raw.MIMEType); ok {
		rows, err := readTable(text, sep)
		if err != nil {
			logger.Warn("%s: table not read: %v", raw.Filename, err)
		}
		collector := tables.NewCollector(limits.MaxTables)
		collector.Add(1, rows)
		res.Document.Tables = collector.Tables()
		if collector.Dropped() > 0 {
			res.Warn(fmt.Errorf("%w: dropped 1 table(s)", domain.ErrLimitExceeded))
		}
	}

	if res.Document.IsEmpty() {
		res.Warn(domain.ErrEmpty)
	}
	return res, nil
}

func separator(mimeType string) (rune, bool) {
	switch mimeType {
	case domain.MIMETypeCSV:
		return ',', true
	case mimeTypeTSV:
		return '\t', true
	}
	return 0, false
}

// readTable parses delimited rows leniently: ragged rows and stray quotes
// are accepted. Rows read before a parse error are kept.
func readTable(text string, sep rune) ([][]*string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]*string
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return rows, err
		}
		rows = append(rows, tables.Row(record...))
	}
}
