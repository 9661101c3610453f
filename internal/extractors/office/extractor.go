// Package office provides an Extractor for OpenDocument text and
// PowerPoint files, converted to plain text with docconv.
package office

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv/v2"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles ODT and PPTX documents.
type Extractor struct{}

// New creates a new office document extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{domain.MIMETypeODT, domain.MIMETypePPTX}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Generic MIME extractor
}

// Extract converts the document to text. docconv does not expose layout,
// so the whole document is page 1 and no tables are produced.
func (e *Extractor) Extract(
	_ context.Context, raw *domain.RawDocument, _ driven.Limits,
) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if len(raw.Content) == 0 {
		return nil, fmt.Errorf("%w: empty input", domain.ErrUnreadable)
	}

	resp, err := docconv.Convert(bytes.NewReader(raw.Content), raw.MIMEType, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadable, err)
	}

	logger.Debug("%s: converted in %dms", raw.Filename, resp.MSecs)

	res := &driven.ExtractResult{}
	res.Document.Pages = []domain.Page{{PageNumber: 1, Text: strings.TrimSpace(resp.Body)}}
	res.Document.Metadata = domain.Metadata{
		PageCount: 1,
		Title:     domain.StringPtr(resp.Meta["Title"]),
		Author:    domain.StringPtr(resp.Meta["Author"]),
		Subject:   domain.StringPtr(resp.Meta["Subject"]),
	}

	if res.Document.IsEmpty() {
		res.Warn(domain.ErrEmpty)
	}
	return res, nil
}
