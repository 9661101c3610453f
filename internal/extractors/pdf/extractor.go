package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/extractors/tables"
	"github.com/custodia-labs/warroom/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// pdfcpu otherwise creates a config directory under the user's home.
var disableConfigDir sync.Once

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	disableConfigDir.Do(api.DisableConfigDir)
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{domain.MIMETypePDF}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Generic MIME extractor
}

// Extract reads every page's text and tables, then runs the metadata pass.
// Pages that fail are left out; only an unparseable file fails.
func (e *Extractor) Extract(
	ctx context.Context, raw *domain.RawDocument, limits driven.Limits,
) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, total, err := open(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadable, err)
	}

	res := &driven.ExtractResult{}
	n := total
	if limits.MaxPages > 0 && n > limits.MaxPages {
		n = limits.MaxPages
		res.Warn(fmt.Errorf("%w: read %d of %d pages", domain.ErrLimitExceeded, n, total))
	}

	collector := tables.NewCollector(limits.MaxTables)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			logger.Debug("%s: page %d missing", raw.Filename, i)
			continue
		}

		text, err := pageText(page)
		if err != nil {
			logger.Warn("%s: page %d text: %v", raw.Filename, i, err)
		} else {
			res.Document.Pages = append(res.Document.Pages, domain.Page{PageNumber: i, Text: text})
		}

		found, err := pageTables(page)
		if err != nil {
			logger.Warn("%s: page %d tables: %v", raw.Filename, i, err)
			continue
		}
		for _, rows := range found {
			collector.Add(i, rows)
		}
	}

	res.Document.Tables = collector.Tables()
	if dropped := collector.Dropped(); dropped > 0 {
		res.Warn(fmt.Errorf("%w: dropped %d table(s)", domain.ErrLimitExceeded, dropped))
	}

	meta, err := readMetadata(reader, raw.Content)
	if err != nil {
		res.Warn(fmt.Errorf("%w: %v", domain.ErrMetadataUnavailable, err))
		meta = domain.Metadata{}
	}
	res.Document.Metadata = meta

	if res.Document.IsEmpty() {
		res.Warn(domain.ErrEmpty)
	}
	return res, nil
}

// open parses the cross-reference table and page tree. The parser panics on
// some malformed input, which is reported as an error.
func open(content []byte) (reader *pdf.Reader, pages int, err error) {
	if len(content) == 0 {
		return nil, 0, errors.New("empty input")
	}
	defer func() {
		if r := recover(); r != nil {
			reader, pages, err = nil, 0, fmt.Errorf("parse: %v", r)
		}
	}()

	reader, err = pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, 0, err
	}
	return reader, reader.NumPage(), nil
}

func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return page.GetPlainText(nil)
}

func pageTables(page pdf.Page) (found [][][]*string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}
	return detectTables(rowCells(rows)), nil
}

// rowCells converts positioned rows, top of the page first, into cells.
func rowCells(rows pdf.Rows) [][]cell {
	sorted := make(pdf.Rows, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			sorted = append(sorted, row)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position > sorted[j].Position })

	lines := make([][]cell, 0, len(sorted))
	for _, row := range sorted {
		spans := make([]span, 0, len(row.Content))
		for _, t := range row.Content {
			spans = append(spans, span{x: t.X, width: t.W, size: t.FontSize, text: t.S})
		}
		lines = append(lines, groupCells(spans))
	}
	return lines
}

// countPages validates the file with pdfcpu and returns its page count.
var countPages = func(content []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageCount(bytes.NewReader(content), conf)
}

// readMetadata is best effort: any failure degrades the document's metadata.
func readMetadata(reader *pdf.Reader, content []byte) (meta domain.Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			meta, err = domain.Metadata{}, fmt.Errorf("%v", r)
		}
	}()

	count, err := countPages(content)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("page count: %w", err)
	}
	meta.PageCount = count

	info := reader.Trailer().Key("Info")
	if !info.IsNull() {
		meta.Title = domain.StringPtr(info.Key("Title").Text())
		meta.Author = domain.StringPtr(info.Key("Author").Text())
		meta.Subject = domain.StringPtr(info.Key("Subject").Text())
	}
	return meta, nil
}
