// Package docx provides an Extractor for Word (OOXML) documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/extractors/tables"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"
)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{domain.MIMETypeDOCX}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Generic MIME extractor
}

// Extract reads paragraph text and w:tbl tables from word/document.xml and
// title, creator and subject from docProps/core.xml. The whole document is
// page 1.
func (e *Extractor) Extract(
	_ context.Context, raw *domain.RawDocument, limits driven.Limits,
) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadable, err)
	}

	content, err := readPart(reader, documentPart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadable, err)
	}

	body, err := parseBody(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadable, err)
	}

	res := &driven.ExtractResult{}
	res.Document.Pages = []domain.Page{{PageNumber: 1, Text: body.text()}}

	collector := tables.NewCollector(limits.MaxTables)
	for _, rows := range body.tables {
		collector.Add(1, rows)
	}
	res.Document.Tables = collector.Tables()
	if dropped := collector.Dropped(); dropped > 0 {
		res.Warn(fmt.Errorf("%w: dropped %d table(s)", domain.ErrLimitExceeded, dropped))
	}

	meta, err := readMetadata(reader)
	if err != nil {
		res.Warn(fmt.Errorf("%w: %v", domain.ErrMetadataUnavailable, err))
	}
	res.Document.Metadata = meta

	if res.Document.IsEmpty() {
		res.Warn(domain.ErrEmpty)
	}
	return res, nil
}

// readPart returns the bytes of the named archive member.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("missing %s", name)
}

// body is the reading-order content of a document part.
type body struct {
	paragraphs []string
	tables     [][][]*string
}

func (b *body) text() string {
	return strings.TrimSpace(strings.Join(b.paragraphs, "\n"))
}

// parseBody streams the document XML. Paragraphs become lines of text and
// each top-level w:tbl becomes a table, with nested tables flattened into
// the enclosing cell. Table rows also appear in the text as tab-separated
// lines so their figures are searchable.
func parseBody(r io.Reader) (*body, error) {
	dec := xml.NewDecoder(r)
	out := &body{}

	var (
		para, cellText strings.Builder
		row            []*string
		rows           [][]*string
		depth          int
		inText         bool
	)
	write := func(s string) {
		if depth > 0 {
			cellText.WriteString(s)
			return
		}
		para.WriteString(s)
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				depth++
				if depth == 1 {
					rows = nil
				}
			case "tr":
				if depth == 1 {
					row = nil
				}
			case "tc":
				if depth == 1 {
					cellText.Reset()
				}
			case "t":
				inText = true
			case "tab":
				write("\t")
			case "br", "cr":
				write("\n")
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if depth > 0 {
					cellText.WriteByte(' ')
					continue
				}
				out.paragraphs = append(out.paragraphs, para.String())
				para.Reset()
			case "tc":
				if depth == 1 {
					row = append(row, tables.Cell(strings.Join(strings.Fields(cellText.String()), " ")))
				}
			case "tr":
				if depth == 1 {
					rows = append(rows, row)
					out.paragraphs = append(out.paragraphs, rowText(row))
				}
			case "tbl":
				if depth == 1 {
					out.tables = append(out.tables, rows)
				}
				depth--
			}

		case xml.CharData:
			if inText {
				write(string(t))
			}
		}
	}
	return out, nil
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

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
	Subject string `xml:"subject"`
}

// readMetadata reads the core properties part. Documents without one have
// no properties, which is not a failure.
func readMetadata(reader *zip.Reader) (domain.Metadata, error) {
	meta := domain.Metadata{PageCount: 1}

	hasCore := false
	for _, file := range reader.File {
		if file.Name == corePart {
			hasCore = true
			break
		}
	}
	if !hasCore {
		return meta, nil
	}

	content, err := readPart(reader, corePart)
	if err != nil {
		return domain.Metadata{}, err
	}

	var core coreXML
	if err := xml.Unmarshal(content, &core); err != nil {
		return domain.Metadata{}, err
	}
	meta.Title = domain.StringPtr(core.Title)
	meta.Author = domain.StringPtr(core.Creator)
	meta.Subject = domain.StringPtr(core.Subject)
	return meta, nil
}
