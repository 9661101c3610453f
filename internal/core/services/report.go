package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driving"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// PreviewLength is the number of characters shown per library entry.
const PreviewLength = 1000

// ReportService provides aggregate and per-document views of a session's corpus.
type ReportService struct {
	session *Session
}

// NewReportService creates a report service.
func NewReportService(session *Session) *ReportService {
	return &ReportService{session: session}
}

// Summary returns corpus statistics.
func (s *ReportService) Summary(_ context.Context) (*domain.Summary, error) {
	docs, err := s.session.Corpus.Documents()
	if err != nil {
		return nil, fmt.Errorf("snapshot corpus: %w", err)
	}
	names, err := s.session.Corpus.Filenames()
	if err != nil {
		return nil, fmt.Errorf("list filenames: %w", err)
	}
	summary := Summarize(docs, names)
	return &summary, nil
}

// Summarize computes statistics over a snapshot. names is the corpus
// filename list in insertion order.
func Summarize(docs []*domain.Document, names []string) domain.Summary {
	summary := domain.Summary{
		DocumentCount:   len(docs),
		SampleFilenames: []string{},
	}
	for _, doc := range docs {
		summary.TotalWordCount += doc.WordCount()
		summary.TotalTableCount += doc.TableCount()
	}
	if len(names) > domain.SampleSize {
		summary.SampleFilenames = append(summary.SampleFilenames, names[:domain.SampleSize]...)
		summary.Truncated = true
	} else {
		summary.SampleFilenames = append(summary.SampleFilenames, names...)
	}
	return summary
}

// Library lists every document with statistics and a text preview.
func (s *ReportService) Library(_ context.Context) ([]domain.LibraryEntry, error) {
	docs, err := s.session.Corpus.Documents()
	if err != nil {
		return nil, fmt.Errorf("snapshot corpus: %w", err)
	}
	entries := make([]domain.LibraryEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, domain.LibraryEntry{
			Filename:   doc.Filename,
			MIMEType:   doc.MIMEType,
			WordCount:  doc.WordCount(),
			TableCount: doc.TableCount(),
			PageCount:  len(doc.Pages),
			Metadata:   doc.Metadata,
			Preview:    doc.Preview(PreviewLength),
		})
	}
	return entries, nil
}

// Document returns a single document by filename.
func (s *ReportService) Document(_ context.Context, filename string) (*domain.Document, error) {
	doc, err := s.session.Corpus.Get(filename)
	if err != nil {
		return nil, fmt.Errorf("get document %q: %w", filename, err)
	}
	return doc, nil
}
