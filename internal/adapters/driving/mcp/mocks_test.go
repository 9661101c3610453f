package mcp

import (
	"context"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockReportService is a mock implementation of driving.ReportService.
type mockReportService struct {
	summary *domain.Summary
	library []domain.LibraryEntry
	docs    map[string]*domain.Document
	err     error
}

func (m *mockReportService) Summary(_ context.Context) (*domain.Summary, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.summary == nil {
		return &domain.Summary{}, nil
	}
	return m.summary, nil
}

func (m *mockReportService) Library(_ context.Context) ([]domain.LibraryEntry, error) {
	return m.library, m.err
}

func (m *mockReportService) Document(_ context.Context, filename string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[filename]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result domain.BatchResult
	paths  []string
}

func (m *mockIngestService) Ingest(context.Context, domain.RawDocument) (*domain.Document, []error, error) {
	return nil, nil, nil
}

func (m *mockIngestService) IngestBatch(context.Context, []domain.RawDocument) domain.BatchResult {
	return m.result
}

func (m *mockIngestService) IngestFiles(_ context.Context, paths []string) domain.BatchResult {
	m.paths = paths
	return m.result
}

func (m *mockIngestService) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// mockPrepService is a mock implementation of driving.PrepService.
type mockPrepService struct {
	questions []domain.Question
	err       error
	lastN     int
}

func (m *mockPrepService) CompanyContext(context.Context) (string, error)     { return "", nil }
func (m *mockPrepService) CompetitiveContext(context.Context) (string, error) { return "", nil }
func (m *mockPrepService) DocumentContext(context.Context, string) (string, error) {
	return "", nil
}

func (m *mockPrepService) GenerateQuestions(_ context.Context, n int) ([]domain.Question, error) {
	m.lastN = n
	return m.questions, m.err
}

func (m *mockPrepService) GenerateResponse(context.Context, domain.Question) (*domain.Response, error) {
	return nil, m.err
}

func validPorts() *Ports {
	return &Ports{Search: &mockSearchService{}, Report: &mockReportService{}}
}
