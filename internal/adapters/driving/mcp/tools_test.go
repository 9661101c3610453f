package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockSearch := &mockSearchService{
			results: []domain.SearchResult{
				{
					Filename:       "q3-call.pdf",
					RelevanceScore: 0.5,
					MatchCount:     2,
					Excerpt:        "Revenue grew 29% year over year",
					Metadata:       domain.Metadata{Title: domain.StringPtr("Q3 Call")},
				},
				{Filename: "notes.txt", RelevanceScore: 0.1, MatchCount: 1},
			},
		}

		server, err := NewServer(&Ports{Search: mockSearch, Report: &mockReportService{}})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "revenue", Limit: 3})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		require.Len(t, output.Results, 2)
		assert.Equal(t, "q3-call.pdf", output.Results[0].Filename)
		assert.Equal(t, "Q3 Call", output.Results[0].Title)
		assert.Equal(t, 0.5, output.Results[0].RelevanceScore)
		assert.Equal(t, 2, output.Results[0].MatchCount)
		assert.Equal(t, "Revenue grew 29% year over year", output.Results[0].Excerpt)
		assert.Empty(t, output.Results[1].Title)
		assert.Equal(t, 3, mockSearch.lastOpts.MaxResults)
	})

	t.Run("zero limit defers to service default", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := NewServer(&Ports{Search: mockSearch, Report: &mockReportService{}})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Results)
		assert.Equal(t, 0, mockSearch.lastOpts.MaxResults)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Search: mockSearch, Report: &mockReportService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("returns summary", func(t *testing.T) {
		report := &mockReportService{summary: &domain.Summary{
			DocumentCount:   2,
			TotalWordCount:  120,
			TotalTableCount: 3,
			SampleFilenames: []string{"a.pdf", "b.docx"},
		}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Report: report})
		require.NoError(t, err)

		_, output, err := server.handleSummary(ctx, nil, SummaryInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, output.DocumentCount)
		assert.Equal(t, 120, output.TotalWordCount)
		assert.Equal(t, 3, output.TotalTableCount)
		assert.Equal(t, []string{"a.pdf", "b.docx"}, output.SampleFilenames)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		report := &mockReportService{err: errors.New("corpus closed")}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Report: report})
		require.NoError(t, err)

		_, _, err = server.handleSummary(ctx, nil, SummaryInput{})
		assert.Error(t, err)
	})
}

func TestServer_handleIngestFile(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without ingest service", func(t *testing.T) {
		server, err := NewServer(validPorts())
		require.NoError(t, err)

		_, _, err = server.handleIngestFile(ctx, nil, IngestFileInput{Path: "/tmp/a.pdf"})
		assert.ErrorIs(t, err, ErrIngestDisabled)
	})

	t.Run("empty path is invalid", func(t *testing.T) {
		ports := validPorts()
		ports.Ingest = &mockIngestService{}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleIngestFile(ctx, nil, IngestFileInput{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("reports per item outcome", func(t *testing.T) {
		doc := &domain.Document{
			Filename: "call.txt",
			Pages:    []domain.Page{{PageNumber: 1, Text: "revenue grew strongly"}},
			Tables:   []domain.ExtractedTable{{PageNumber: 1}},
		}
		ingest := &mockIngestService{result: domain.BatchResult{Items: []domain.BatchItem{
			{Filename: "call.txt", Document: doc, Warnings: []error{domain.ErrMetadataUnavailable}},
			{Filename: "image.png", Err: domain.NewExtractionError("image.png", domain.ErrUnsupportedType)},
		}}}
		ports := validPorts()
		ports.Ingest = ingest
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleIngestFile(ctx, nil, IngestFileInput{Path: "/docs"})
		require.NoError(t, err)

		assert.Equal(t, []string{"/docs"}, ingest.paths)
		assert.Equal(t, 1, output.Succeeded)
		assert.Equal(t, 1, output.Failed)
		require.Len(t, output.Items, 2)

		assert.True(t, output.Items[0].OK)
		assert.Equal(t, 3, output.Items[0].WordCount)
		assert.Equal(t, 1, output.Items[0].PageCount)
		assert.Equal(t, 1, output.Items[0].TableCount)
		assert.Equal(t, []string{domain.ErrMetadataUnavailable.Error()}, output.Items[0].Warnings)

		assert.False(t, output.Items[1].OK)
		assert.Contains(t, output.Items[1].Error, "unsupported type")
	})
}

func TestServer_handleQuestions(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults count", func(t *testing.T) {
		prep := &mockPrepService{questions: []domain.Question{{ID: "q1", Question: "What drove NRR?"}}}
		ports := validPorts()
		ports.Prep = prep
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleQuestions(ctx, nil, QuestionsInput{})
		require.NoError(t, err)

		assert.Equal(t, defaultQuestions, prep.lastN)
		require.Len(t, output.Questions, 1)
		assert.Equal(t, "What drove NRR?", output.Questions[0].Question)
	})

	t.Run("propagates unavailable llm", func(t *testing.T) {
		ports := validPorts()
		ports.Prep = &mockPrepService{err: domain.ErrLLMUnavailable}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleQuestions(ctx, nil, QuestionsInput{Count: 2})
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})
}
