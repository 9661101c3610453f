package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

// defaultQuestions is the number of questions generated when none is requested.
const defaultQuestions = 5

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"free-text query matched against sentences of each document"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default from settings)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Filename       string  `json:"filename"`
	Title          string  `json:"title,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
	MatchCount     int     `json:"match_count"`
	Excerpt        string  `json:"excerpt,omitempty"`
}

// SummaryInput is the (empty) input schema for the summary tool.
type SummaryInput struct{}

// IngestFileInput is the input schema for the ingest_file tool.
type IngestFileInput struct {
	Path string `json:"path" jsonschema:"path of a file or directory readable by the server"`
}

// IngestFileOutput reports the outcome for each file.
type IngestFileOutput struct {
	Items     []IngestItemOutput `json:"items"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
}

// IngestItemOutput is the outcome for one file.
type IngestItemOutput struct {
	Filename   string   `json:"filename"`
	OK         bool     `json:"ok"`
	Error      string   `json:"error,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	WordCount  int      `json:"word_count,omitempty"`
	PageCount  int      `json:"page_count,omitempty"`
	TableCount int      `json:"table_count,omitempty"`
}

// QuestionsInput is the input schema for the generate_questions tool.
type QuestionsInput struct {
	Count int `json:"count,omitempty" jsonschema:"number of questions to generate (default 5)"`
}

// QuestionsOutput holds generated analyst questions.
type QuestionsOutput struct {
	Questions []domain.Question `json:"questions"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the documents loaded into this session",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summary",
		Description: "Summarise the session corpus: document, word and table counts",
	}, s.handleSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_file",
		Description: "Extract a file (or every supported file in a directory) and add it to the session",
	}, s.handleIngestFile)

	if s.ports.Prep != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "generate_questions",
			Description: "Anticipate analyst questions for the earnings call from metrics and documents",
		}, s.handleQuestions)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{MaxResults: input.Limit}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		title := ""
		if results[i].Metadata.Title != nil {
			title = *results[i].Metadata.Title
		}
		output.Results[i] = SearchResultOutput{
			Filename:       results[i].Filename,
			Title:          title,
			RelevanceScore: results[i].RelevanceScore,
			MatchCount:     results[i].MatchCount,
			Excerpt:        results[i].Excerpt,
		}
	}

	return nil, output, nil
}

// handleSummary handles the summary tool invocation.
func (s *Server) handleSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ SummaryInput,
) (*mcp.CallToolResult, domain.Summary, error) {
	summary, err := s.ports.Report.Summary(ctx)
	if err != nil {
		return nil, domain.Summary{}, err
	}
	return nil, *summary, nil
}

// handleIngestFile handles the ingest_file tool invocation.
func (s *Server) handleIngestFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestFileInput,
) (*mcp.CallToolResult, IngestFileOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestFileOutput{}, ErrIngestDisabled
	}
	if input.Path == "" {
		return nil, IngestFileOutput{}, domain.ErrInvalidInput
	}

	result := s.ports.Ingest.IngestFiles(ctx, []string{input.Path})

	output := IngestFileOutput{Items: make([]IngestItemOutput, len(result.Items))}
	for i, item := range result.Items {
		out := IngestItemOutput{Filename: item.Filename, OK: item.OK()}
		for _, w := range item.Warnings {
			out.Warnings = append(out.Warnings, w.Error())
		}
		if item.OK() {
			out.WordCount = item.Document.WordCount()
			out.PageCount = len(item.Document.Pages)
			out.TableCount = item.Document.TableCount()
			output.Succeeded++
		} else {
			if item.Err != nil {
				out.Error = item.Err.Error()
			}
			output.Failed++
		}
		output.Items[i] = out
	}

	return nil, output, nil
}

// handleQuestions handles the generate_questions tool invocation.
func (s *Server) handleQuestions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuestionsInput,
) (*mcp.CallToolResult, QuestionsOutput, error) {
	n := input.Count
	if n <= 0 {
		n = defaultQuestions
	}
	questions, err := s.ports.Prep.GenerateQuestions(ctx, n)
	if err != nil {
		return nil, QuestionsOutput{}, err
	}
	return nil, QuestionsOutput{Questions: questions}, nil
}
