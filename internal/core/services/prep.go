package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/core/ports/driving"
	"github.com/custodia-labs/warroom/internal/logger"
)

// Ensure PrepService implements the interface.
var _ driving.PrepService = (*PrepService)(nil)

// Prep limits.
const (
	contextDocuments   = 3
	contextNewsItems   = 5
	contextRatingItems = 5
	defaultQuestions   = 5
	questionsMaxTokens = 2000
	responseMaxTokens  = 1500
)

// Feed column names.
const (
	colFiscalQuarter = "FISCAL_QUARTER"
	colFiscalYear    = "FISCAL_YEAR"
	colPeriodEnd     = "PERIOD_END_DATE"
	colProductRev    = "PRODUCT_REVENUE_M"
	colTotalRev      = "TOTAL_REVENUE_M"
	colRPO           = "RPO_M"
	colNRR           = "NRR_PERCENT"
	colCustomers1M   = "CUSTOMERS_1M_PLUS"
	colFCF           = "FCF_IN_MILLIONS"
	colGrossMargin   = "GROSS_MARGIN_PERCENT"
	colCompany       = "COMPANY"
	colHeadline      = "HEADLINE"
	colSummary       = "SUMMARY"
	colRating        = "RATING"
	colPriceTarget   = "PRICE_TARGET"
)

// NoCompanyMetrics is the company context when fewer than two periods are loaded.
const NoCompanyMetrics = "No company metrics available"

// PrepService assembles prompt context from metrics feeds and the session
// corpus, and asks the LLM for analyst questions and prepared responses.
type PrepService struct {
	search   driving.SearchService
	metrics  driven.MetricsSource
	llm      driven.LLMService
	prompts  driven.PromptStore
	settings domain.PrepSettings
}

// NewPrepService creates a prep service.
// metrics and llm are optional; without llm, generation returns
// domain.ErrLLMUnavailable.
func NewPrepService(
	search driving.SearchService,
	metrics driven.MetricsSource,
	llm driven.LLMService,
	prompts driven.PromptStore,
	settings domain.PrepSettings,
) *PrepService {
	defaults := domain.DefaultAppSettings().Prep
	if settings.Company == "" {
		settings.Company = defaults.Company
	}
	if settings.QuestionTopic == "" {
		settings.QuestionTopic = defaults.QuestionTopic
	}
	return &PrepService{
		search:   search,
		metrics:  metrics,
		llm:      llm,
		prompts:  prompts,
		settings: settings,
	}
}

// CompanyContext describes the latest period against the one before it.
func (s *PrepService) CompanyContext(ctx context.Context) (string, error) {
	if s.metrics == nil {
		return NoCompanyMetrics, nil
	}
	rows, err := s.metrics.Rows(ctx, domain.FeedCompanyMetrics)
	if err != nil {
		return "", fmt.Errorf("load company metrics: %w", err)
	}
	if len(rows) < 2 {
		return NoCompanyMetrics, nil
	}
	latest, previous := rows[0], rows[1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s Q%s FY%s (ended %s):\n", strings.ToUpper(s.settings.Company),
		latest[colFiscalQuarter], latest[colFiscalYear], latest[colPeriodEnd])
	fmt.Fprintf(&b, "- Product Revenue: $%sM %s\n", latest[colProductRev], growth(latest, previous, colProductRev))
	fmt.Fprintf(&b, "- Total Revenue: $%sM %s\n", latest[colTotalRev], growth(latest, previous, colTotalRev))
	fmt.Fprintf(&b, "- RPO: $%sM %s\n", latest[colRPO], growth(latest, previous, colRPO))
	fmt.Fprintf(&b, "- NRR: %s%% %s\n", latest[colNRR], basisPoints(latest, previous, colNRR))
	fmt.Fprintf(&b, "- Customers >$1M: %s %s\n", latest[colCustomers1M], growth(latest, previous, colCustomers1M))
	fmt.Fprintf(&b, "- FCF: $%sM %s\n", latest[colFCF], growth(latest, previous, colFCF))
	fmt.Fprintf(&b, "- Gross Margin: %s%%", latest[colGrossMargin])
	return b.String(), nil
}

// CompetitiveContext lists the first news items and analyst ratings.
func (s *PrepService) CompetitiveContext(ctx context.Context) (string, error) {
	if s.metrics == nil {
		return "", nil
	}
	news, err := s.metrics.Rows(ctx, domain.FeedNews)
	if err != nil {
		return "", fmt.Errorf("load news: %w", err)
	}
	ratings, err := s.metrics.Rows(ctx, domain.FeedAnalystRatings)
	if err != nil {
		return "", fmt.Errorf("load analyst ratings: %w", err)
	}

	var parts []string
	if len(news) > 0 {
		parts = append(parts, "RECENT COMPETITOR NEWS:")
		for _, row := range news[:min(len(news), contextNewsItems)] {
			parts = append(parts,
				fmt.Sprintf("- %s: %s", row[colCompany], row[colHeadline]),
				"  "+row[colSummary])
		}
	}
	if len(ratings) > 0 {
		parts = append(parts, "\nRECENT ANALYST RATINGS:")
		for _, row := range ratings[:min(len(ratings), contextRatingItems)] {
			parts = append(parts,
				fmt.Sprintf("- %s: %s ($%s target)", row[colCompany], row[colRating], row[colPriceTarget]))
		}
	}
	return strings.Join(parts, "\n"), nil
}

// DocumentContext returns excerpts of the documents most relevant to topic.
// Only excerpts are included, never full document text.
func (s *PrepService) DocumentContext(ctx context.Context, topic string) (string, error) {
	if strings.TrimSpace(topic) == "" || s.search == nil {
		return "", nil
	}
	results, err := s.search.Search(ctx, topic, domain.SearchOptions{MaxResults: contextDocuments})
	if err != nil {
		return "", fmt.Errorf("search documents: %w", err)
	}
	if len(results) == 0 {
		return "", nil
	}

	parts := []string{"\nADDITIONAL CONTEXT FROM DOCUMENTS:"}
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("\nFrom %s:", r.Filename), r.Excerpt)
	}
	return strings.Join(parts, "\n"), nil
}

// GenerateQuestions asks the LLM for n anticipated analyst questions.
func (s *PrepService) GenerateQuestions(ctx context.Context, n int) ([]domain.Question, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if n <= 0 {
		n = defaultQuestions
	}

	logger.Section("Question Generation")
	template, err := s.loadPrompt(driven.PromptQuestions)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(template, s.settings.Company, n, s.buildContext(ctx, s.settings.QuestionTopic))

	reply, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: questionsMaxTokens})
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	var questions []domain.Question
	if err := decodeEnclosed(reply, '[', ']', &questions); err != nil {
		return nil, err
	}
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = "q" + strconv.Itoa(i+1)
		}
	}
	logger.Info("Generated %d question(s)", len(questions))
	return questions, nil
}

// GenerateResponse asks the LLM for a prepared answer to question.
func (s *PrepService) GenerateResponse(ctx context.Context, question domain.Question) (*domain.Response, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(question.Question) == "" {
		return nil, fmt.Errorf("%w: question text is required", domain.ErrInvalidInput)
	}

	logger.Section("Response Generation")
	template, err := s.loadPrompt(driven.PromptResponse)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(template, s.settings.Company, question.Question, s.buildContext(ctx, question.Question))

	reply, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: responseMaxTokens})
	if err != nil {
		return nil, fmt.Errorf("generate response: %w", err)
	}

	var response domain.Response
	if err := decodeEnclosed(reply, '{', '}', &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// buildContext joins the three context blocks. A failing block is logged
// and left out rather than failing generation.
func (s *PrepService) buildContext(ctx context.Context, topic string) string {
	company, err := s.CompanyContext(ctx)
	if err != nil {
		logger.Warn("Company context unavailable: %v", err)
		company = NoCompanyMetrics
	}
	competitive, err := s.CompetitiveContext(ctx)
	if err != nil {
		logger.Warn("Competitive context unavailable: %v", err)
	}
	documents, err := s.DocumentContext(ctx, topic)
	if err != nil {
		logger.Warn("Document context unavailable: %v", err)
	}
	logger.Debug("Context sizes: company=%d competitive=%d documents=%d",
		len(company), len(competitive), len(documents))
	return strings.Join([]string{company, competitive, documents}, "\n\n")
}

func (s *PrepService) loadPrompt(name string) (string, error) {
	if s.prompts == nil {
		return "", errors.New("prompt store not configured")
	}
	template, err := s.prompts.Load(name)
	if err != nil {
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	return template, nil
}

// decodeEnclosed decodes the JSON between the first open and the last
// close delimiter of reply. Models often wrap JSON in prose or fences.
func decodeEnclosed(reply string, open, closing byte, v any) error {
	start := strings.IndexByte(reply, open)
	end := strings.LastIndexByte(reply, closing)
	if start == -1 || end <= start {
		return fmt.Errorf("%w: no JSON %c...%c in reply", domain.ErrMalformedReply, open, closing)
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedReply, err)
	}
	return nil
}

// growth formats the relative change of col between two periods.
func growth(latest, previous domain.MetricsRow, col string) string {
	cur, ok1 := parseNumber(latest[col])
	prev, ok2 := parseNumber(previous[col])
	if !ok1 || !ok2 || prev == 0 {
		return "(n/a YoY)"
	}
	return fmt.Sprintf("(%+.1f%% YoY)", (cur/prev-1)*100)
}

// basisPoints formats the absolute change of a percentage column in bps.
func basisPoints(latest, previous domain.MetricsRow, col string) string {
	cur, ok1 := parseNumber(latest[col])
	prev, ok2 := parseNumber(previous[col])
	if !ok1 || !ok2 {
		return "(n/a YoY)"
	}
	return fmt.Sprintf("(%+.0f bps YoY)", (cur-prev)*100)
}

func parseNumber(s string) (float64, bool) {
	s = strings.NewReplacer(",", "", "$", "", "%", "").Replace(strings.TrimSpace(s))
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
