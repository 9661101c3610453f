package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

func companyFeeds() map[string][]domain.MetricsRow {
	return map[string][]domain.MetricsRow{
		domain.FeedCompanyMetrics: {
			{
				"FISCAL_QUARTER": "3", "FISCAL_YEAR": "2026", "PERIOD_END_DATE": "2025-10-31",
				"PRODUCT_REVENUE_M": "1100", "TOTAL_REVENUE_M": "1200", "RPO_M": "6000",
				"NRR_PERCENT": "125", "CUSTOMERS_1M_PLUS": "600", "FCF_IN_MILLIONS": "110",
				"GROSS_MARGIN_PERCENT": "75",
			},
			{
				"FISCAL_QUARTER": "3", "FISCAL_YEAR": "2025", "PERIOD_END_DATE": "2024-10-31",
				"PRODUCT_REVENUE_M": "1000", "TOTAL_REVENUE_M": "1000", "RPO_M": "5000",
				"NRR_PERCENT": "127", "CUSTOMERS_1M_PLUS": "500", "FCF_IN_MILLIONS": "100",
				"GROSS_MARGIN_PERCENT": "74",
			},
		},
		domain.FeedNews: {
			{"COMPANY": "MongoDB", "HEADLINE": "Atlas grows", "SUMMARY": "Strong quarter."},
		},
		domain.FeedAnalystRatings: {
			{"COMPANY": "Acme", "RATING": "Buy", "PRICE_TARGET": "250"},
		},
	}
}

func newTestPrep(t *testing.T, llm *stubLLM, metrics *stubMetrics) (*PrepService, *Session) {
	t.Helper()
	session := newTestSession()
	service := NewPrepService(NewSearchService(session, nil, 0), nil, nil,
		defaultStubPrompts(), domain.PrepSettings{Company: "Acme"})
	// Typed nils must not become non-nil interfaces.
	if llm != nil {
		service.llm = llm
	}
	if metrics != nil {
		service.metrics = metrics
	}
	return service, session
}

func TestPrepService_CompanyContext(t *testing.T) {
	service, _ := newTestPrep(t, nil, &stubMetrics{feeds: companyFeeds()})

	text, err := service.CompanyContext(context.Background())

	require.NoError(t, err)
	assert.Contains(t, text, "ACME Q3 FY2026 (ended 2025-10-31):")
	assert.Contains(t, text, "- Product Revenue: $1100M (+10.0% YoY)")
	assert.Contains(t, text, "- Total Revenue: $1200M (+20.0% YoY)")
	assert.Contains(t, text, "- NRR: 125% (-200 bps YoY)")
	assert.Contains(t, text, "- Customers >$1M: 600 (+20.0% YoY)")
	assert.Contains(t, text, "- Gross Margin: 75%")
}

func TestPrepService_CompanyContext_NotEnoughRows(t *testing.T) {
	feeds := companyFeeds()
	feeds[domain.FeedCompanyMetrics] = feeds[domain.FeedCompanyMetrics][:1]

	service, _ := newTestPrep(t, nil, &stubMetrics{feeds: feeds})
	text, err := service.CompanyContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoCompanyMetrics, text)

	noMetrics, _ := newTestPrep(t, nil, nil)
	text, err = noMetrics.CompanyContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoCompanyMetrics, text)
}

func TestPrepService_CompanyContext_Error(t *testing.T) {
	service, _ := newTestPrep(t, nil, &stubMetrics{err: assert.AnError})
	_, err := service.CompanyContext(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPrepService_CompetitiveContext(t *testing.T) {
	service, _ := newTestPrep(t, nil, &stubMetrics{feeds: companyFeeds()})

	text, err := service.CompetitiveContext(context.Background())

	require.NoError(t, err)
	assert.Equal(t,
		"RECENT COMPETITOR NEWS:\n- MongoDB: Atlas grows\n  Strong quarter.\n\nRECENT ANALYST RATINGS:\n- Acme: Buy ($250 target)",
		text)
}

func TestPrepService_DocumentContext(t *testing.T) {
	service, session := newTestPrep(t, nil, nil)

	text, err := service.DocumentContext(context.Background(), "grew")
	require.NoError(t, err)
	assert.Empty(t, text)

	seedCorpus(t, session, map[string]string{
		"a.pdf": "Revenue grew. NRR declined. AI demand grew.",
		"b.pdf": "Nothing to see.",
	}, "a.pdf", "b.pdf")

	text, err = service.DocumentContext(context.Background(), "grew")
	require.NoError(t, err)
	assert.Equal(t, "\nADDITIONAL CONTEXT FROM DOCUMENTS:\n\nFrom a.pdf:\nRevenue grew. AI demand grew...", text)

	text, err = service.DocumentContext(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestPrepService_GenerateQuestions(t *testing.T) {
	llm := &stubLLM{reply: "Here you go:\n```json\n[" +
		`{"id":"q1","question":"Why did NRR fall?","category":"Customer Trends","difficulty":"Hard",` +
		`"context":"NRR down","data_points":["NRR 125%"]},` +
		`{"question":"What about AI?","category":"AI Strategy","difficulty":"Very Hard"}` +
		"]\n```"}
	service, session := newTestPrep(t, llm, &stubMetrics{feeds: companyFeeds()})
	seedCorpus(t, session, map[string]string{"call.pdf": "AI workloads are competitive."}, "call.pdf")

	questions, err := service.GenerateQuestions(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, []string{"NRR 125%"}, questions[0].DataPoints)
	assert.Equal(t, "q2", questions[1].ID)

	assert.Contains(t, llm.lastPrompt, "company=Acme n=2")
	assert.Contains(t, llm.lastPrompt, "ACME Q3 FY2026")
	assert.Contains(t, llm.lastPrompt, "RECENT COMPETITOR NEWS:")
	assert.Equal(t, 2000, llm.lastOpts.MaxTokens)
}

func TestPrepService_GenerateQuestions_DefaultCount(t *testing.T) {
	llm := &stubLLM{reply: "[]"}
	service, _ := newTestPrep(t, llm, nil)

	_, err := service.GenerateQuestions(context.Background(), 0)

	require.NoError(t, err)
	assert.Contains(t, llm.lastPrompt, "n=5")
}

func TestPrepService_GenerateQuestions_Errors(t *testing.T) {
	tests := []struct {
		name     string
		llm      *stubLLM
		expected error
	}{
		{"no llm", nil, domain.ErrLLMUnavailable},
		{"llm failure", &stubLLM{err: assert.AnError}, assert.AnError},
		{"no json", &stubLLM{reply: "I cannot help with that."}, domain.ErrMalformedReply},
		{"bad json", &stubLLM{reply: "[{not json}]"}, domain.ErrMalformedReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestPrep(t, tt.llm, nil)
			_, err := service.GenerateQuestions(context.Background(), 3)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestPrepService_GenerateResponse(t *testing.T) {
	llm := &stubLLM{reply: `Sure. {"talking_points":["a","b"],"key_metrics":["NRR 125%"],` +
		`"response_text":"We remain confident.","risk_level":"Medium","follow_up_concerns":["pricing"]}`}
	service, session := newTestPrep(t, llm, nil)
	seedCorpus(t, session, map[string]string{"call.pdf": "NRR fell. Consumption recovered."}, "call.pdf")

	response, err := service.GenerateResponse(context.Background(), domain.Question{Question: "NRR"})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, response.TalkingPoints)
	assert.Equal(t, "Medium", response.RiskLevel)
	assert.Equal(t, "We remain confident.", response.ResponseText)
	assert.Contains(t, llm.lastPrompt, "q=NRR")
	assert.Contains(t, llm.lastPrompt, "From call.pdf:")
	assert.Equal(t, 1500, llm.lastOpts.MaxTokens)
}

func TestPrepService_GenerateResponse_Errors(t *testing.T) {
	service, _ := newTestPrep(t, nil, nil)
	_, err := service.GenerateResponse(context.Background(), domain.Question{Question: "x"})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	service, _ = newTestPrep(t, &stubLLM{reply: "{}"}, nil)
	_, err = service.GenerateResponse(context.Background(), domain.Question{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrepService_MissingPromptStore(t *testing.T) {
	session := newTestSession()
	service := NewPrepService(NewSearchService(session, nil, 0), nil, &stubLLM{reply: "[]"}, nil, domain.PrepSettings{})

	_, err := service.GenerateQuestions(context.Background(), 1)
	assert.Error(t, err)
}
