package driving

import (
	"context"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

// PrepService builds prompt context and asks the LLM for analyst questions
// and prepared responses.
type PrepService interface {
	// CompanyContext describes the latest reporting period with year-over-year changes.
	CompanyContext(ctx context.Context) (string, error)

	// CompetitiveContext lists recent competitor news and analyst ratings.
	CompetitiveContext(ctx context.Context) (string, error)

	// DocumentContext returns excerpts from the corpus relevant to topic.
	DocumentContext(ctx context.Context, topic string) (string, error)

	// GenerateQuestions asks the LLM for n anticipated analyst questions.
	GenerateQuestions(ctx context.Context, n int) ([]domain.Question, error)

	// GenerateResponse asks the LLM for a prepared answer to a question.
	GenerateResponse(ctx context.Context, question domain.Question) (*domain.Response, error)
}
