package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/core/ports/driving"
	"github.com/custodia-labs/warroom/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService ranks a session's documents against free-text queries.
// It only reads corpus snapshots and is safe for concurrent use.
type SearchService struct {
	session    *Session
	scorer     driven.Scorer
	maxResults int
}

// NewSearchService creates a search service.
// A nil scorer selects the SegmentScorer; maxResults <= 0 selects the default.
func NewSearchService(session *Session, scorer driven.Scorer, maxResults int) *SearchService {
	if scorer == nil {
		scorer = NewSegmentScorer()
	}
	if maxResults <= 0 {
		maxResults = domain.DefaultMaxResults
	}
	return &SearchService{
		session:    session,
		scorer:     scorer,
		maxResults: maxResults,
	}
}

// Search scores every document, drops documents with no match, orders the
// rest by score (ties keep corpus order) and truncates to the limit.
// opts.MaxResults of 0 uses the service default; negative values mean 1.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	defer logger.Elapsed("search", time.Now())
	logger.Debug("Query: %q", query)

	limit := s.maxResults
	if opts.MaxResults != 0 {
		limit = domain.NormaliseMaxResults(opts.MaxResults)
	}

	docs, err := s.session.Corpus.Documents()
	if err != nil {
		return nil, fmt.Errorf("snapshot corpus: %w", err)
	}
	logger.Debug("Scoring %d document(s), limit %d", len(docs), limit)

	return Rank(ctx, s.scorer, docs, query, limit)
}

// Rank scores docs against query and returns at most limit results.
// It is the pure core of SearchService.
func Rank(
	ctx context.Context, scorer driven.Scorer, docs []*domain.Document, query string, limit int,
) ([]domain.SearchResult, error) {
	limit = domain.NormaliseMaxResults(limit)

	results := make([]domain.SearchResult, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, matches, excerpt := scorer.Score(doc, query)
		if matches == 0 {
			continue
		}
		results = append(results, domain.SearchResult{
			Filename:       doc.Filename,
			RelevanceScore: score,
			MatchCount:     matches,
			Excerpt:        excerpt,
			Metadata:       doc.Metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	if len(results) > limit {
		results = results[:limit]
	}
	logger.Info("Final results: %d", len(results))
	return results, nil
}
