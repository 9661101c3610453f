package services

import (
	"strings"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
)

// Ensure SegmentScorer implements the interface.
var _ driven.Scorer = (*SegmentScorer)(nil)

// Excerpt assembly.
const (
	maxExcerptSegments = 3
	excerptSeparator   = ". "
	excerptSuffix      = "..."
)

// SegmentScorer scores documents by the fraction of their segments that
// contain the query, case-insensitively.
//
// Segments are the full text split on every '.', with no awareness of
// abbreviations or decimals: "$1.5M" is two segments. Blank segments are
// dropped, so trailing periods do not dilute the score.
type SegmentScorer struct{}

// NewSegmentScorer creates the default scorer.
func NewSegmentScorer() *SegmentScorer {
	return &SegmentScorer{}
}

// Score returns matches / max(segments, 1), the match count and an excerpt
// of the first matching segments. An empty query matches every segment.
func (s *SegmentScorer) Score(doc *domain.Document, query string) (float64, int, string) {
	segments := Segments(doc.FullText())
	needle := strings.ToLower(query)

	var matching []string
	for _, seg := range segments {
		if strings.Contains(strings.ToLower(seg), needle) {
			matching = append(matching, seg)
		}
	}
	if len(matching) == 0 {
		return 0, 0, ""
	}

	score := float64(len(matching)) / float64(max(len(segments), 1))

	shown := make([]string, 0, maxExcerptSegments)
	for _, seg := range matching[:min(len(matching), maxExcerptSegments)] {
		shown = append(shown, strings.TrimSpace(seg))
	}
	excerpt := strings.Join(shown, excerptSeparator) + excerptSuffix

	return score, len(matching), excerpt
}

// Segments splits text on '.' and returns the non-blank pieces as they
// appear in the text, surrounding whitespace included. A text with no
// non-blank piece yields a single empty segment so that every document
// has at least one unit to score.
func Segments(text string) []string {
	var segments []string
	for _, part := range strings.Split(text, ".") {
		if strings.TrimSpace(part) != "" {
			segments = append(segments, part)
		}
	}
	if len(segments) == 0 {
		return []string{""}
	}
	return segments
}
