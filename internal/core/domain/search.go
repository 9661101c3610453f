package domain

// DefaultMaxResults is the result limit used when none is configured.
const DefaultMaxResults = 5

// SearchOptions configures a search query.
type SearchOptions struct {
	// MaxResults is the maximum number of results.
	// Values below 1 are normalised to 1.
	MaxResults int
}

// SearchResult represents a single ranked document for a query.
// Results are recomputed per query and never stored.
type SearchResult struct {
	// Filename identifies the matched document.
	Filename string `json:"filename"`

	// RelevanceScore is the fraction of the document's segments that match, in [0,1].
	RelevanceScore float64 `json:"relevance_score"`

	// MatchCount is the number of matching segments.
	MatchCount int `json:"match_count"`

	// Excerpt is the first matching segments joined for display.
	Excerpt string `json:"excerpt"`

	// Metadata is the matched document's metadata.
	Metadata Metadata `json:"metadata"`
}

// NormaliseMaxResults clamps a requested limit to at least 1.
func NormaliseMaxResults(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
