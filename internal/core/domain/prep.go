package domain

// Question is an anticipated analyst question produced by the Q&A generator.
type Question struct {
	ID         string   `json:"id"`
	Question   string   `json:"question"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	Context    string   `json:"context"`
	DataPoints []string `json:"data_points"`
}

// Response is a prepared answer to a Question.
type Response struct {
	TalkingPoints    []string `json:"talking_points"`
	KeyMetrics       []string `json:"key_metrics"`
	ResponseText     string   `json:"response_text"`
	RiskLevel        string   `json:"risk_level"`
	FollowUpConcerns []string `json:"follow_up_concerns"`
}

// MetricsRow is one row of a tabular feed keyed by column header.
type MetricsRow map[string]string

// Feed names understood by metrics sources.
const (
	FeedCompanyMetrics = "company_metrics"
	FeedPeerMetrics    = "peer_metrics"
	FeedAnalystRatings = "analyst_ratings"
	FeedNews           = "news_snippets"
)

// AllFeeds returns every known feed name.
func AllFeeds() []string {
	return []string{FeedCompanyMetrics, FeedPeerMetrics, FeedAnalystRatings, FeedNews}
}
