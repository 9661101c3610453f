package domain

// SampleSize is the number of filenames reported in a Summary.
const SampleSize = 5

// Summary is an aggregate view of a corpus.
type Summary struct {
	// DocumentCount is the number of documents.
	DocumentCount int `json:"document_count"`

	// TotalWordCount is the sum of document word counts.
	TotalWordCount int `json:"total_word_count"`

	// TotalTableCount is the sum of extracted tables across documents.
	TotalTableCount int `json:"total_table_count"`

	// SampleFilenames holds the first filenames in insertion order.
	SampleFilenames []string `json:"sample_filenames"`

	// Truncated reports that more filenames exist than were sampled.
	Truncated bool `json:"truncated"`
}

// LibraryEntry describes one document for a library listing.
type LibraryEntry struct {
	Filename   string   `json:"filename"`
	MIMEType   string   `json:"mime_type"`
	WordCount  int      `json:"word_count"`
	TableCount int      `json:"table_count"`
	PageCount  int      `json:"page_count"`
	Metadata   Metadata `json:"metadata"`
	Preview    string   `json:"preview"`
}
