package domain

// Default extraction bounds.
const (
	DefaultMaxBytes  int64 = 50 << 20
	DefaultMaxPages        = 2000
	DefaultMaxTables       = 500
	DefaultWorkers         = 4
)

// Default LLM endpoint settings.
const (
	DefaultLLMModel   = "claude-sonnet-4-20250514"
	DefaultLLMBaseURL = "https://api.anthropic.com"
)

// CorpusBackend selects the Corpus implementation for a session.
type CorpusBackend string

// Available corpus backends.
const (
	// CorpusBackendMemory keeps documents in process memory.
	CorpusBackendMemory CorpusBackend = "memory"

	// CorpusBackendSQLite keeps documents in a session-scoped SQLite file.
	CorpusBackendSQLite CorpusBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b CorpusBackend) IsValid() bool {
	switch b {
	case CorpusBackendMemory, CorpusBackendSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CorpusBackend) String() string {
	return string(b)
}

// IngestSettings bounds extraction work per document and per batch.
type IngestSettings struct {
	// MaxBytes is the largest accepted input. Larger inputs fail with ErrLimitExceeded.
	MaxBytes int64

	// MaxPages caps the pages read from one document; the rest are skipped.
	MaxPages int

	// MaxTables caps the tables kept from one document.
	MaxTables int

	// Workers is the number of parallel extractions in a batch.
	Workers int
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// MaxResults is the default result limit.
	MaxResults int
}

// CorpusSettings selects corpus storage.
type CorpusSettings struct {
	// Backend is the corpus implementation.
	Backend CorpusBackend
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key. Empty disables question and response generation.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.APIKey != "" && l.Model != ""
}

// DataSettings locates tabular feeds.
type DataSettings struct {
	// Dir is the directory holding the CSV feeds.
	Dir string
}

// PrepSettings configures earnings-call preparation.
type PrepSettings struct {
	// Company is the name used in prompts.
	Company string

	// QuestionTopic is the query used to pull document context for question generation.
	QuestionTopic string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Ingest IngestSettings
	Search SearchSettings
	Corpus CorpusSettings
	LLM    LLMSettings
	Data   DataSettings
	Prep   PrepSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured until an API key is supplied.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Ingest: IngestSettings{
			MaxBytes:  DefaultMaxBytes,
			MaxPages:  DefaultMaxPages,
			MaxTables: DefaultMaxTables,
			Workers:   DefaultWorkers,
		},
		Search: SearchSettings{
			MaxResults: DefaultMaxResults,
		},
		Corpus: CorpusSettings{
			Backend: CorpusBackendMemory,
		},
		LLM: LLMSettings{
			Model:   DefaultLLMModel,
			BaseURL: DefaultLLMBaseURL,
		},
		Data: DataSettings{
			Dir: "./data",
		},
		Prep: PrepSettings{
			Company:       "the company",
			QuestionTopic: "NRR consumption AI competitive",
		},
	}
}
