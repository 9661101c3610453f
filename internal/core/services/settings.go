package services

import (
	"fmt"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyIngestMaxBytes   = "ingest.max_bytes"
	KeyIngestMaxPages   = "ingest.max_pages"
	KeyIngestMaxTables  = "ingest.max_tables"
	KeyIngestWorkers    = "ingest.workers"
	KeySearchMaxResults = "search.max_results"
	KeyCorpusBackend    = "corpus.backend"
	KeyLLMModel         = "llm.model"
	KeyLLMBaseURL       = "llm.base_url"
	KeyLLMAPIKey        = "llm.api_key"
	KeyDataDir          = "data.dir"
	KeyPrepCompany      = "prep.company"
	KeyPrepTopic        = "prep.question_topic"
)

// SettingKeys returns every recognised config key.
func SettingKeys() []string {
	return []string{
		KeyIngestMaxBytes, KeyIngestMaxPages, KeyIngestMaxTables, KeyIngestWorkers,
		KeySearchMaxResults, KeyCorpusBackend,
		KeyLLMModel, KeyLLMBaseURL, KeyLLMAPIKey,
		KeyDataDir, KeyPrepCompany, KeyPrepTopic,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Ingest: domain.IngestSettings{
			MaxBytes:  int64(s.getInt(KeyIngestMaxBytes, int(defaults.Ingest.MaxBytes))),
			MaxPages:  s.getInt(KeyIngestMaxPages, defaults.Ingest.MaxPages),
			MaxTables: s.getInt(KeyIngestMaxTables, defaults.Ingest.MaxTables),
			Workers:   s.getInt(KeyIngestWorkers, defaults.Ingest.Workers),
		},
		Search: domain.SearchSettings{
			MaxResults: s.getInt(KeySearchMaxResults, defaults.Search.MaxResults),
		},
		Corpus: domain.CorpusSettings{
			Backend: s.getBackend(defaults.Corpus.Backend),
		},
		LLM: domain.LLMSettings{
			Model:   s.getString(KeyLLMModel, defaults.LLM.Model),
			BaseURL: s.getString(KeyLLMBaseURL, defaults.LLM.BaseURL),
			APIKey:  s.configStore.GetString(KeyLLMAPIKey),
		},
		Data: domain.DataSettings{
			Dir: s.getString(KeyDataDir, defaults.Data.Dir),
		},
		Prep: domain.PrepSettings{
			Company:       s.getString(KeyPrepCompany, defaults.Prep.Company),
			QuestionTopic: s.getString(KeyPrepTopic, defaults.Prep.QuestionTopic),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyIngestMaxBytes, settings.Ingest.MaxBytes},
		{KeyIngestMaxPages, settings.Ingest.MaxPages},
		{KeyIngestMaxTables, settings.Ingest.MaxTables},
		{KeyIngestWorkers, settings.Ingest.Workers},
		{KeySearchMaxResults, settings.Search.MaxResults},
		{KeyCorpusBackend, settings.Corpus.Backend.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyDataDir, settings.Data.Dir},
		{KeyPrepCompany, settings.Prep.Company},
		{KeyPrepTopic, settings.Prep.QuestionTopic},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(KeyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Ingest.MaxBytes <= 0 {
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, KeyIngestMaxBytes)
	}
	if settings.Ingest.Workers < 1 {
		return fmt.Errorf("%w: %s must be at least 1", domain.ErrInvalidInput, KeyIngestWorkers)
	}
	if !settings.Corpus.Backend.IsValid() {
		return fmt.Errorf("%w: unknown corpus backend %q", domain.ErrInvalidInput, settings.Corpus.Backend)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getBackend keeps unknown values so Validate can report them.
func (s *SettingsService) getBackend(defaultVal domain.CorpusBackend) domain.CorpusBackend {
	val := s.configStore.GetString(KeyCorpusBackend)
	if val == "" {
		return defaultVal
	}
	return domain.CorpusBackend(val)
}
