package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/warroom/internal/adapters/driven/ai"
	"github.com/custodia-labs/warroom/internal/adapters/driven/config/file"
	"github.com/custodia-labs/warroom/internal/adapters/driven/metrics/csvfile"
	"github.com/custodia-labs/warroom/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/warroom/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/core/ports/driving"
	"github.com/custodia-labs/warroom/internal/core/services"
	"github.com/custodia-labs/warroom/internal/extractors"
	"github.com/custodia-labs/warroom/internal/logger"
)

// envAPIKey overrides llm.api_key when set.
//
//nolint:gosec // G101: environment variable name, not a credential.
const envAPIKey = "ANTHROPIC_API_KEY"

// Services used by commands. They are bound to one session per invocation.
var (
	configStore     driven.ConfigStore
	settingsService driving.SettingsService
	ingestService   driving.IngestService
	searchService   driving.SearchService
	reportService   driving.ReportService
	prepService     driving.PrepService
	metricsSource   *csvfile.Source
	aiResult        *ai.InitResult
	session         *services.Session
	closers         []func() error
)

// bootstrap wires the services. Tests replace it.
var bootstrap = buildServices

// buildServices loads configuration and creates the session and services.
func buildServices(_ context.Context, dir string) error {
	if dir == "" {
		var err error
		dir, err = file.DefaultConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
	}

	store, err := openConfigStore(dir)
	if err != nil {
		return err
	}
	configStore = store

	settingsSvc := services.NewSettingsService(store)
	settingsService = settingsSvc
	if err := settingsSvc.Validate(); err != nil {
		return fmt.Errorf("invalid settings in %s: %w", store.Path(), err)
	}
	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if key := os.Getenv(envAPIKey); key != "" {
		settings.LLM.APIKey = key
	}

	session = services.NewSession(nil)
	corpus, err := newCorpus(settings, dir, session.ID)
	if err != nil {
		return err
	}
	session.Corpus = corpus
	closers = append(closers, session.Close)
	logger.Debug("session %s (%s corpus)", session.ID, settings.Corpus.Backend)

	registry := services.NewExtractorRegistry(extractors.All()...)
	search := services.NewSearchService(session, services.NewSegmentScorer(), settings.Search.MaxResults)

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}
	aiResult = ai.Init(&settings.LLM, prompts)
	closers = append(closers, func() error { aiResult.Close(); return nil })

	metricsSource = csvfile.NewSource(settings.Data.Dir)

	ingestService = services.NewIngestService(session, registry, settings.Ingest)
	searchService = search
	reportService = services.NewReportService(session)
	prepService = services.NewPrepService(search, metricsSource, aiResult.LLMService, prompts, settings.Prep)
	return nil
}

// openConfigStore opens config.toml in dir, or an empty in-memory store
// with --no-config.
func openConfigStore(dir string) (driven.ConfigStore, error) {
	if noConfig {
		logger.Debug("config: using defaults (--no-config)")
		return memory.NewConfigStore(), nil
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return store, nil
}

// newCorpus creates the configured corpus backend.
func newCorpus(settings *domain.AppSettings, dir, sessionID string) (driven.Corpus, error) {
	switch settings.Corpus.Backend {
	case domain.CorpusBackendSQLite:
		store, err := sqlite.NewStore(filepath.Join(dir, "data"))
		if err != nil {
			return nil, fmt.Errorf("open corpus store: %w", err)
		}
		// The store outlives the session corpus; closers run in reverse.
		closers = append(closers, store.Close)
		return store.Corpus(sessionID), nil
	default:
		return memory.NewCorpus(), nil
	}
}

// closeServices releases resources in reverse creation order.
func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("close: %v", err)
		}
	}
	closers = nil
}
