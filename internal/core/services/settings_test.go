package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/warroom/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/warroom/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyIngestWorkers, int64(8))
	_ = store.Set(KeyIngestMaxPages, "100")
	_ = store.Set(KeySearchMaxResults, 10)
	_ = store.Set(KeyCorpusBackend, "sqlite")
	_ = store.Set(KeyLLMAPIKey, "sk-test")
	_ = store.Set(KeyDataDir, "/srv/feeds")
	_ = store.Set(KeyPrepCompany, "Acme")

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, 8, settings.Ingest.Workers)
	assert.Equal(t, 100, settings.Ingest.MaxPages)
	assert.Equal(t, 10, settings.Search.MaxResults)
	assert.Equal(t, domain.CorpusBackendSQLite, settings.Corpus.Backend)
	assert.Equal(t, "sk-test", settings.LLM.APIKey)
	assert.True(t, settings.LLM.IsConfigured())
	assert.Equal(t, "/srv/feeds", settings.Data.Dir)
	assert.Equal(t, "Acme", settings.Prep.Company)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Ingest.Workers = 2
	settings.Search.MaxResults = 7
	settings.LLM.APIKey = "sk-test"

	require.NoError(t, service.Save(&settings))

	loaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *loaded)
}

func TestSettingsService_Save_EmptyAPIKeyNotWritten(t *testing.T) {
	store := memory.NewConfigStore()
	settings := domain.DefaultAppSettings()

	require.NoError(t, NewSettingsService(store).Save(&settings))

	_, exists := store.Get(KeyLLMAPIKey)
	assert.False(t, exists)
}

type failingConfigStore struct {
	*memory.ConfigStore
	failOn string
}

func (f *failingConfigStore) Set(key string, value any) error {
	if key == f.failOn {
		return assert.AnError
	}
	return f.ConfigStore.Set(key, value)
}

func TestSettingsService_Save_Error(t *testing.T) {
	store := &failingConfigStore{ConfigStore: memory.NewConfigStore(), failOn: KeySearchMaxResults}
	settings := domain.DefaultAppSettings()

	err := NewSettingsService(store).Save(&settings)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), KeySearchMaxResults)
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr bool
	}{
		{"defaults are valid", "", nil, false},
		{"negative workers", KeyIngestWorkers, -1, true},
		{"negative max bytes", KeyIngestMaxBytes, -5, true},
		{"unknown backend", KeyCorpusBackend, "postgres", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			if tt.key != "" {
				_ = store.Set(tt.key, tt.value)
			}
			err := NewSettingsService(store).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettingKeys(t *testing.T) {
	keys := SettingKeys()
	assert.Contains(t, keys, KeyLLMAPIKey)
	assert.Len(t, keys, 12)
}
