package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/warroom/internal/adapters/driven/ai"
	"github.com/custodia-labs/warroom/internal/adapters/driven/config/file"
	"github.com/custodia-labs/warroom/internal/adapters/driven/metrics/csvfile"
	"github.com/custodia-labs/warroom/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/core/services"
	"github.com/custodia-labs/warroom/internal/extractors/plaintext"
)

// stubLLM replies with a fixed text.
type stubLLM struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func (s *stubLLM) ModelName() string { return "stub" }

func (s *stubLLM) Close() error { return nil }

// testEnv holds the services bound by setupTestServices.
type testEnv struct {
	dir string
	llm *stubLLM
}

// setupTestServices binds real services over a memory corpus and replaces
// bootstrap so commands use them. Pass a nil llm to leave generation disabled.
func setupTestServices(t *testing.T, llm *stubLLM) *testEnv {
	t.Helper()

	dir := t.TempDir()
	store := memory.NewConfigStore()
	settingsSvc := services.NewSettingsService(store)
	settings := domain.DefaultAppSettings()
	settings.Data.Dir = filepath.Join(dir, "data")

	session = services.NewSession(memory.NewCorpus())
	registry := services.NewExtractorRegistry(plaintext.New())
	search := services.NewSearchService(session, services.NewSegmentScorer(), 0)
	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	require.NoError(t, err)
	metricsSource = csvfile.NewSource(settings.Data.Dir)

	aiResult = &ai.InitResult{PromptStore: prompts}
	var llmService driven.LLMService
	if llm != nil {
		llmService = llm
		aiResult.LLMService = llm
	}

	configStore = store
	settingsService = settingsSvc
	ingestService = services.NewIngestService(session, registry, settings.Ingest)
	searchService = search
	reportService = services.NewReportService(session)
	prepService = services.NewPrepService(search, metricsSource, llmService, prompts, settings.Prep)

	originalBootstrap := bootstrap
	bootstrap = func(context.Context, string) error { return nil }

	t.Cleanup(func() {
		bootstrap = originalBootstrap
		configStore = nil
		settingsService = nil
		ingestService = nil
		searchService = nil
		reportService = nil
		prepService = nil
		metricsSource = nil
		aiResult = nil
		session = nil
		docPaths = nil
		dirPaths = nil
		envFile = ".env"
	})

	return &testEnv{dir: dir, llm: llm}
}

// writeFile creates a file under the env directory and returns its path.
func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// load ingests files into the test session.
func (e *testEnv) load(t *testing.T, files map[string]string) {
	t.Helper()
	var paths []string
	for name, content := range files {
		paths = append(paths, e.writeFile(t, name, content))
	}
	result := ingestService.IngestFiles(context.Background(), paths)
	require.Len(t, result.Failed(), 0)
}

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--env-file", ""}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores flag variables left over from earlier executions.
func resetFlags() {
	verbose = false
	docPaths = nil
	dirPaths = nil
	ingestJSON = false
	searchLimit = 0
	searchJSON = false
	summaryJSON = false
	libraryJSON = false
	questionsCount = 5
	questionsJSON = false
	respondCategory = ""
	respondJSON = false
}
