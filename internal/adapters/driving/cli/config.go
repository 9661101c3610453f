package cli

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/warroom/internal/adapters/driven/config/file"
	"github.com/custodia-labs/warroom/internal/adapters/driven/metrics/csvfile"
	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `View and change settings stored in config.toml.

Keys:
  ingest.max_bytes      largest accepted document, in bytes
  ingest.max_pages      pages read per document
  ingest.max_tables     tables kept per document
  ingest.workers        parallel extractions per batch
  search.max_results    default result limit
  corpus.backend        memory or sqlite
  llm.model             Anthropic model name
  llm.base_url          Anthropic API endpoint
  llm.api_key           Anthropic API key (ANTHROPIC_API_KEY overrides)
  data.dir              directory holding CSV metric feeds
  prep.company          company name used in prompts
  prep.question_topic   query used to gather context for questions`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting. When setting llm.api_key without a value the key is
read from the terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := openConfig(); err != nil {
			return err
		}
		cmd.Println(configStore.Path())
		return nil
	},
}

// intKeys hold integer values.
var intKeys = []string{
	services.KeyIngestMaxBytes,
	services.KeyIngestMaxPages,
	services.KeyIngestMaxTables,
	services.KeyIngestWorkers,
	services.KeySearchMaxResults,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// isConfigCmd reports whether cmd belongs to the config subtree. Those
// commands open the config store alone so a broken setting can be fixed.
func isConfigCmd(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

// openConfig opens the config store unless one is already bound.
func openConfig() error {
	if configStore != nil && settingsService != nil {
		return nil
	}
	dir := configDir
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
	settingsService = services.NewSettingsService(store)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := openConfig(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Max bytes: %d\n", settings.Ingest.MaxBytes)
	cmd.Printf("  Max pages: %d\n", settings.Ingest.MaxPages)
	cmd.Printf("  Max tables: %d\n", settings.Ingest.MaxTables)
	cmd.Printf("  Workers: %d\n", settings.Ingest.Workers)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Max results: %d\n", settings.Search.MaxResults)
	cmd.Printf("  Corpus: %s\n", settings.Corpus.Backend)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	apiKey := settings.LLM.APIKey
	source := "config"
	if env := os.Getenv(envAPIKey); env != "" {
		apiKey = env
		source = envAPIKey
	}
	if apiKey != "" {
		cmd.Printf("  API Key: %s (%s)\n", maskAPIKey(apiKey), source)
		cmd.Println("  Status: configured")
	} else {
		cmd.Println("  API Key: (not set)")
		cmd.Println("  Status: not configured")
	}
	cmd.Println()

	cmd.Println("[Data]")
	cmd.Printf("  Dir: %s\n", settings.Data.Dir)
	available := csvfile.NewSource(settings.Data.Dir).Available()
	for _, feed := range domain.AllFeeds() {
		status := "missing"
		if slices.Contains(available, feed) {
			status = "found"
		}
		cmd.Printf("  %s: %s\n", feed, status)
	}
	cmd.Println()

	cmd.Println("[Prep]")
	cmd.Printf("  Company: %s\n", settings.Prep.Company)
	cmd.Printf("  Question topic: %s\n", settings.Prep.QuestionTopic)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'warroom config set' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := openConfig(); err != nil {
		return err
	}
	key := args[0]
	if err := checkKey(key); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	value := settingValue(settings, key)
	if key == services.KeyLLMAPIKey && value != "" {
		value = maskAPIKey(value)
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := openConfig(); err != nil {
		return err
	}
	key := args[0]
	if err := checkKey(key); err != nil {
		return err
	}

	var raw string
	switch {
	case len(args) == 2:
		raw = strings.TrimSpace(args[1])
	case key == services.KeyLLMAPIKey:
		cmd.Print("Enter API key: ")
		raw = readPassword()
		cmd.Println()
	default:
		return fmt.Errorf("%w: value required for %s", domain.ErrInvalidInput, key)
	}

	value, err := parseValue(key, raw)
	if err != nil {
		return err
	}
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func checkKey(key string) error {
	if !slices.Contains(services.SettingKeys(), key) {
		return fmt.Errorf("%w: unknown key %q (see 'warroom config --help')", domain.ErrInvalidInput, key)
	}
	return nil
}

func parseValue(key, raw string) (any, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty value for %s", domain.ErrInvalidInput, key)
	}
	if !slices.Contains(intKeys, key) {
		return raw, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
	}
	return n, nil
}

// settingValue renders the effective value of key.
func settingValue(s *domain.AppSettings, key string) string {
	switch key {
	case services.KeyIngestMaxBytes:
		return strconv.FormatInt(s.Ingest.MaxBytes, 10)
	case services.KeyIngestMaxPages:
		return strconv.Itoa(s.Ingest.MaxPages)
	case services.KeyIngestMaxTables:
		return strconv.Itoa(s.Ingest.MaxTables)
	case services.KeyIngestWorkers:
		return strconv.Itoa(s.Ingest.Workers)
	case services.KeySearchMaxResults:
		return strconv.Itoa(s.Search.MaxResults)
	case services.KeyCorpusBackend:
		return s.Corpus.Backend.String()
	case services.KeyLLMModel:
		return s.LLM.Model
	case services.KeyLLMBaseURL:
		return s.LLM.BaseURL
	case services.KeyLLMAPIKey:
		return s.LLM.APIKey
	case services.KeyDataDir:
		return s.Data.Dir
	case services.KeyPrepCompany:
		return s.Prep.Company
	case services.KeyPrepTopic:
		return s.Prep.QuestionTopic
	default:
		return ""
	}
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
