// Package cli provides the cobra command tree for warroom.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/warroom/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	configDir string
	noConfig  bool
	docPaths  []string
	dirPaths  []string
	envFile   string
)

var rootCmd = &cobra.Command{
	Use:   "warroom",
	Short: "Earnings-call prep: document ingestion and search",
	Long: `warroom loads filings, transcripts and research notes into a session,
extracts their text and tables, and answers free-text searches over them.

With an Anthropic API key it also anticipates analyst questions and drafts
responses from the session's documents and CSV metric feeds.

Documents passed with --doc or --dir are loaded before the command runs.
The session lasts for one invocation; use 'serve' or 'mcp serve' to keep
a session open.`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.warroom)")
	flags.BoolVar(&noConfig, "no-config", false, "ignore config.toml and use defaults plus the environment")
	flags.StringArrayVar(&docPaths, "doc", nil, "document to load into the session (repeatable)")
	flags.StringArrayVar(&dirPaths, "dir", nil, "directory of documents to load into the session (repeatable)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading settings")
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeServices()

	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by 'warroom version'.
func SetVersion(v string) {
	version = v
}

func persistentPreRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if skipBootstrap(cmd) {
		return nil
	}

	if err := loadEnv(envFile); err != nil {
		return err
	}
	if isConfigCmd(cmd) {
		return nil
	}

	if err := bootstrap(cmd.Context(), configDir); err != nil {
		return err
	}

	return loadSessionDocuments(cmd)
}

// skipBootstrap reports whether cmd runs without services.
func skipBootstrap(cmd *cobra.Command) bool {
	return cmd == versionCmd || cmd.Name() == "help" || cmd.Name() == "completion"
}

// loadEnv reads a dotenv file. A missing default file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("no env file at %s", path)
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	logger.Debug("loaded env file %s", path)
	return nil
}

// loadSessionDocuments ingests --doc and --dir paths into the session.
func loadSessionDocuments(cmd *cobra.Command) error {
	paths := append(append([]string{}, docPaths...), dirPaths...)
	if len(paths) == 0 {
		return nil
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	result := ingestService.IngestFiles(cmd.Context(), paths)
	for _, item := range result.Failed() {
		cmd.PrintErrf("warning: %v\n", item.Err)
	}
	logger.Info("Loaded %d of %d document(s)", len(result.Succeeded()), len(result.Items))
	return nil
}
