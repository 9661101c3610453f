package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Extract documents and report what was found",
	Long: `Extracts text, tables and metadata from files and adds them to the session.
Directories are expanded to the supported files they contain.

Supported formats: PDF, DOCX, ODT, PPTX, HTML, Markdown, plain text and CSV.
Each file is reported with its page, table and word counts, or the reason
it was rejected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output extracted documents as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	result := ingestService.IngestFiles(cmd.Context(), args)

	if ingestJSON {
		data, err := json.MarshalIndent(result.Succeeded(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
	} else {
		printBatch(cmd, result)
	}

	if len(result.Items) > 0 && len(result.Succeeded()) == 0 {
		return errors.New("ingest failed: no documents could be extracted")
	}
	return nil
}

func printBatch(cmd *cobra.Command, result domain.BatchResult) {
	for _, item := range result.Items {
		if !item.OK() {
			cmd.Printf("  ✗ %s: %v\n", item.Filename, withoutFilename(item.Err))
			continue
		}
		doc := item.Document
		cmd.Printf("  ✓ %s (%d page(s), %d table(s), %d words)\n",
			item.Filename, len(doc.Pages), doc.TableCount(), doc.WordCount())
		if doc.Metadata.Title != nil {
			cmd.Printf("      Title: %s\n", *doc.Metadata.Title)
		}
		for _, w := range item.Warnings {
			cmd.Printf("      warning: %v\n", withoutFilename(w))
		}
	}
	cmd.Println()
	cmd.Printf("Ingested %d of %d document(s)\n", len(result.Succeeded()), len(result.Items))
}

// withoutFilename drops the filename prefix an ExtractionError adds.
func withoutFilename(err error) error {
	var extErr *domain.ExtractionError
	if errors.As(err, &extErr) {
		return extErr.Err
	}
	return err
}
