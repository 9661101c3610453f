package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

var libraryJSON bool

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List session documents with statistics and a preview",
	RunE:  runLibrary,
}

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Inspect a single session document",
}

var documentContentCmd = &cobra.Command{
	Use:   "content [filename]",
	Short: "Print document text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentTablesCmd = &cobra.Command{
	Use:   "tables [filename]",
	Short: "Print extracted tables",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentTables,
}

var documentDetailsCmd = &cobra.Command{
	Use:   "details [filename]",
	Short: "Show document metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDetails,
}

func init() {
	libraryCmd.Flags().BoolVar(&libraryJSON, "json", false, "output library as JSON")
	rootCmd.AddCommand(libraryCmd)

	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentTablesCmd)
	documentCmd.AddCommand(documentDetailsCmd)
	rootCmd.AddCommand(documentCmd)
}

func runLibrary(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	entries, err := reportService.Library(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if libraryJSON {
		if entries == nil {
			entries = []domain.LibraryEntry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal library: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		cmd.Println("No documents loaded. Use --doc or --dir to add some.")
		return nil
	}

	for i := range entries {
		e := &entries[i]
		cmd.Printf("%s\n", e.Filename)
		if e.Metadata.Title != nil {
			cmd.Printf("  Title: %s\n", *e.Metadata.Title)
		}
		cmd.Printf("  Words: %d  Tables: %d  Pages: %d\n", e.WordCount, e.TableCount, e.PageCount)
		if e.Preview != "" {
			cmd.Printf("  %s\n", truncate(e.Preview, terminalWidth()-2))
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(entries))
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	doc, err := reportService.Document(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Println(doc.FullText())
	return nil
}

func runDocumentTables(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	doc, err := reportService.Document(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if len(doc.Tables) == 0 {
		cmd.Println("No tables found.")
		return nil
	}

	for i, table := range doc.Tables {
		cmd.Printf("Table %d (page %d):\n", i+1, table.PageNumber)
		for _, row := range table.Rows {
			cells := make([]string, len(row))
			for j, cell := range row {
				if cell != nil {
					cells[j] = *cell
				}
			}
			cmd.Printf("  | %s |\n", strings.Join(cells, " | "))
		}
		cmd.Println()
	}
	return nil
}

func runDocumentDetails(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	doc, err := reportService.Document(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Filename:  %s\n", doc.Filename)
	cmd.Printf("ID:        %s\n", doc.ID)
	cmd.Printf("Type:      %s\n", doc.MIMEType)
	cmd.Printf("Pages:     %d\n", len(doc.Pages))
	cmd.Printf("Tables:    %d\n", doc.TableCount())
	cmd.Printf("Words:     %d\n", doc.WordCount())
	cmd.Printf("Title:     %s\n", valueOr(doc.Metadata.Title, "(none)"))
	cmd.Printf("Author:    %s\n", valueOr(doc.Metadata.Author, "(none)"))
	cmd.Printf("Subject:   %s\n", valueOr(doc.Metadata.Subject, "(none)"))
	cmd.Printf("Ingested:  %s\n", doc.IngestedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
