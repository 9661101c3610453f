package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarise the session corpus",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output summary as JSON")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	summary, err := reportService.Summary(cmd.Context())
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}

	if summaryJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents: %d\n", summary.DocumentCount)
	cmd.Printf("Words:     %d\n", summary.TotalWordCount)
	cmd.Printf("Tables:    %d\n", summary.TotalTableCount)
	if len(summary.SampleFilenames) > 0 {
		files := strings.Join(summary.SampleFilenames, ", ")
		if summary.Truncated {
			files += ", ..."
		}
		cmd.Printf("Files:     %s\n", files)
	}
	return nil
}
