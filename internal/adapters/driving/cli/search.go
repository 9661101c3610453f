package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

// defaultTermWidth is used when stdout is not a terminal.
const defaultTermWidth = 100

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search session documents",
	Long: `Ranks the session's documents against a free-text query.

Each document is split into sentences on '.', and scored by the fraction of
sentences containing the query (case-insensitive). Documents with no
matching sentence are omitted. Ties keep load order.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from search.max_results)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		MaxResults: searchLimit,
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	if results == nil {
		results = []domain.SearchResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	width := terminalWidth() - 6

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] filename (score, matches)
		cmd.Printf("  [%d] %s (%.2f, %d match(es))\n",
			i+1, results[i].Filename, results[i].RelevanceScore, results[i].MatchCount)
		if title := results[i].Metadata.Title; title != nil {
			cmd.Printf("      Title: %s\n", *title)
		}
		if results[i].Excerpt != "" {
			cmd.Printf("      %s\n", truncate(results[i].Excerpt, width))
		}
		cmd.Println()
	}

	return nil
}

// terminalWidth returns the width of stdout, or a default when it is not
// a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultTermWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultTermWidth
	}
	return w
}

// truncate shortens s to at most width runes, collapsing whitespace.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width < 4 || utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}
