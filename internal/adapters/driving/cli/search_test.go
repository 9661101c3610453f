package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Flags(t *testing.T) {
	limit := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.NotNil(t, searchCmd.Flags().Lookup("json"))
}

func TestSearchCmd_RanksDocuments(t *testing.T) {
	env := setupTestServices(t, nil)
	env.load(t, map[string]string{
		"transcript.txt": "Revenue grew. Revenue beat guidance.",
		"notes.txt":      "Revenue grew. Costs fell. Hiring slowed. Capex flat.",
		"other.txt":      "Nothing relevant here.",
	})

	out, err := runCommand(t, "search", "revenue")

	require.NoError(t, err)
	first := strings.Index(out, "transcript.txt")
	second := strings.Index(out, "notes.txt")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
	assert.NotContains(t, out, "other.txt")
}

func TestSearchCmd_NoResults(t *testing.T) {
	env := setupTestServices(t, nil)
	env.load(t, map[string]string{"notes.txt": "Costs fell."})

	out, err := runCommand(t, "search", "revenue")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSONWithLimit(t *testing.T) {
	env := setupTestServices(t, nil)
	env.load(t, map[string]string{
		"a.txt": "Revenue grew.",
		"b.txt": "Revenue grew.",
	})

	out, err := runCommand(t, "search", "--json", "-n", "1", "revenue")

	require.NoError(t, err)
	var results []domain.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Len(t, results, 1)
}

func TestSearchCmd_JSONEmptyIsArray(t *testing.T) {
	setupTestServices(t, nil)

	out, err := runCommand(t, "search", "--json", "revenue")

	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{name: "fits", input: "short text", width: 20, want: "short text"},
		{name: "collapses whitespace", input: "a\n\n  b\tc", width: 20, want: "a b c"},
		{name: "truncated", input: "abcdefghij", width: 8, want: "abcde..."},
		{name: "tiny width keeps text", input: "abcdefghij", width: 3, want: "abcdefghij"},
		{name: "runes", input: "ééééééééé", width: 6, want: "ééé..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.input, tt.width))
		})
	}
}
