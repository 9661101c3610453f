package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glyphs(x float64, size float64, text string) []span {
	out := make([]span, 0, len(text))
	w := size * 0.5
	for i, r := range text {
		out = append(out, span{x: x + float64(i)*w, width: w, size: size, text: string(r)})
	}
	return out
}

func line(parts ...[]span) []span {
	var out []span
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func texts(cells []cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.text
	}
	return out
}

func deref(row []*string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		if c == nil {
			out[i] = "<nil>"
			continue
		}
		out[i] = *c
	}
	return out
}

func TestGroupCells(t *testing.T) {
	tests := []struct {
		name     string
		line     []span
		expected []string
	}{
		{
			name:     "empty line",
			line:     nil,
			expected: nil,
		},
		{
			name:     "contiguous glyphs form one cell",
			line:     glyphs(72, 10, "Revenue"),
			expected: []string{"Revenue"},
		},
		{
			name:     "wide gap splits cells",
			line:     line(glyphs(72, 10, "Metric"), glyphs(200, 10, "Q3")),
			expected: []string{"Metric", "Q3"},
		},
		{
			name:     "small gap inserts a space",
			line:     line(glyphs(72, 10, "Total"), glyphs(72+25+4, 10, "revenue")),
			expected: []string{"Total revenue"},
		},
		{
			name:     "space glyph inserts a space",
			line:     glyphs(72, 10, "Net retention"),
			expected: []string{"Net retention"},
		},
		{
			name: "space padding still splits",
			line: line(
				glyphs(72, 10, "NRR"),
				[]span{{x: 87, width: 5, size: 10, text: " "}, {x: 92, width: 5, size: 10, text: " "}},
				glyphs(300, 10, "120%"),
			),
			expected: []string{"NRR", "120%"},
		},
		{
			name:     "unsorted spans are ordered by position",
			line:     line(glyphs(200, 10, "B"), glyphs(72, 10, "A")),
			expected: []string{"A", "B"},
		},
		{
			name:     "zero font size uses default",
			line:     line(glyphs(72, 0, "A"), glyphs(100, 0, "B")),
			expected: []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := groupCells(tt.line)
			if tt.expected == nil {
				assert.Empty(t, cells)
				return
			}
			assert.Equal(t, tt.expected, texts(cells))
		})
	}
}

func TestGroupCells_DoesNotMutateInput(t *testing.T) {
	in := line(glyphs(200, 10, "B"), glyphs(72, 10, "A"))
	first := in[0]

	groupCells(in)

	assert.Equal(t, first, in[0])
}

func TestDetectTables(t *testing.T) {
	header := []cell{{x: 72, text: "Metric"}, {x: 200, text: "Q3"}, {x: 300, text: "Q2"}}
	revenue := []cell{{x: 72, text: "Revenue"}, {x: 200, text: "900"}, {x: 300, text: "850"}}
	prose := []cell{{x: 72, text: "Revenue grew strongly."}}

	t.Run("run of multi-cell lines", func(t *testing.T) {
		found := detectTables([][]cell{prose, header, revenue, prose})

		require.Len(t, found, 1)
		require.Len(t, found[0], 2)
		assert.Equal(t, []string{"Metric", "Q3", "Q2"}, deref(found[0][0]))
		assert.Equal(t, []string{"Revenue", "900", "850"}, deref(found[0][1]))
	})

	t.Run("single multi-cell line is not a table", func(t *testing.T) {
		assert.Empty(t, detectTables([][]cell{prose, header, prose}))
	})

	t.Run("prose splits tables", func(t *testing.T) {
		found := detectTables([][]cell{header, revenue, prose, header, revenue})
		assert.Len(t, found, 2)
	})

	t.Run("table at end of page", func(t *testing.T) {
		found := detectTables([][]cell{prose, header, revenue})
		assert.Len(t, found, 1)
	})
}

func TestAlignColumns(t *testing.T) {
	t.Run("missing cells are nil", func(t *testing.T) {
		rows := alignColumns([][]cell{
			{{x: 72, text: "Metric"}, {x: 200, text: "Q3"}, {x: 300, text: "Q2"}},
			{{x: 72, text: "FCF"}, {x: 302, text: "120"}},
		})

		require.Len(t, rows, 2)
		assert.Equal(t, []string{"FCF", "<nil>", "120"}, deref(rows[1]))
	})

	t.Run("colliding cells are joined", func(t *testing.T) {
		rows := alignColumns([][]cell{
			{{x: 72, text: "A"}, {x: 200, text: "B"}},
			{{x: 72, text: "x"}, {x: 80, text: "y"}},
		})

		assert.Equal(t, []string{"x y", "<nil>"}, deref(rows[1]))
	})

	t.Run("widest row sets the anchors", func(t *testing.T) {
		rows := alignColumns([][]cell{
			{{x: 72, text: "a"}, {x: 300, text: "c"}},
			{{x: 72, text: "1"}, {x: 200, text: "2"}, {x: 300, text: "3"}},
		})

		assert.Equal(t, []string{"a", "<nil>", "c"}, deref(rows[0]))
		assert.Equal(t, []string{"1", "2", "3"}, deref(rows[1]))
	})
}

func TestNearest(t *testing.T) {
	anchors := []float64{72, 200, 300}

	assert.Equal(t, 0, nearest(anchors, 10))
	assert.Equal(t, 1, nearest(anchors, 190))
	assert.Equal(t, 2, nearest(anchors, 1000))
}
