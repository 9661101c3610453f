// Package tables holds helpers shared by extractors that emit tables.
package tables

import (
	"strings"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

// Cell returns a pointer to the trimmed cell text.
func Cell(s string) *string {
	s = strings.TrimSpace(s)
	return &s
}

// Row builds a row of present cells.
func Row(cells ...string) []*string {
	row := make([]*string, len(cells))
	for i, c := range cells {
		row[i] = Cell(c)
	}
	return row
}

// Rectangular pads every row with missing (nil) cells to the width of the
// widest row, so a table of R rows and C columns is R rows of C cells.
func Rectangular(rows [][]*string) [][]*string {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	out := make([][]*string, len(rows))
	for i, row := range rows {
		padded := make([]*string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

// Collector accumulates tables up to a limit. A limit of 0 is unbounded.
type Collector struct {
	limit   int
	tables  []domain.ExtractedTable
	dropped int
}

// NewCollector creates a collector keeping at most limit tables.
func NewCollector(limit int) *Collector {
	return &Collector{limit: limit}
}

// Add records a table found on page. Tables without rows are ignored.
func (c *Collector) Add(page int, rows [][]*string) {
	if len(rows) == 0 {
		return
	}
	if c.limit > 0 && len(c.tables) >= c.limit {
		c.dropped++
		return
	}
	c.tables = append(c.tables, domain.ExtractedTable{
		PageNumber: page,
		Rows:       Rectangular(rows),
	})
}

// Tables returns the kept tables in the order they were added.
func (c *Collector) Tables() []domain.ExtractedTable {
	return c.tables
}

// Dropped returns how many tables were discarded by the limit.
func (c *Collector) Dropped() int {
	return c.dropped
}
