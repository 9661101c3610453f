package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/warroom/internal/extractors/tables"
)

// Layout thresholds, relative to the font size of the following glyph.
const (
	defaultFontSize = 10.0
	cellGapFactor   = 1.5
	wordGapFactor   = 0.25
	minTableRows    = 2
	minTableColumns = 2
)

// span is a run of text placed on a line.
type span struct {
	x     float64
	width float64
	size  float64
	text  string
}

// cell is a group of spans with no wide gap between them.
type cell struct {
	x    float64
	text string
}

// groupCells splits a line into cells wherever the horizontal gap between
// glyphs is wider than cellGapFactor font sizes. Whitespace glyphs do not
// advance the line, so padding with spaces still reads as a gap.
func groupCells(line []span) []cell {
	spans := make([]span, len(line))
	copy(spans, line)
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].x < spans[j].x })

	var cells []cell
	var b strings.Builder
	var start, end float64
	open, pendingSpace := false, false

	flush := func() {
		if text := strings.TrimSpace(b.String()); text != "" {
			cells = append(cells, cell{x: start, text: text})
		}
		b.Reset()
		open, pendingSpace = false, false
	}

	for _, s := range spans {
		if strings.TrimSpace(s.text) == "" {
			pendingSpace = open
			continue
		}
		size := s.size
		if size <= 0 {
			size = defaultFontSize
		}
		gap := s.x - end
		switch {
		case !open:
		case gap > cellGapFactor*size:
			flush()
		case pendingSpace || gap > wordGapFactor*size:
			b.WriteByte(' ')
		}
		if !open {
			start, open = s.x, true
		}
		b.WriteString(s.text)
		end = s.x + s.width
		pendingSpace = false
	}
	flush()
	return cells
}

// detectTables finds runs of at least minTableRows consecutive lines that
// each hold minTableColumns or more cells.
func detectTables(lines [][]cell) [][][]*string {
	var found [][][]*string
	var run [][]cell

	flush := func() {
		if len(run) >= minTableRows {
			found = append(found, alignColumns(run))
		}
		run = nil
	}

	for _, line := range lines {
		if len(line) >= minTableColumns {
			run = append(run, line)
			continue
		}
		flush()
	}
	flush()
	return found
}

// alignColumns places each cell in the column whose anchor is nearest.
// Anchors are the cell positions of the widest row; columns a row does not
// fill stay nil.
func alignColumns(run [][]cell) [][]*string {
	widest := run[0]
	for _, line := range run[1:] {
		if len(line) > len(widest) {
			widest = line
		}
	}
	anchors := make([]float64, len(widest))
	for i, c := range widest {
		anchors[i] = c.x
	}

	rows := make([][]*string, len(run))
	for r, line := range run {
		row := make([]*string, len(anchors))
		for _, c := range line {
			col := nearest(anchors, c.x)
			if row[col] != nil {
				joined := *row[col] + " " + c.text
				row[col] = &joined
				continue
			}
			row[col] = tables.Cell(c.text)
		}
		rows[r] = row
	}
	return rows
}

func nearest(anchors []float64, x float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, a := range anchors {
		if d := math.Abs(a - x); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
