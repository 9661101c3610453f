// Package csvfile provides a MetricsSource backed by CSV files in a data
// directory, one file per feed.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.MetricsSource = (*Source)(nil)

// altNames lists older export file names accepted when <feed>.csv is absent.
var altNames = map[string][]string{
	domain.FeedCompanyMetrics: {"snowflake_ir_metrics"},
	domain.FeedPeerMetrics:    {"data_peer_financial_metrics"},
	domain.FeedNews:           {"data_peer_news_snippets"},
}

// Source reads feeds from <dir>/<feed>.csv, falling back to the export
// names in altNames. Each file is parsed once and cached; rows keep file
// order, so files are expected latest row first.
type Source struct {
	dir string

	mu    sync.Mutex
	feeds map[string][]domain.MetricsRow
}

// NewSource creates a source over dir. The directory need not exist.
func NewSource(dir string) *Source {
	return &Source{
		dir:   dir,
		feeds: make(map[string][]domain.MetricsRow),
	}
}

// Dir returns the data directory.
func (s *Source) Dir() string {
	return s.dir
}

// Path returns the file a feed is read from: <feed>.csv if present, else
// the first alternative name that exists, else <feed>.csv.
func (s *Source) Path(feed string) string {
	primary := filepath.Join(s.dir, feed+".csv")
	if fileExists(primary) {
		return primary
	}
	for _, name := range altNames[feed] {
		if alt := filepath.Join(s.dir, name+".csv"); fileExists(alt) {
			return alt
		}
	}
	return primary
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Rows returns the rows of a feed. A missing file yields no rows.
func (s *Source) Rows(ctx context.Context, feed string) ([]domain.MetricsRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if feed == "" || strings.ContainsAny(feed, `/\`) {
		return nil, fmt.Errorf("%w: feed name %q", domain.ErrInvalidInput, feed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.feeds[feed]
	if !ok {
		var err error
		rows, err = s.load(feed)
		if err != nil {
			return nil, err
		}
		s.feeds[feed] = rows
	}

	out := make([]domain.MetricsRow, len(rows))
	copy(out, rows)
	return out, nil
}

// Available returns the feeds that have a file in the data directory.
func (s *Source) Available() []string {
	var found []string
	for _, feed := range domain.AllFeeds() {
		if fileExists(s.Path(feed)) {
			found = append(found, feed)
		}
	}
	return found
}

// Reload drops cached feeds so the next read goes back to disk.
func (s *Source) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeds = make(map[string][]domain.MetricsRow)
}

func (s *Source) load(feed string) ([]domain.MetricsRow, error) {
	path := s.Path(feed)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("metrics: %s not found, skipping", path)
		return []domain.MetricsRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMetricsUnavailable, err)
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMetricsUnavailable, filepath.Base(path), err)
	}
	logger.Debug("metrics: loaded %d rows from %s", len(rows), path)
	return rows, nil
}

// parse reads a header row followed by data rows. Short rows leave the
// missing columns empty; extra cells are ignored.
func parse(r io.Reader) ([]domain.MetricsRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []domain.MetricsRow{}, nil
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}

	rows := []domain.MetricsRow{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(domain.MetricsRow, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
