package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
	"github.com/custodia-labs/warroom/internal/core/ports/driving"
	"github.com/custodia-labs/warroom/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService extracts raw documents and commits them to a session's corpus.
//
// Extraction runs in parallel; commits are serialised so the corpus only
// ever has one writer and documents become visible fully built.
type IngestService struct {
	session  *Session
	registry driven.ExtractorRegistry
	limits   domain.IngestSettings

	// commitMu serialises corpus writes across concurrent batches.
	commitMu sync.Mutex
	now      func() time.Time
}

// NewIngestService creates an ingest service bound to a session.
// Zero-valued limits fall back to the defaults.
func NewIngestService(
	session *Session,
	registry driven.ExtractorRegistry,
	limits domain.IngestSettings,
) *IngestService {
	defaults := domain.DefaultAppSettings().Ingest
	if limits.MaxBytes <= 0 {
		limits.MaxBytes = defaults.MaxBytes
	}
	if limits.MaxPages <= 0 {
		limits.MaxPages = defaults.MaxPages
	}
	if limits.MaxTables <= 0 {
		limits.MaxTables = defaults.MaxTables
	}
	if limits.Workers <= 0 {
		limits.Workers = defaults.Workers
	}
	return &IngestService{
		session:  session,
		registry: registry,
		limits:   limits,
		now:      time.Now,
	}
}

// Ingest extracts and adds a single document.
func (s *IngestService) Ingest(ctx context.Context, raw domain.RawDocument) (*domain.Document, []error, error) {
	item := s.IngestBatch(ctx, []domain.RawDocument{raw}).Items[0]
	return item.Document, item.Warnings, item.Err
}

// IngestBatch extracts documents on a bounded worker pool, then commits
// the successful ones in input order. A failing input never affects the others.
func (s *IngestService) IngestBatch(ctx context.Context, raws []domain.RawDocument) domain.BatchResult {
	logger.Section("Ingestion")
	defer logger.Elapsed("ingestion", time.Now())
	logger.Debug("Batch of %d document(s), %d worker(s)", len(raws), s.limits.Workers)

	items := make([]domain.BatchItem, len(raws))

	var g errgroup.Group
	g.SetLimit(s.limits.Workers)
	for i := range raws {
		g.Go(func() error {
			items[i] = s.extract(ctx, &raws[i])
			return nil
		})
	}
	_ = g.Wait()

	s.commit(items)

	result := domain.BatchResult{Items: items}
	logger.Info("Ingested %d of %d document(s)", len(result.Succeeded()), len(items))
	return result
}

// IngestFiles reads files from disk and ingests them as one batch.
// Directories are walked for files with a supported type; hidden entries
// are skipped. Unreadable paths are reported as failed items.
func (s *IngestService) IngestFiles(ctx context.Context, paths []string) domain.BatchResult {
	supported := make(map[string]bool)
	for _, t := range s.registry.SupportedMIMETypes() {
		supported[t] = true
	}

	var files []string
	var failures []domain.BatchItem
	for _, path := range paths {
		expanded, err := expandPath(path, supported)
		if err != nil {
			failures = append(failures, domain.BatchItem{
				Filename: filepath.Base(path),
				Err:      domain.NewExtractionError(filepath.Base(path), err),
			})
			continue
		}
		files = append(files, expanded...)
	}

	raws := make([]domain.RawDocument, 0, len(files))
	for _, path := range files {
		raw, err := s.readFile(path)
		if err != nil {
			failures = append(failures, domain.BatchItem{
				Filename: filepath.Base(path),
				Err:      domain.NewExtractionError(filepath.Base(path), err),
			})
			continue
		}
		raws = append(raws, raw)
	}

	result := s.IngestBatch(ctx, raws)
	result.Items = append(result.Items, failures...)
	return result
}

// SupportedMIMETypes returns the MIME types that can be ingested.
func (s *IngestService) SupportedMIMETypes() []string {
	return s.registry.SupportedMIMETypes()
}

// extract runs the registry for one input and finalises the document.
// It never touches the corpus.
func (s *IngestService) extract(ctx context.Context, in *domain.RawDocument) (item domain.BatchItem) {
	raw := *in
	item.Filename = raw.Filename

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Extractor panicked on %s: %v", raw.Filename, r)
			item = domain.BatchItem{
				Filename: raw.Filename,
				Err:      domain.NewExtractionError(raw.Filename, fmt.Errorf("%w: %v", domain.ErrUnreadable, r)),
			}
		}
	}()

	fail := func(err error) domain.BatchItem {
		logger.Warn("Rejected %s: %v", raw.Filename, err)
		item.Err = domain.NewExtractionError(raw.Filename, err)
		return item
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if strings.TrimSpace(raw.Filename) == "" {
		return fail(fmt.Errorf("%w: filename is required", domain.ErrInvalidInput))
	}
	if int64(len(raw.Content)) > s.limits.MaxBytes {
		return fail(fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrLimitExceeded, len(raw.Content), s.limits.MaxBytes))
	}
	if raw.MIMEType == "" {
		raw.MIMEType = DetectMIMEType(raw.Filename)
	}

	logger.Debug("Extracting %s (%s, %d bytes)", raw.Filename, raw.MIMEType, len(raw.Content))
	res, err := s.registry.Extract(ctx, &raw, driven.Limits{
		MaxPages:  s.limits.MaxPages,
		MaxTables: s.limits.MaxTables,
	})
	if err != nil {
		return fail(err)
	}

	doc := res.Document
	doc.Filename = raw.Filename
	doc.MIMEType = raw.MIMEType
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.IngestedAt = s.now()
	if len(doc.Pages) > s.limits.MaxPages {
		doc.Pages = doc.Pages[:s.limits.MaxPages]
	}
	if len(doc.Tables) > s.limits.MaxTables {
		doc.Tables = doc.Tables[:s.limits.MaxTables]
	}

	warnings := res.Warnings
	if doc.IsEmpty() && !containsErr(warnings, domain.ErrEmpty) {
		warnings = append(warnings, domain.ErrEmpty)
	}
	for _, w := range warnings {
		logger.Warn("%s: %v", raw.Filename, w)
		item.Warnings = append(item.Warnings, domain.NewExtractionError(raw.Filename, w))
	}

	logger.Debug("Extracted %s: %d page(s), %d table(s), %d word(s)",
		raw.Filename, len(doc.Pages), len(doc.Tables), doc.WordCount())
	item.Document = &doc
	return item
}

// commit adds extracted documents in input order. Filenames already in the
// corpus, or seen earlier in the batch, are rejected.
func (s *IngestService) commit(items []domain.BatchItem) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	corpus := s.session.Corpus
	for i := range items {
		item := &items[i]
		if item.Err != nil {
			continue
		}
		if _, err := corpus.Get(item.Filename); err == nil {
			item.Err = domain.NewExtractionError(item.Filename, domain.ErrAlreadyExists)
			item.Document = nil
			logger.Warn("Rejected %s: already in corpus", item.Filename)
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			item.Err = domain.NewExtractionError(item.Filename, err)
			item.Document = nil
			continue
		}
		if err := corpus.Add(item.Document); err != nil {
			item.Err = domain.NewExtractionError(item.Filename, fmt.Errorf("add to corpus: %w", err))
			item.Document = nil
		}
	}
}

func (s *IngestService) readFile(path string) (domain.RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.RawDocument{}, err
	}
	if info.Size() > s.limits.MaxBytes {
		return domain.RawDocument{}, fmt.Errorf("%w: %d bytes exceeds %d",
			domain.ErrLimitExceeded, info.Size(), s.limits.MaxBytes)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("read file: %w", err)
	}
	name := filepath.Base(path)
	return domain.RawDocument{
		Filename: name,
		MIMEType: DetectMIMEType(name),
		Content:  content,
	}, nil
}

// expandPath returns path itself for a file, or the supported files below it
// for a directory, in lexical order.
func expandPath(path string, supported map[string]bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != path && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if supported[DetectMIMEType(d.Name())] {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func containsErr(errs []error, target error) bool {
	for _, err := range errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
