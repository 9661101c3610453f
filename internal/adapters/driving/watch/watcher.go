// Package watch ingests files as they appear in a directory.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driving"
	"github.com/custodia-labs/warroom/internal/core/services"
	"github.com/custodia-labs/warroom/internal/logger"
)

// DefaultSettle is how long a file must be quiet before it is ingested.
// Editors and copy tools write in several chunks.
const DefaultSettle = 500 * time.Millisecond

// Watcher ingests supported files created or written in a directory.
// Subdirectories are not watched.
type Watcher struct {
	dir       string
	ingest    driving.IngestService
	settle    time.Duration
	supported map[string]bool

	// OnBatch, when set, receives each batch result after ingestion.
	OnBatch func(domain.BatchResult)

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// New creates a watcher over dir.
func New(dir string, ingest driving.IngestService) *Watcher {
	supported := make(map[string]bool)
	for _, mt := range ingest.SupportedMIMETypes() {
		supported[mt] = true
	}
	return &Watcher{
		dir:       dir,
		ingest:    ingest,
		settle:    DefaultSettle,
		supported: supported,
		pending:   make(map[string]*time.Timer),
	}
}

// SetSettle changes the quiet period before a file is ingested.
func (w *Watcher) SetSettle(d time.Duration) {
	w.settle = d
}

// Run watches until ctx is cancelled. Files already present are not
// ingested.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("watching %s for new documents", w.dir)

	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handleEvent(event); ok {
				w.schedule(ctx, path)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", w.dir, err)
		}
	}
}

// handleEvent returns the path to ingest for an event, if any.
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	if !w.supported[services.DetectMIMEType(name)] {
		logger.Debug("watch: skipping unsupported file %s", name)
		return "", false
	}
	return event.Name, true
}

// schedule (re)starts the settle timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// A timer that already fired is left to finish; the path gets a new one.
	if timer, ok := w.pending[path]; ok && timer.Stop() {
		timer.Reset(w.settle)
		return
	}

	w.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.settle, func() {
		defer w.wg.Done()

		w.mu.Lock()
		if w.pending[path] == timer {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.ingestFile(ctx, path)
	})
	w.pending[path] = timer
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	result := w.ingest.IngestFiles(ctx, []string{path})
	for _, item := range result.Items {
		if item.OK() {
			logger.Info("watch: ingested %s (%d words)", item.Filename, item.Document.WordCount())
		} else {
			logger.Warn("watch: %s: %v", item.Filename, item.Err)
		}
	}
	if w.OnBatch != nil {
		w.OnBatch(result)
	}
}

// stop cancels timers that have not fired and waits for running ingests.
func (w *Watcher) stop() {
	w.mu.Lock()
	for path, timer := range w.pending {
		if timer.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
}
