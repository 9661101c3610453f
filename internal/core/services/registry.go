package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
)

// Ensure ExtractorRegistry implements the interface.
var _ driven.ExtractorRegistry = (*ExtractorRegistry)(nil)

// ExtractorRegistry dispatches raw documents to the highest-priority
// extractor that supports their MIME type.
type ExtractorRegistry struct {
	mu         sync.RWMutex
	extractors []driven.Extractor
}

// NewExtractorRegistry creates a registry holding the given extractors.
func NewExtractorRegistry(extractors ...driven.Extractor) *ExtractorRegistry {
	r := &ExtractorRegistry{}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor. Extractors are kept sorted by descending
// priority; equal priorities keep registration order.
func (r *ExtractorRegistry) Register(extractor driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors = append(r.extractors, extractor)
	sort.SliceStable(r.extractors, func(i, j int) bool {
		return r.extractors[i].Priority() > r.extractors[j].Priority()
	})
}

// Extract runs the best matching extractor.
func (r *ExtractorRegistry) Extract(
	ctx context.Context, raw *domain.RawDocument, limits driven.Limits,
) (*driven.ExtractResult, error) {
	extractor := r.lookup(raw.MIMEType)
	if extractor == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, raw.MIMEType)
	}
	return extractor.Extract(ctx, raw, limits)
}

// SupportedMIMETypes returns all MIME types that can be extracted, sorted.
func (r *ExtractorRegistry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var types []string
	for _, e := range r.extractors {
		for _, t := range e.SupportedMIMETypes() {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
	}
	sort.Strings(types)
	return types
}

// Supports reports whether any extractor handles the MIME type.
func (r *ExtractorRegistry) Supports(mimeType string) bool {
	return r.lookup(mimeType) != nil
}

func (r *ExtractorRegistry) lookup(mimeType string) driven.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.extractors {
		for _, t := range e.SupportedMIMETypes() {
			if t == mimeType {
				return e
			}
		}
	}
	return nil
}
