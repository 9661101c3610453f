package memory

import (
	"sync"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
)

// Ensure Corpus implements the interface.
var _ driven.Corpus = (*Corpus)(nil)

// Corpus is an in-memory implementation of driven.Corpus.
// The filename list and the document map always hold the same names.
type Corpus struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document
	filenames []string
}

// NewCorpus creates a new empty in-memory corpus.
func NewCorpus() *Corpus {
	return &Corpus{
		documents: make(map[string]*domain.Document),
	}
}

// Add appends a document with a new filename. A repeated filename replaces
// the earlier document in place rather than moving it to the end.
func (c *Corpus) Add(doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.documents[doc.Filename]; !exists {
		c.filenames = append(c.filenames, doc.Filename)
	}
	c.documents[doc.Filename] = doc
	return nil
}

// Get returns the document with the filename.
func (c *Corpus) Get(filename string) (*domain.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.documents[filename]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// Documents returns a snapshot of the documents in insertion order.
func (c *Corpus) Documents() ([]*domain.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	docs := make([]*domain.Document, 0, len(c.filenames))
	for _, name := range c.filenames {
		docs = append(docs, c.documents[name])
	}
	return docs, nil
}

// Filenames returns a copy of the filename list.
func (c *Corpus) Filenames() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.filenames))
	copy(names, c.filenames)
	return names, nil
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.filenames)
}

// Close is a no-op for the memory corpus.
func (c *Corpus) Close() error {
	return nil
}
