package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/warroom/internal/core/ports/driven"
)

// Session is the unit of state for one user run: an identifier, a start
// time and the corpus documents are ingested into. It is owned by the
// caller and handed to each service.
type Session struct {
	// ID uniquely identifies the session.
	ID string

	// StartedAt is when the session was created.
	StartedAt time.Time

	// Corpus holds the session's documents.
	Corpus driven.Corpus
}

// NewSession creates a session around a corpus.
func NewSession(corpus driven.Corpus) *Session {
	return &Session{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		Corpus:    corpus,
	}
}

// Close releases the session's corpus.
func (s *Session) Close() error {
	if s.Corpus == nil {
		return nil
	}
	return s.Corpus.Close()
}
