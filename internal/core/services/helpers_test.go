package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/warroom/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/warroom/internal/core/domain"
)

func newTestSession() *Session {
	return NewSession(memory.NewCorpus())
}

// seedCorpus adds single-page documents in order.
func seedCorpus(t *testing.T, session *Session, docs map[string]string, order ...string) {
	t.Helper()
	for _, name := range order {
		require.NoError(t, session.Corpus.Add(&domain.Document{
			Filename: name,
			Pages:    []domain.Page{{PageNumber: 1, Text: docs[name]}},
		}))
	}
}
