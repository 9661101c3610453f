package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driven"
)

var _ driven.Corpus = (*corpus)(nil)

// corpus implements driven.Corpus over the documents table. Position is
// assigned on first insert and kept when a filename is replaced.
type corpus struct {
	store     *Store
	sessionID string
}

const upsertDocument = `
	INSERT INTO documents (
		session_id, filename, position, id, mime_type,
		pages, tables, metadata, ingested_at
	) VALUES (
		?, ?,
		(SELECT COALESCE(MAX(position), 0) + 1 FROM documents WHERE session_id = ?),
		?, ?, ?, ?, ?, ?
	)
	ON CONFLICT (session_id, filename) DO UPDATE SET
		id = excluded.id,
		mime_type = excluded.mime_type,
		pages = excluded.pages,
		tables = excluded.tables,
		metadata = excluded.metadata,
		ingested_at = excluded.ingested_at
`

const selectDocument = `
	SELECT filename, id, mime_type, pages, tables, metadata, ingested_at
	FROM documents
`

// Add stores the document in one statement, so readers never see it half
// written.
func (c *corpus) Add(doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}

	pages, err := json.Marshal(doc.Pages)
	if err != nil {
		return fmt.Errorf("marshalling pages: %w", err)
	}
	tables, err := json.Marshal(doc.Tables)
	if err != nil {
		return fmt.Errorf("marshalling tables: %w", err)
	}
	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = c.store.db.Exec(upsertDocument,
		c.sessionID, doc.Filename, c.sessionID,
		doc.ID, doc.MIMEType, string(pages), string(tables), string(metadata),
		doc.IngestedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting document %s: %w", doc.Filename, err)
	}
	return nil
}

// Get returns the document with the filename.
func (c *corpus) Get(filename string) (*domain.Document, error) {
	row := c.store.db.QueryRow(selectDocument+" WHERE session_id = ? AND filename = ?", c.sessionID, filename)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Documents returns the session's documents in insertion order.
func (c *corpus) Documents() ([]*domain.Document, error) {
	rows, err := c.store.db.Query(selectDocument+" WHERE session_id = ? ORDER BY position", c.sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Filenames returns the session's filenames in insertion order.
func (c *corpus) Filenames() ([]string, error) {
	rows, err := c.store.db.Query(
		"SELECT filename FROM documents WHERE session_id = ? ORDER BY position", c.sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying filenames: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning filename: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Len returns the number of documents, or 0 when the count cannot be read.
func (c *corpus) Len() int {
	var n int
	row := c.store.db.QueryRow("SELECT COUNT(*) FROM documents WHERE session_id = ?", c.sessionID)
	if err := row.Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close deletes the session's documents.
func (c *corpus) Close() error {
	if _, err := c.store.db.Exec("DELETE FROM documents WHERE session_id = ?", c.sessionID); err != nil {
		return fmt.Errorf("deleting session documents: %w", err)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var (
		doc                     domain.Document
		pages, tables, metadata string
		ingestedAt              string
	)
	if err := row.Scan(&doc.Filename, &doc.ID, &doc.MIMEType, &pages, &tables, &metadata, &ingestedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(pages), &doc.Pages); err != nil {
		return nil, fmt.Errorf("unmarshalling pages of %s: %w", doc.Filename, err)
	}
	if err := json.Unmarshal([]byte(tables), &doc.Tables); err != nil {
		return nil, fmt.Errorf("unmarshalling tables of %s: %w", doc.Filename, err)
	}
	if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata of %s: %w", doc.Filename, err)
	}

	t, err := time.Parse(time.RFC3339Nano, ingestedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing ingested_at of %s: %w", doc.Filename, err)
	}
	doc.IngestedAt = t
	return &doc, nil
}
