package postgres

import (
	"context"
	"database/sql"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save creates or updates a document. Re-uploading a document replaces its
// text and filename; ingestion status is tracked separately.
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (id, filename, content, uploaded_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			filename = EXCLUDED.filename,
			content = EXCLUDED.content,
			uploaded_at = EXCLUDED.uploaded_at
	`

	_, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.Filename,
		doc.Text,
		doc.UploadedAt,
	)
	return err
}

// Get retrieves a document by ID
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	query := `
		SELECT id, filename, content, uploaded_at
		FROM documents
		WHERE id = $1
	`

	var doc domain.Document
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.Text,
		&doc.UploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// UpdateStatus records the current ingestion state for a document
func (s *DocumentStore) UpdateStatus(ctx context.Context, id string, state domain.JobState, reason string) error {
	query := `
		UPDATE documents
		SET ingest_state = $2, ingest_error = $3, updated_at = now()
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id, string(state), NullString(strPtrIfSet(reason)))
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// GetStatus retrieves the recorded ingestion status for a document
func (s *DocumentStore) GetStatus(ctx context.Context, id string) (*domain.IngestionStatus, error) {
	query := `
		SELECT id, ingest_state, ingest_error, updated_at
		FROM documents
		WHERE id = $1
	`

	var status domain.IngestionStatus
	var state string
	var reason sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&status.DocumentID,
		&state,
		&reason,
		&status.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	status.State = domain.JobState(state)
	status.Error = reason.String

	return &status, nil
}

// List retrieves documents ordered by upload time, newest first
func (s *DocumentStore) List(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
	query := `
		SELECT id, filename, content, uploaded_at
		FROM documents
		ORDER BY uploaded_at DESC
		LIMIT $1 OFFSET $2
	`

	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Text, &doc.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

// Count returns total document count
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM documents`
	var count int
	err := s.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

// Delete deletes a document
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM documents WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func strPtrIfSet(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
