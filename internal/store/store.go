// Package store persists extraction results to a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/niksi-nova/swasthya-ai/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id           TEXT PRIMARY KEY,
	source       TEXT NOT NULL,
	success      INTEGER NOT NULL,
	error        TEXT NOT NULL DEFAULT '',
	total_fields INTEGER NOT NULL DEFAULT 0,
	processed_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS fields (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	test_name   TEXT NOT NULL,
	result      TEXT NOT NULL,
	unit        TEXT NOT NULL DEFAULT '',
	ref_low     REAL,
	ref_high    REAL
);

CREATE INDEX IF NOT EXISTS idx_fields_document ON fields(document_id);
`

// Store wraps the SQLite database holding extraction history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult persists one document result with its fields and returns
// the generated document ID.
func (s *Store) SaveResult(ctx context.Context, result *pipeline.ExtractionResult) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	docID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, source, success, error, total_fields, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		docID, result.Source, result.Success, result.Error, result.TotalFields, result.Timestamp)
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}

	for _, field := range result.Fields {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO fields (id, document_id, test_name, result, unit, ref_low, ref_high)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), docID, field.TestName, field.Result, field.Unit,
			field.RefLow, field.RefHigh)
		if err != nil {
			return "", fmt.Errorf("failed to insert field: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return docID, nil
}

// SaveSummary persists every document of a batch run.
func (s *Store) SaveSummary(ctx context.Context, summary *pipeline.BatchSummary) error {
	for _, doc := range summary.Documents {
		if _, err := s.SaveResult(ctx, doc); err != nil {
			return fmt.Errorf("saving %s: %w", doc.Source, err)
		}
	}
	return nil
}

// DocumentRecord is one stored document row.
type DocumentRecord struct {
	ID          string
	Source      string
	Success     bool
	Error       string
	TotalFields int
	ProcessedAt time.Time
}

// ListDocuments returns stored documents newest first.
func (s *Store) ListDocuments(ctx context.Context, limit int) ([]DocumentRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, success, error, total_fields, processed_at
		 FROM documents ORDER BY processed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []DocumentRecord
	for rows.Next() {
		var rec DocumentRecord
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Success, &rec.Error,
			&rec.TotalFields, &rec.ProcessedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FieldsForDocument returns the stored fields of one document.
func (s *Store) FieldsForDocument(ctx context.Context, documentID string) ([]StoredField, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT test_name, result, unit, ref_low, ref_high
		 FROM fields WHERE document_id = ?`, documentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var fields []StoredField
	for rows.Next() {
		var f StoredField
		if err := rows.Scan(&f.TestName, &f.Result, &f.Unit, &f.RefLow, &f.RefHigh); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// StoredField is one stored field row.
type StoredField struct {
	TestName string
	Result   string
	Unit     string
	RefLow   *float64
	RefHigh  *float64
}
