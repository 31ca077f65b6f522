// Package manifest is the engine's run ledger: a small SQLite database
// recording, per source document, the content hash, derived course slug
// and parse outcome, plus per-run batch counts. It exists for
// auditability and change detection between runs — it is not the
// downstream LMS persistence layer, which is out of scope.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Document statuses.
const (
	StatusParsed = "parsed"
	StatusFailed = "failed"
)

// Document is a row in the documents table.
type Document struct {
	ID          int64  `json:"id"`
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	Format      string `json:"format"`
	ContentHash string `json:"content_hash"`
	CourseSlug  string `json:"course_slug,omitempty"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Run is a row in the runs table.
type Run struct {
	SourceDir string
	Attempted int
	Succeeded int
	Failed    int
	StartedAt time.Time
}

// Manifest wraps the SQLite ledger database.
type Manifest struct {
	db *sql.DB
}

// Open opens (or creates) the ledger at the given path and initialises
// the schema.
func Open(dbPath string) (*Manifest, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening manifest database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging manifest database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)

	m := &Manifest{db: db}
	if err := m.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running manifest migrations: %w", err)
	}
	return m, nil
}

// Close closes the underlying database connection.
func (m *Manifest) Close() error {
	return m.db.Close()
}

// UpsertDocument inserts or updates a document record keyed by path.
func (m *Manifest) UpsertDocument(ctx context.Context, doc Document) (int64, error) {
	res, err := m.db.ExecContext(ctx, `
		INSERT INTO documents (path, filename, format, content_hash, course_slug, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			filename = excluded.filename,
			format = excluded.format,
			content_hash = excluded.content_hash,
			course_slug = excluded.course_slug,
			status = excluded.status,
			error = excluded.error,
			updated_at = CURRENT_TIMESTAMP
	`, doc.Path, doc.Filename, doc.Format, doc.ContentHash, doc.CourseSlug, doc.Status, doc.Error)
	if err != nil {
		return 0, fmt.Errorf("upserting document: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil && id > 0 {
		return id, nil
	}
	// Updated rather than inserted — fetch the existing row ID.
	var id int64
	err = m.db.QueryRowContext(ctx, "SELECT id FROM documents WHERE path = ?", doc.Path).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("fetching document id: %w", err)
	}
	return id, nil
}

// GetDocumentByPath returns the ledger entry for a source path.
func (m *Manifest) GetDocumentByPath(ctx context.Context, path string) (*Document, error) {
	var doc Document
	var slug, errMsg sql.NullString
	err := m.db.QueryRowContext(ctx, `
		SELECT id, path, filename, format, content_hash, course_slug, status, error, created_at, updated_at
		FROM documents WHERE path = ?
	`, path).Scan(&doc.ID, &doc.Path, &doc.Filename, &doc.Format, &doc.ContentHash,
		&slug, &doc.Status, &errMsg, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	doc.CourseSlug = slug.String
	doc.Error = errMsg.String
	return &doc, nil
}

// ListDocuments returns all ledger entries ordered by path.
func (m *Manifest) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, path, filename, format, content_hash, course_slug, status, error, created_at, updated_at
		FROM documents ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var slug, errMsg sql.NullString
		if err := rows.Scan(&doc.ID, &doc.Path, &doc.Filename, &doc.Format, &doc.ContentHash,
			&slug, &doc.Status, &errMsg, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		doc.CourseSlug = slug.String
		doc.Error = errMsg.String
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// RecordRun appends one batch invocation to the runs table.
func (m *Manifest) RecordRun(ctx context.Context, run Run) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO runs (source_dir, attempted, succeeded, failed, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.SourceDir, run.Attempted, run.Succeeded, run.Failed, run.StartedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}
