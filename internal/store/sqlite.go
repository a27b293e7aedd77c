package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore mirrors documents into a local SQLite database. SQLite has
// no native array type, so array columns are stored as their text
// literals; the Scanner/Valuer pair on the field types makes that
// transparent to callers.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database at %s: %w", path, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema in %s: %w", path, err)
	}

	slog.Info("Database connection established", "db", "SQLite", "path", path)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
        CREATE TABLE IF NOT EXISTS array_documents (
            name TEXT PRIMARY KEY,
            tags TEXT,
            scores TEXT,
            grid TEXT,
            updated_at TIMESTAMP NOT NULL
        )`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, doc Document) error {
	query := `
        INSERT OR REPLACE INTO array_documents (name, tags, scores, grid, updated_at)
        VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, doc.Name, doc.Tags, doc.Scores, doc.Grid, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert array document %q: %w", doc.Name, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (Document, error) {
	doc := NewDocument(name)

	query := `SELECT tags, scores, grid, updated_at FROM array_documents WHERE name = ?`
	err := s.db.QueryRowContext(ctx, query, name).Scan(&doc.Tags, &doc.Scores, &doc.Grid, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, fmt.Errorf("document %q: %w", name, ErrDocumentNotFound)
		}
		return Document{}, fmt.Errorf("failed to query array document %q: %w", name, err)
	}
	return doc, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Document, error) {
	query := `SELECT name, tags, scores, grid, updated_at FROM array_documents ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query array documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc := NewDocument("")
		if err := rows.Scan(&doc.Name, &doc.Tags, &doc.Scores, &doc.Grid, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan array document row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating array document rows: %w", err)
	}
	return docs, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM array_documents WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete array document %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for document %q: %w", name, err)
	}
	if affected == 0 {
		return fmt.Errorf("document %q: %w", name, ErrDocumentNotFound)
	}
	return nil
}
