package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	slog.Info("Database connection established", "db", "PostgreSQL")
	return pool, nil
}

// PostgresStore persists documents to native array columns. Array values
// travel as text literals; the explicit casts below let the server type
// them, and reads cast back to text so the codec sees the literal form
// regardless of wire format.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Save(ctx context.Context, doc Document) error {
	tags, err := doc.Tags.Value()
	if err != nil {
		return fmt.Errorf("failed to render tags for document %q: %w", doc.Name, err)
	}
	scores, err := doc.Scores.Value()
	if err != nil {
		return fmt.Errorf("failed to render scores for document %q: %w", doc.Name, err)
	}
	grid, err := doc.Grid.Value()
	if err != nil {
		return fmt.Errorf("failed to render grid for document %q: %w", doc.Name, err)
	}

	sql := `
        INSERT INTO array_documents (name, tags, scores, grid, updated_at)
        VALUES ($1, $2::text[], $3::double precision[], $4::int[][], NOW())
        ON CONFLICT (name)
        DO UPDATE SET tags = EXCLUDED.tags, scores = EXCLUDED.scores,
                      grid = EXCLUDED.grid, updated_at = NOW()`
	_, err = s.pool.Exec(ctx, sql, doc.Name, tags, scores, grid)
	if err != nil {
		return fmt.Errorf("failed to upsert array document %q: %w", doc.Name, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, name string) (Document, error) {
	doc := NewDocument(name)

	sql := `
        SELECT tags::text, scores::text, grid::text, updated_at
        FROM array_documents
        WHERE name = $1`
	var tags, scores, grid *string
	err := s.pool.QueryRow(ctx, sql, name).Scan(&tags, &scores, &grid, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, fmt.Errorf("document %q: %w", name, ErrDocumentNotFound)
		}
		return Document{}, fmt.Errorf("failed to query array document %q: %w", name, err)
	}

	if err := scanDocumentArrays(&doc, tags, scores, grid); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Document, error) {
	sql := `
        SELECT name, tags::text, scores::text, grid::text, updated_at
        FROM array_documents
        ORDER BY name`
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query array documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var name string
		var tags, scores, grid *string
		doc := NewDocument("")
		if err := rows.Scan(&name, &tags, &scores, &grid, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan array document row: %w", err)
		}
		doc.Name = name
		if err := scanDocumentArrays(&doc, tags, scores, grid); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating array document rows: %w", err)
	}
	return docs, nil
}

func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	cmdTag, err := s.pool.Exec(ctx, `DELETE FROM array_documents WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete array document %q: %w", name, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("document %q: %w", name, ErrDocumentNotFound)
	}
	return nil
}

func scanDocumentArrays(doc *Document, tags, scores, grid *string) error {
	if tags != nil {
		if err := doc.Tags.Scan(*tags); err != nil {
			return fmt.Errorf("failed to scan tags for document %q: %w", doc.Name, err)
		}
	}
	if scores != nil {
		if err := doc.Scores.Scan(*scores); err != nil {
			return fmt.Errorf("failed to scan scores for document %q: %w", doc.Name, err)
		}
	}
	if grid != nil {
		if err := doc.Grid.Scan(*grid); err != nil {
			return fmt.Errorf("failed to scan grid for document %q: %w", doc.Name, err)
		}
	}
	return nil
}
