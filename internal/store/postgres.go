package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dgallion1/findoc/internal/document"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id           TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL DEFAULT '',
	file_name    TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL,
	bundle       JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_content_hash_idx ON documents (content_hash);`

// Postgres stores bundles as JSONB rows in the documents table.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres connects with dsn and creates the schema when missing.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Put(ctx context.Context, b *document.Bundle) error {
	data, err := encode(b)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO documents (id, content_hash, file_name, created_at, bundle)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			content_hash = EXCLUDED.content_hash,
			file_name = EXCLUDED.file_name,
			bundle = EXCLUDED.bundle`
	if _, err := p.db.Exec(ctx, query, b.ID, b.ContentHash, b.Metadata.FileName, b.CreatedAt, data); err != nil {
		return fmt.Errorf("postgres put %s: %w", b.ID, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*document.Bundle, error) {
	var data []byte
	err := p.db.QueryRow(ctx, `SELECT bundle FROM documents WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get %s: %w", id, err)
	}
	return decode(data)
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres delete %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) List(ctx context.Context) ([]document.Summary, error) {
	query := `
		SELECT id, file_name, created_at,
			COALESCE(bundle->'metadata'->>'title', ''),
			COALESCE(jsonb_array_length(bundle->'tables'), 0),
			COALESCE(jsonb_array_length(bundle->'entities'), 0)
		FROM documents
		ORDER BY created_at DESC`
	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres list: %w", err)
	}
	defer rows.Close()

	out := []document.Summary{}
	for rows.Next() {
		var s document.Summary
		if err := rows.Scan(&s.ID, &s.FileName, &s.CreatedAt, &s.Title, &s.Tables, &s.Entities); err != nil {
			return nil, fmt.Errorf("postgres list scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) FindByHash(ctx context.Context, hash string) (string, error) {
	if hash == "" {
		return "", nil
	}
	var id string
	err := p.db.QueryRow(ctx, `SELECT id FROM documents WHERE content_hash = $1 LIMIT 1`, hash).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("postgres find hash: %w", err)
	}
	return id, nil
}

func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}
