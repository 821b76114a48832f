package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/site-content-types/pkg/cms"
)

// Schema creates the tables the store needs.
const Schema = `
CREATE TABLE IF NOT EXISTS content_type (
	id          UUID PRIMARY KEY,
	key         VARCHAR(20) NOT NULL UNIQUE,
	config      JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS entry (
	id            UUID PRIMARY KEY,
	content_type  VARCHAR(20) NOT NULL REFERENCES content_type (key),
	title         TEXT NOT NULL,
	body          TEXT NOT NULL DEFAULT '',
	status        VARCHAR(20) NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS entry_content_type_created_idx ON entry (content_type, status, created_at DESC);
`

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store implements cms.Store using PostgreSQL
type Store struct {
	db DBTX
}

var _ cms.Store = (*Store)(nil)

// New creates a new PostgreSQL store
func New(db DBTX) *Store {
	return &Store{db: db}
}

// NewWithPool creates a new PostgreSQL store with connection pool
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return s.handlePostgresError("migrate", err)
	}
	return nil
}

// Error handling helper
func (s *Store) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "content_type") {
				return fmt.Errorf("content type already exists")
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			return cms.ErrContentTypeNotFound
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Content type operations

func (s *Store) UpsertContentType(ctx context.Context, ct *cms.ContentType) (*cms.ContentType, error) {
	query := `
		INSERT INTO content_type (id, key, config, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE SET
			config = EXCLUDED.config,
			updated_at = EXCLUDED.updated_at
		RETURNING id, key, config, created_at, updated_at`

	var stored cms.ContentType
	err := s.db.QueryRow(ctx, query, ct.ID, ct.Key, ct.Config, ct.CreatedAt, ct.UpdatedAt).Scan(
		&stored.ID, &stored.Key, &stored.Config, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, s.handlePostgresError("upsert content type", err)
	}

	return &stored, nil
}

func (s *Store) GetContentType(ctx context.Context, key string) (*cms.ContentType, error) {
	query := `
		SELECT id, key, config, created_at, updated_at
		FROM content_type WHERE key = $1`

	var ct cms.ContentType
	err := s.db.QueryRow(ctx, query, key).Scan(
		&ct.ID, &ct.Key, &ct.Config, &ct.CreatedAt, &ct.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cms.ErrContentTypeNotFound
		}
		return nil, s.handlePostgresError("get content type", err)
	}

	return &ct, nil
}

func (s *Store) ListContentTypes(ctx context.Context) ([]*cms.ContentType, error) {
	query := `
		SELECT id, key, config, created_at, updated_at
		FROM content_type ORDER BY created_at, key`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, s.handlePostgresError("list content types", err)
	}
	defer rows.Close()

	var types []*cms.ContentType
	for rows.Next() {
		var ct cms.ContentType
		if err := rows.Scan(&ct.ID, &ct.Key, &ct.Config, &ct.CreatedAt, &ct.UpdatedAt); err != nil {
			return nil, err
		}
		types = append(types, &ct)
	}

	return types, rows.Err()
}

// Entry operations

func (s *Store) CreateEntry(ctx context.Context, entry *cms.Entry) error {
	query := `
		INSERT INTO entry (id, content_type, title, body, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.Exec(ctx, query,
		entry.ID, entry.ContentType, entry.Title, entry.Body,
		string(entry.Status), entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return s.handlePostgresError("create entry", err)
	}

	return nil
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*cms.Entry, error) {
	query := `
		SELECT id, content_type, title, body, status, created_at, updated_at
		FROM entry WHERE id = $1`

	var e cms.Entry
	var status string
	err := s.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.ContentType, &e.Title, &e.Body, &status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cms.ErrEntryNotFound
		}
		return nil, s.handlePostgresError("get entry", err)
	}
	e.Status = cms.EntryStatus(status)

	return &e, nil
}

func (s *Store) ListEntries(ctx context.Context, contentType string, status cms.EntryStatus, limit, offset int) ([]*cms.Entry, error) {
	query := `
		SELECT id, content_type, title, body, status, created_at, updated_at
		FROM entry
		WHERE content_type = $1 AND ($2::text = '' OR status = $2::text)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	var lim interface{}
	if limit > 0 {
		lim = limit
	}

	rows, err := s.db.Query(ctx, query, contentType, string(status), lim, offset)
	if err != nil {
		return nil, s.handlePostgresError("list entries", err)
	}
	defer rows.Close()

	entries := []*cms.Entry{}
	for rows.Next() {
		var e cms.Entry
		var st string
		if err := rows.Scan(&e.ID, &e.ContentType, &e.Title, &e.Body, &st, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Status = cms.EntryStatus(st)
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

func (s *Store) CountEntries(ctx context.Context, contentType string, status cms.EntryStatus) (int, error) {
	query := `SELECT COUNT(*) FROM entry WHERE content_type = $1 AND ($2::text = '' OR status = $2::text)`

	var n int
	if err := s.db.QueryRow(ctx, query, contentType, string(status)).Scan(&n); err != nil {
		return 0, s.handlePostgresError("count entries", err)
	}
	return n, nil
}
