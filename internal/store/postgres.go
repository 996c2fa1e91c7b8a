package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lmartins/shortly/internal/shortener"
)

// Unique violation, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const pgUniqueViolation = "23505"

const shortURLsDedupConstraint = "short_urls_long_url_owner_key"

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert persists a new mapping. The store's uniqueness constraints are the
// only arbiter under concurrency: a primary-key violation on code becomes
// ErrCodeTaken, a dedup-index violation becomes ErrDuplicateURL.
func (p *PostgresStore) Insert(ctx context.Context, shortURL *shortener.ShortURL) error {
	query := `
		INSERT INTO short_urls (code, long_url, owner_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query,
		string(shortURL.Code),
		shortURL.LongURL,
		shortURL.OwnerID,
		shortURL.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if pgErr.ConstraintName == shortURLsDedupConstraint {
				return shortener.ErrDuplicateURL
			}

			return shortener.ErrCodeTaken
		}

		return err
	}

	return nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT code, long_url, owner_id, created_at
		FROM short_urls
		WHERE code = $1
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, string(code)))
}

func (p *PostgresStore) FindByLongURL(ctx context.Context, longURL, ownerID string) (*shortener.ShortURL, error) {
	query := `
		SELECT code, long_url, owner_id, created_at
		FROM short_urls
		WHERE long_url = $1 AND owner_id = $2
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, longURL, ownerID))
}

func (p *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]shortener.ShortURL, error) {
	query := `
		SELECT code, long_url, owner_id, created_at
		FROM short_urls
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := make([]shortener.ShortURL, 0)

	for rows.Next() {
		var url shortener.ShortURL

		if err := rows.Scan(&url.Code, &url.LongURL, &url.OwnerID, &url.CreatedAt); err != nil {
			return nil, err
		}

		urls = append(urls, url)
	}

	return urls, rows.Err()
}

func (p *PostgresStore) Delete(ctx context.Context, ownerID string, code shortener.Code) error {
	query := `
		DELETE FROM short_urls
		WHERE code = $1 AND owner_id = $2
	`

	tag, err := p.pool.Exec(ctx, query, string(code), ownerID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) scanOne(row pgx.Row) (*shortener.ShortURL, error) {
	var url shortener.ShortURL

	err := row.Scan(&url.Code, &url.LongURL, &url.OwnerID, &url.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &url, nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
