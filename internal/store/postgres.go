package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed mapping store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert commits a mapping. The primary key on short_id makes a concurrent
// insert of the same ID lose with ErrDuplicateID.
func (p *PostgresStore) Insert(ctx context.Context, mapping *shortener.Mapping) (*shortener.Mapping, error) {
	query := `
		INSERT INTO short_links (short_id, long_url, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (short_id) DO NOTHING
		RETURNING created_at
	`

	stored := *mapping

	err := p.pool.QueryRow(ctx, query,
		string(mapping.ID),
		mapping.LongURL,
		mapping.CreatedAt,
	).Scan(&stored.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrDuplicateID
		}

		return nil, err
	}

	return &stored, nil
}

func (p *PostgresStore) FindByID(ctx context.Context, id shortener.ShortID) (*shortener.Mapping, error) {
	query := `
		SELECT short_id, long_url, created_at
		FROM short_links
		WHERE short_id = $1
	`

	var (
		mapping shortener.Mapping
		shortID string
	)

	err := p.pool.QueryRow(ctx, query, string(id)).Scan(
		&shortID,
		&mapping.LongURL,
		&mapping.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	mapping.ID = shortener.ShortID(shortID)

	return &mapping, nil
}

// Ping verifies the pool can reach the database.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

var _ shortener.Store = (*PostgresStore)(nil)
