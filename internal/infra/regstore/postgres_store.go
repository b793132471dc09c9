package regstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avolkov/doorkeeper/internal/domain/registry"
)

// PostgresStore keeps user records in a single Postgres table for installs
// that prefer SQL over a managed key-value service.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new store over the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, email string) (string, bool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT password_hash
		FROM users
		WHERE email = $1
		LIMIT 1
	`, email)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return "", false, rows.Err()
	}
	var hash string
	if err := rows.Scan(&hash); err != nil {
		return "", false, err
	}
	return hash, true, rows.Err()
}

func (s *PostgresStore) Put(ctx context.Context, email, hash string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
	`, email, hash)
	return err
}

var _ registry.Store = (*PostgresStore)(nil)
