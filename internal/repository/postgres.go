package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urlkit/urlkit/internal/config"
)

type PostgresDB struct {
	Pool *pgxpool.Pool
}

func NewPostgresDB(cfg config.DBConfig) (*PostgresDB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{Pool: pool}, nil
}

// Migrate creates the short_links table. The composite primary key
// carries created_at for the click-update key; the separate unique
// index on short_id alone is what makes the conditional insert
// conflict regardless of created_at or expiry state.
func (db *PostgresDB) Migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS short_links (
			short_id      TEXT   NOT NULL,
			created_at    BIGINT NOT NULL,
			original_url  TEXT   NOT NULL,
			expires_at    BIGINT NOT NULL,
			status        TEXT   NOT NULL DEFAULT 'active',
			clicks        BIGINT NOT NULL DEFAULT 0,
			last_accessed BIGINT NOT NULL,
			request_id    TEXT   NOT NULL DEFAULT '',
			owner_id      TEXT,
			expiry_days   INT    NOT NULL,
			PRIMARY KEY (short_id, created_at)
		);
		CREATE UNIQUE INDEX IF NOT EXISTS short_links_short_id_idx
			ON short_links (short_id);
	`

	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (db *PostgresDB) Close() {
	db.Pool.Close()
}
