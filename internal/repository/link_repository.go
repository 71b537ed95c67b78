package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/urlkit/urlkit/internal/models"
)

var (
	ErrLinkNotFound = errors.New("link not found")
	// ErrIDExists is the conflict signal for the conditional insert:
	// a record with the same short_id already exists, expired or not.
	ErrIDExists = errors.New("short id already exists")
)

const pgUniqueViolation = "23505"

// LinkRepository is the access layer over the shared short_links
// table. Concurrency safety comes entirely from the store's own
// conditional-insert and atomic-increment primitives.
type LinkRepository interface {
	InsertIfAbsent(ctx context.Context, rec *models.ShortLinkRecord) error
	GetLatestByShortID(ctx context.Context, shortID string) (*models.ShortLinkRecord, error)
	IncrementClicks(ctx context.Context, shortID string, createdAt, now int64) error
}

type linkRepository struct {
	db *PostgresDB
}

func NewLinkRepository(db *PostgresDB) LinkRepository {
	return &linkRepository{db: db}
}

// InsertIfAbsent persists the record unless its short_id is already
// taken. The unique index makes concurrent inserts of the same id
// atomic: at most one succeeds, the rest get ErrIDExists.
func (r *linkRepository) InsertIfAbsent(ctx context.Context, rec *models.ShortLinkRecord) error {
	query := `
		INSERT INTO short_links
			(short_id, created_at, original_url, expires_at, status,
			 clicks, last_accessed, request_id, owner_id, expiry_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		rec.ShortID,
		rec.CreatedAt,
		rec.OriginalURL,
		rec.ExpiresAt,
		rec.Status,
		rec.Clicks,
		rec.LastAccessed,
		rec.RequestID,
		rec.OwnerID,
		rec.ExpiryDays,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrIDExists
		}
		return fmt.Errorf("failed to insert link: %w", err)
	}

	return nil
}

// GetLatestByShortID returns the newest record for an id. Expired
// records are returned as-is; expiry is the caller's read-time check.
func (r *linkRepository) GetLatestByShortID(ctx context.Context, shortID string) (*models.ShortLinkRecord, error) {
	query := `
		SELECT short_id, created_at, original_url, expires_at, status,
		       clicks, last_accessed, request_id, COALESCE(owner_id, ''), expiry_days
		FROM short_links
		WHERE short_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	rec := &models.ShortLinkRecord{}
	err := r.db.Pool.QueryRow(ctx, query, shortID).Scan(
		&rec.ShortID,
		&rec.CreatedAt,
		&rec.OriginalURL,
		&rec.ExpiresAt,
		&rec.Status,
		&rec.Clicks,
		&rec.LastAccessed,
		&rec.RequestID,
		&rec.OwnerID,
		&rec.ExpiryDays,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return rec, nil
}

// IncrementClicks atomically adds one click and stamps last_accessed
// for the exact composite key.
func (r *linkRepository) IncrementClicks(ctx context.Context, shortID string, createdAt, now int64) error {
	query := `
		UPDATE short_links
		SET clicks = clicks + 1, last_accessed = $3
		WHERE short_id = $1 AND created_at = $2
	`

	result, err := r.db.Pool.Exec(ctx, query, shortID, createdAt, now)
	if err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}
