package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/review-service/internal/domain"
	"github.com/utafrali/review-service/pkg/database"
	apperrors "github.com/utafrali/review-service/pkg/errors"
)

// RatingRepository implements rating counter persistence using PostgreSQL.
// All writes are single atomic statements; correctness under concurrent
// increments comes entirely from the database, not from application locks.
type RatingRepository struct {
	pool database.DBTX
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(pool database.DBTX) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// EnsureExists lazily creates the zero-initialized counters row for an item.
// The conditional insert makes it safe under concurrent callers: exactly one
// row exists afterward and nobody errors.
func (r *RatingRepository) EnsureExists(ctx context.Context, itemID int64) error {
	query := `
		INSERT INTO item_ratings (item_id)
		VALUES ($1)
		ON CONFLICT (item_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, itemID); err != nil {
		return fmt.Errorf("insert rating row: %w", err)
	}

	return nil
}

// Increment bumps the bucket matching the star value by one in a single
// conditional UPDATE. Concurrent increments to the same item, even the same
// bucket, are serialized by the database; lost updates are impossible.
func (r *RatingRepository) Increment(ctx context.Context, itemID int64, rate int) error {
	if rate < 1 || rate > 5 {
		return apperrors.InvalidInput(fmt.Sprintf("rate must be between 1 and 5, got %d", rate))
	}

	query := `
		UPDATE item_ratings SET
			rate_one   = CASE WHEN $2 = 1 THEN rate_one + 1   ELSE rate_one   END,
			rate_two   = CASE WHEN $2 = 2 THEN rate_two + 1   ELSE rate_two   END,
			rate_three = CASE WHEN $2 = 3 THEN rate_three + 1 ELSE rate_three END,
			rate_four  = CASE WHEN $2 = 4 THEN rate_four + 1  ELSE rate_four  END,
			rate_five  = CASE WHEN $2 = 5 THEN rate_five + 1  ELSE rate_five  END
		WHERE item_id = $1`

	if _, err := r.pool.Exec(ctx, query, itemID, rate); err != nil {
		return fmt.Errorf("increment rating bucket: %w", err)
	}

	return nil
}

// GetCounters returns the counters row for an item, or (nil, nil) when the
// item has no ratings yet. Absence is a normal state, not an error.
func (r *RatingRepository) GetCounters(ctx context.Context, itemID int64) (*domain.RatingCounters, error) {
	query := `
		SELECT item_id, rate_one, rate_two, rate_three, rate_four, rate_five
		FROM item_ratings
		WHERE item_id = $1`

	var c domain.RatingCounters
	err := r.pool.QueryRow(ctx, query, itemID).Scan(
		&c.ItemID,
		&c.RateOne,
		&c.RateTwo,
		&c.RateThree,
		&c.RateFour,
		&c.RateFive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rating counters: %w", err)
	}

	return &c, nil
}

// ListCounters returns the counters rows for the given items in one query.
// Items without a row are absent from the result.
func (r *RatingRepository) ListCounters(ctx context.Context, itemIDs []int64) ([]domain.RatingCounters, error) {
	query := `
		SELECT item_id, rate_one, rate_two, rate_three, rate_four, rate_five
		FROM item_ratings
		WHERE item_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("list rating counters: %w", err)
	}
	defer rows.Close()

	counters := make([]domain.RatingCounters, 0)
	for rows.Next() {
		var c domain.RatingCounters
		if err := rows.Scan(
			&c.ItemID,
			&c.RateOne,
			&c.RateTwo,
			&c.RateThree,
			&c.RateFour,
			&c.RateFive,
		); err != nil {
			return nil, fmt.Errorf("scan rating counters row: %w", err)
		}
		counters = append(counters, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating counters rows: %w", err)
	}

	return counters, nil
}
