package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/review-service/internal/domain"
	"github.com/utafrali/review-service/pkg/database"
	apperrors "github.com/utafrali/review-service/pkg/errors"
	"github.com/utafrali/review-service/pkg/pagination"
)

// ReviewRepository implements review persistence using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a review. The unique index on (item_id, author_id) is the
// single source of truth for the one-review-per-author rule; a violation maps
// to a duplicate-review conflict.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, item_id, author_id, comment, rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.ItemID,
		review.AuthorID,
		review.Comment,
		review.Rate,
		review.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateReview(review.ItemID, review.AuthorID)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID returns a review by its identifier.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `
		SELECT id, item_id, author_id, comment, rate, created_at
		FROM reviews
		WHERE id = $1`

	var review domain.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.ItemID,
		&review.AuthorID,
		&review.Comment,
		&review.Rate,
		&review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review by id: %w", err)
	}

	return &review, nil
}

// ListByAuthor returns the author's reviews ordered by creation time.
func (r *ReviewRepository) ListByAuthor(ctx context.Context, authorID string, sort domain.SortBy, page pagination.Params) ([]domain.Review, error) {
	query := fmt.Sprintf(`
		SELECT id, item_id, author_id, comment, rate, created_at
		FROM reviews
		WHERE author_id = $1
		ORDER BY created_at %s
		LIMIT $2 OFFSET $3`, sort.Direction())

	rows, err := r.pool.Query(ctx, query, authorID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews by author: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// ListByItem returns the item's reviews ordered by creation time.
func (r *ReviewRepository) ListByItem(ctx context.Context, itemID int64, sort domain.SortBy, page pagination.Params) ([]domain.Review, error) {
	query := fmt.Sprintf(`
		SELECT id, item_id, author_id, comment, rate, created_at
		FROM reviews
		WHERE item_id = $1
		ORDER BY created_at %s
		LIMIT $2 OFFSET $3`, sort.Direction())

	rows, err := r.pool.Query(ctx, query, itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews by item: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

func scanReviews(rows pgx.Rows) ([]domain.Review, error) {
	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.ItemID,
			&review.AuthorID,
			&review.Comment,
			&review.Rate,
			&review.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
