package repository

import (
	"context"

	"github.com/utafrali/review-service/internal/domain"
	"github.com/utafrali/review-service/pkg/pagination"
)

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	// Create inserts a new review. A second review by the same author for
	// the same item fails with a duplicate-review conflict.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// ListByAuthor returns the author's reviews ordered by creation time.
	ListByAuthor(ctx context.Context, authorID string, sort domain.SortBy, page pagination.Params) ([]domain.Review, error)

	// ListByItem returns the item's reviews ordered by creation time.
	ListByItem(ctx context.Context, itemID int64, sort domain.SortBy, page pagination.Params) ([]domain.Review, error)
}

// RatingRepository defines the durable counter operations. EnsureExists and
// Increment are each a single atomic statement at the storage layer; callers
// never read-modify-write counter values.
type RatingRepository interface {
	// EnsureExists creates a zero-initialized counters row for the item if
	// none exists. Concurrent callers racing on the same item never error
	// and never produce duplicate rows.
	EnsureExists(ctx context.Context, itemID int64) error

	// Increment atomically adds 1 to the bucket for the given star value.
	Increment(ctx context.Context, itemID int64, rate int) error

	// GetCounters returns the counters row for the item, or (nil, nil) when
	// no row exists yet.
	GetCounters(ctx context.Context, itemID int64) (*domain.RatingCounters, error)

	// ListCounters returns the counters rows for the given items; items
	// without a row are simply absent from the result.
	ListCounters(ctx context.Context, itemIDs []int64) ([]domain.RatingCounters, error)
}

// SummaryCache is an optional read-through cache for derived rating
// summaries. A miss is (nil, nil), never an error.
type SummaryCache interface {
	Get(ctx context.Context, itemID int64) (*domain.RatingSummary, error)
	Set(ctx context.Context, summary domain.RatingSummary) error
	Invalidate(ctx context.Context, itemID int64) error
}
