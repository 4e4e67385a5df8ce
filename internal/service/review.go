package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/review-service/internal/domain"
	"github.com/utafrali/review-service/internal/event"
	"github.com/utafrali/review-service/internal/repository"
	apperrors "github.com/utafrali/review-service/pkg/errors"
	"github.com/utafrali/review-service/pkg/pagination"
)

// Ratings is the slice of the rating service the review flow depends on.
type Ratings interface {
	SaveRating(ctx context.Context, itemID int64, rate int) error
	GetSummary(ctx context.Context, itemID int64) (domain.RatingSummary, error)
}

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	ItemID   int64
	AuthorID string
	Comment  *string
	Rate     int
}

// ItemReviewsResult contains an item's reviews along with its rating summary.
type ItemReviewsResult struct {
	Reviews []domain.Review      `json:"reviews"`
	Summary domain.RatingSummary `json:"summary"`
}

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	repo     repository.ReviewRepository
	ratings  Ratings
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, ratings Ratings, producer *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:     repo,
		ratings:  ratings,
		producer: producer,
		logger:   logger,
	}
}

// CreateReview creates a new review and records its star vote against the
// item's rating counters. The review row is the source of truth: once it is
// persisted the operation has succeeded, and a failed counter increment is
// logged and counted rather than rolled back.
func (s *ReviewService) CreateReview(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	if input.ItemID <= 0 {
		return nil, apperrors.InvalidInput("item_id must be positive")
	}
	if input.AuthorID == "" {
		return nil, apperrors.InvalidInput("author_id is required")
	}
	if input.Rate < 1 || input.Rate > 5 {
		return nil, apperrors.InvalidInput("rate must be between 1 and 5")
	}
	if input.Comment != nil && strings.TrimSpace(*input.Comment) == "" {
		return nil, apperrors.InvalidInput("comment must not be blank when present")
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		ItemID:    input.ItemID,
		AuthorID:  input.AuthorID,
		Comment:   input.Comment,
		Rate:      input.Rate,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	reviewsCreatedTotal.Inc()

	if err := s.ratings.SaveRating(ctx, review.ItemID, review.Rate); err != nil {
		ratingIncrementFailuresTotal.Inc()
		s.logger.ErrorContext(ctx, "review persisted but rating increment failed",
			slog.String("review_id", review.ID),
			slog.Int64("item_id", review.ItemID),
			slog.Int("rate", review.Rate),
			slog.String("error", err.Error()),
		)
	} else {
		s.publishRatingUpdated(ctx, review.ItemID)
	}

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.Int64("item_id", review.ItemID),
		slog.String("author_id", review.AuthorID),
		slog.Int("rate", review.Rate),
	)

	return review, nil
}

func (s *ReviewService) publishRatingUpdated(ctx context.Context, itemID int64) {
	summary, err := s.ratings.GetSummary(ctx, itemID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load summary for rating.updated event",
			slog.Int64("item_id", itemID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.producer.PublishRatingUpdated(ctx, summary); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish rating.updated event",
			slog.Int64("item_id", itemID),
			slog.String("error", err.Error()),
		)
	}
}

// GetReview returns a single review by its identifier.
func (s *ReviewService) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("review id is required")
	}

	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	return review, nil
}

// ListByAuthor returns the author's reviews ordered by creation time.
func (s *ReviewService) ListByAuthor(ctx context.Context, authorID string, sort domain.SortBy, page pagination.Params) ([]domain.Review, error) {
	if authorID == "" {
		return nil, apperrors.InvalidInput("author_id is required")
	}

	reviews, err := s.repo.ListByAuthor(ctx, authorID, sort, page)
	if err != nil {
		return nil, fmt.Errorf("list reviews by author: %w", err)
	}

	return reviews, nil
}

// ListByItem returns a page of the item's reviews together with the item's
// current rating summary.
func (s *ReviewService) ListByItem(ctx context.Context, itemID int64, sort domain.SortBy, page pagination.Params) (*ItemReviewsResult, error) {
	if itemID <= 0 {
		return nil, apperrors.InvalidInput("item_id must be positive")
	}

	reviews, err := s.repo.ListByItem(ctx, itemID, sort, page)
	if err != nil {
		return nil, fmt.Errorf("list reviews by item: %w", err)
	}

	summary, err := s.ratings.GetSummary(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get rating summary: %w", err)
	}

	return &ItemReviewsResult{
		Reviews: reviews,
		Summary: summary,
	}, nil
}
