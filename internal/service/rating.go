package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/review-service/internal/domain"
	"github.com/utafrali/review-service/internal/repository"
	apperrors "github.com/utafrali/review-service/pkg/errors"
)

// RatingService implements the business logic for rating counters and their
// derived summaries. Durable state lives entirely in the counters table; the
// summary cache is an optional read-side optimization and its failures never
// surface to callers.
type RatingService struct {
	repo   repository.RatingRepository
	cache  repository.SummaryCache
	logger *slog.Logger
}

// NewRatingService creates a new rating service. cache may be nil, in which
// case every read recomputes the summary from the counters.
func NewRatingService(repo repository.RatingRepository, cache repository.SummaryCache, logger *slog.Logger) *RatingService {
	return &RatingService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// SaveRating records one star vote for an item. The row is created lazily on
// first vote; both steps are atomic at the storage layer so concurrent votes
// for the same item are never lost.
func (s *RatingService) SaveRating(ctx context.Context, itemID int64, rate int) error {
	if itemID <= 0 {
		return apperrors.InvalidInput("item_id must be positive")
	}
	if rate < 1 || rate > 5 {
		return apperrors.InvalidInput(fmt.Sprintf("rate must be between 1 and 5, got %d", rate))
	}

	if err := s.repo.EnsureExists(ctx, itemID); err != nil {
		return fmt.Errorf("ensure rating row: %w", err)
	}

	if err := s.repo.Increment(ctx, itemID, rate); err != nil {
		return fmt.Errorf("increment rating: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, itemID); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate rating summary cache",
				slog.Int64("item_id", itemID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// GetSummary returns the derived rating summary for an item. Items with no
// votes yet get the neutral default summary.
func (s *RatingService) GetSummary(ctx context.Context, itemID int64) (domain.RatingSummary, error) {
	if itemID <= 0 {
		return domain.RatingSummary{}, apperrors.InvalidInput("item_id must be positive")
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, itemID)
		if err != nil {
			summaryCacheHitsTotal.WithLabelValues("error").Inc()
			s.logger.WarnContext(ctx, "rating summary cache read failed",
				slog.Int64("item_id", itemID),
				slog.String("error", err.Error()),
			)
		} else if cached != nil {
			summaryCacheHitsTotal.WithLabelValues("hit").Inc()
			return *cached, nil
		} else {
			summaryCacheHitsTotal.WithLabelValues("miss").Inc()
		}
	}

	counters, err := s.repo.GetCounters(ctx, itemID)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("get rating counters: %w", err)
	}

	summary := domain.DefaultSummary(itemID)
	if counters != nil {
		summary = counters.Summary()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			s.logger.WarnContext(ctx, "rating summary cache write failed",
				slog.Int64("item_id", itemID),
				slog.String("error", err.Error()),
			)
		}
	}

	return summary, nil
}

// GetSummaries returns summaries for a batch of items in one pass. Every
// requested item is present in the result; items without votes map to the
// default summary. The cache is bypassed: the batch read is already a single
// query.
func (s *RatingService) GetSummaries(ctx context.Context, itemIDs []int64) (map[int64]domain.RatingSummary, error) {
	if len(itemIDs) == 0 {
		return nil, apperrors.InvalidInput("item_ids must not be empty")
	}
	for _, id := range itemIDs {
		if id <= 0 {
			return nil, apperrors.InvalidInput("item_ids must be positive")
		}
	}

	counters, err := s.repo.ListCounters(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("list rating counters: %w", err)
	}

	result := make(map[int64]domain.RatingSummary, len(itemIDs))
	for _, c := range counters {
		result[c.ItemID] = c.Summary()
	}
	for _, id := range itemIDs {
		if _, ok := result[id]; !ok {
			result[id] = domain.DefaultSummary(id)
		}
	}

	return result, nil
}
