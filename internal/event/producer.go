package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/utafrali/review-service/internal/domain"
	pkgkafka "github.com/utafrali/review-service/pkg/kafka"
)

// Kafka topic constants for review domain events.
const (
	TopicReviewCreated = "reviews.review.created"
	TopicRatingUpdated = "reviews.rating.updated"
)

// Aggregate type constants.
const (
	AggregateTypeReview = "review"
	AggregateTypeRating = "rating"
)

// Source identifier for events originating from this service.
const SourceReviewService = "review-service"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID        string    `json:"id"`
	ItemID    int64     `json:"item_id"`
	AuthorID  string    `json:"author_id"`
	Comment   *string   `json:"comment,omitempty"`
	Rate      int       `json:"rate"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingUpdatedData is the payload for a rating.updated event, carrying the
// freshly derived summary for downstream consumers (search, catalog).
type RatingUpdatedData struct {
	ItemID      int64   `json:"item_id"`
	WilsonScore float32 `json:"wilson_score"`
	AvgStars    float32 `json:"avg_stars"`
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the review service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:        review.ID,
		ItemID:    review.ItemID,
		AuthorID:  review.AuthorID,
		Comment:   review.Comment,
		Rate:      review.Rate,
		CreatedAt: review.CreatedAt,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, review.ID, AggregateTypeReview, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ID),
		slog.Int64("item_id", review.ItemID),
	)

	return nil
}

// PublishRatingUpdated publishes a rating.updated event with the recomputed
// summary for the item.
func (p *Producer) PublishRatingUpdated(ctx context.Context, summary domain.RatingSummary) error {
	data := RatingUpdatedData{
		ItemID:      summary.ItemID,
		WilsonScore: summary.WilsonScore,
		AvgStars:    summary.AvgStars,
	}

	aggregateID := strconv.FormatInt(summary.ItemID, 10)
	event, err := pkgkafka.NewEvent(TopicRatingUpdated, aggregateID, AggregateTypeRating, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create rating.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicRatingUpdated, event); err != nil {
		return fmt.Errorf("publish rating.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published rating.updated event",
		slog.Int64("item_id", summary.ItemID),
	)

	return nil
}
