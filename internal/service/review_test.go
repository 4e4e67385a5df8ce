package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/review-service/internal/domain"
	"github.com/utafrali/review-service/internal/event"
	apperrors "github.com/utafrali/review-service/pkg/errors"
	pkgkafka "github.com/utafrali/review-service/pkg/kafka"
	"github.com/utafrali/review-service/pkg/pagination"
)

// --- Mock Review Repository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByAuthor(ctx context.Context, authorID string, sort domain.SortBy, page pagination.Params) ([]domain.Review, error) {
	args := m.Called(ctx, authorID, sort, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByItem(ctx context.Context, itemID int64, sort domain.SortBy, page pagination.Params) ([]domain.Review, error) {
	args := m.Called(ctx, itemID, sort, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

// --- Mock Ratings ---

type mockRatings struct {
	mock.Mock
}

func (m *mockRatings) SaveRating(ctx context.Context, itemID int64, rate int) error {
	args := m.Called(ctx, itemID, rate)
	return args.Error(0)
}

func (m *mockRatings) GetSummary(ctx context.Context, itemID int64) (domain.RatingSummary, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(domain.RatingSummary), args.Error(1)
}

// --- Test Helpers ---

func newTestReviewService(repo *mockReviewRepository, ratings *mockRatings) *ReviewService {
	logger := newTestLogger()
	// Create a Kafka producer that will fail silently in tests (no real broker).
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	producer := event.NewProducer(kafkaProducer, logger)
	return NewReviewService(repo, ratings, producer, logger)
}

func strPtr(s string) *string { return &s }

// --- CreateReview ---

func TestCreateReview_Success(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)
	ratings.On("SaveRating", ctx, int64(42), 5).Return(nil)
	ratings.On("GetSummary", ctx, int64(42)).Return(domain.RatingSummary{ItemID: 42, WilsonScore: 0.21, AvgStars: 5}, nil)

	input := CreateReviewInput{
		ItemID:   42,
		AuthorID: "alice",
		Comment:  strPtr("Great dish, would order again."),
		Rate:     5,
	}

	review, err := svc.CreateReview(ctx, input)

	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	_, parseErr := uuid.Parse(review.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, int64(42), review.ItemID)
	assert.Equal(t, "alice", review.AuthorID)
	assert.Equal(t, 5, review.Rate)
	assert.False(t, review.CreatedAt.IsZero())
	repo.AssertExpectations(t)
	ratings.AssertExpectations(t)
}

func TestCreateReview_NilCommentAllowed(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)
	ratings.On("SaveRating", ctx, int64(42), 3).Return(nil)
	ratings.On("GetSummary", ctx, int64(42)).Return(domain.RatingSummary{ItemID: 42}, nil)

	review, err := svc.CreateReview(ctx, CreateReviewInput{ItemID: 42, AuthorID: "bob", Rate: 3})

	require.NoError(t, err)
	assert.Nil(t, review.Comment)
}

func TestCreateReview_ValidationFailures(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateReviewInput
	}{
		{"zero item id", CreateReviewInput{ItemID: 0, AuthorID: "alice", Rate: 5}},
		{"missing author", CreateReviewInput{ItemID: 42, AuthorID: "", Rate: 5}},
		{"rate too low", CreateReviewInput{ItemID: 42, AuthorID: "alice", Rate: 0}},
		{"rate too high", CreateReviewInput{ItemID: 42, AuthorID: "alice", Rate: 6}},
		{"blank comment", CreateReviewInput{ItemID: 42, AuthorID: "alice", Comment: strPtr("   "), Rate: 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateReview(ctx, tc.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
	repo.AssertNotCalled(t, "Create")
}

func TestCreateReview_DuplicateAuthor(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).
		Return(apperrors.DuplicateReview(42, "alice"))

	_, err := svc.CreateReview(ctx, CreateReviewInput{ItemID: 42, AuthorID: "alice", Rate: 5})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	ratings.AssertNotCalled(t, "SaveRating")
}

func TestCreateReview_RatingFailureDoesNotFailOperation(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)
	ratings.On("SaveRating", ctx, int64(42), 4).Return(errors.New("db down"))

	review, err := svc.CreateReview(ctx, CreateReviewInput{ItemID: 42, AuthorID: "alice", Rate: 4})

	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	ratings.AssertNotCalled(t, "GetSummary")
}

// --- GetReview ---

func TestGetReview_Success(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)
	ctx := context.Background()

	want := &domain.Review{ID: "rev-1", ItemID: 42, AuthorID: "alice", Rate: 5}
	repo.On("GetByID", ctx, "rev-1").Return(want, nil)

	review, err := svc.GetReview(ctx, "rev-1")

	require.NoError(t, err)
	assert.Equal(t, want, review)
}

func TestGetReview_NotFound(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("review", "missing"))

	_, err := svc.GetReview(ctx, "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetReview_EmptyID(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)

	_, err := svc.GetReview(context.Background(), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "GetByID")
}

// --- ListByAuthor ---

func TestListByAuthor_Success(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)
	ctx := context.Background()

	page := pagination.Params{Offset: 0, Limit: 10}
	want := []domain.Review{{ID: "rev-1", ItemID: 42, AuthorID: "alice", Rate: 5}}
	repo.On("ListByAuthor", ctx, "alice", domain.SortDateDesc, page).Return(want, nil)

	reviews, err := svc.ListByAuthor(ctx, "alice", domain.SortDateDesc, page)

	require.NoError(t, err)
	assert.Equal(t, want, reviews)
}

func TestListByAuthor_EmptyAuthor(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)

	_, err := svc.ListByAuthor(context.Background(), "", domain.SortDateAsc, pagination.Params{Limit: 10})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- ListByItem ---

func TestListByItem_ReturnsReviewsAndSummary(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)
	ctx := context.Background()

	page := pagination.Params{Offset: 0, Limit: 10}
	reviews := []domain.Review{{ID: "rev-1", ItemID: 42, AuthorID: "alice", Rate: 5}}
	summary := domain.RatingSummary{ItemID: 42, WilsonScore: 0.21, AvgStars: 5}

	repo.On("ListByItem", ctx, int64(42), domain.SortDateAsc, page).Return(reviews, nil)
	ratings.On("GetSummary", ctx, int64(42)).Return(summary, nil)

	result, err := svc.ListByItem(ctx, 42, domain.SortDateAsc, page)

	require.NoError(t, err)
	assert.Equal(t, reviews, result.Reviews)
	assert.Equal(t, summary, result.Summary)
}

func TestListByItem_NoReviewsStillHasSummary(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)
	ctx := context.Background()

	page := pagination.Params{Offset: 0, Limit: 10}
	repo.On("ListByItem", ctx, int64(7), domain.SortDateAsc, page).Return([]domain.Review{}, nil)
	ratings.On("GetSummary", ctx, int64(7)).Return(domain.DefaultSummary(7), nil)

	result, err := svc.ListByItem(ctx, 7, domain.SortDateAsc, page)

	require.NoError(t, err)
	assert.Empty(t, result.Reviews)
	assert.Equal(t, domain.DefaultSummary(7), result.Summary)
}

func TestListByItem_InvalidItemID(t *testing.T) {
	repo := new(mockReviewRepository)
	ratings := new(mockRatings)
	svc := newTestReviewService(repo, ratings)

	_, err := svc.ListByItem(context.Background(), -1, domain.SortDateAsc, pagination.Params{Limit: 10})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
