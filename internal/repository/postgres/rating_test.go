package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/review-service/internal/domain"
	"github.com/utafrali/review-service/pkg/database"
	apperrors "github.com/utafrali/review-service/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func strPtr(s string) *string { return &s }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var ratingColumns = []string{
	"item_id", "rate_one", "rate_two", "rate_three", "rate_four", "rate_five",
}

func sampleCounters() domain.RatingCounters {
	return domain.RatingCounters{
		ItemID:    42,
		RateOne:   1,
		RateTwo:   0,
		RateThree: 2,
		RateFour:  10,
		RateFive:  5,
	}
}

func ratingRow(c domain.RatingCounters) []any {
	return []any{c.ItemID, c.RateOne, c.RateTwo, c.RateThree, c.RateFour, c.RateFive}
}

func TestRatingRepository_EnsureExists_NewRow(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRatingRepository(mock)

	mock.ExpectExec("INSERT INTO item_ratings").
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.EnsureExists(context.Background(), 42)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_EnsureExists_RowAlreadyPresent(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRatingRepository(mock)

	// ON CONFLICT DO NOTHING reports zero affected rows; that is still success.
	mock.ExpectExec("INSERT INTO item_ratings").
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err := repo.EnsureExists(context.Background(), 42)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_Increment_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRatingRepository(mock)

	mock.ExpectExec("UPDATE item_ratings SET").
		WithArgs(int64(42), 4).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Increment(context.Background(), 42, 4)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_Increment_RateOutOfRange(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRatingRepository(mock)

	for _, rate := range []int{0, 6, -1} {
		err := repo.Increment(context.Background(), 42, rate)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_Increment_DBError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRatingRepository(mock)

	mock.ExpectExec("UPDATE item_ratings SET").
		WithArgs(int64(42), 5).
		WillReturnError(errors.New("connection refused"))

	err := repo.Increment(context.Background(), 42, 5)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_GetCounters_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRatingRepository(mock)

	c := sampleCounters()
	mock.ExpectQuery("SELECT .+ FROM item_ratings WHERE item_id").
		WithArgs(c.ItemID).
		WillReturnRows(
			pgxmock.NewRows(ratingColumns).AddRow(ratingRow(c)...),
		)

	result, err := repo.GetCounters(context.Background(), c.ItemID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, c, *result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_GetCounters_Absent(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRatingRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM item_ratings WHERE item_id").
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetCounters(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_ListCounters_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRatingRepository(mock)

	c1 := sampleCounters()
	c2 := domain.RatingCounters{ItemID: 43, RateFive: 1}

	mock.ExpectQuery("SELECT .+ FROM item_ratings WHERE item_id = ANY").
		WithArgs([]int64{42, 43, 44}).
		WillReturnRows(
			pgxmock.NewRows(ratingColumns).
				AddRow(ratingRow(c1)...).
				AddRow(ratingRow(c2)...),
		)

	counters, err := repo.ListCounters(context.Background(), []int64{42, 43, 44})
	require.NoError(t, err)
	assert.Len(t, counters, 2)
	assert.Equal(t, c1, counters[0])
	assert.Equal(t, c2, counters[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_ListCounters_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewRatingRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM item_ratings WHERE item_id = ANY").
		WithArgs([]int64{100, 200}).
		WillReturnRows(pgxmock.NewRows(ratingColumns))

	counters, err := repo.ListCounters(context.Background(), []int64{100, 200})
	require.NoError(t, err)
	assert.Equal(t, []domain.RatingCounters{}, counters)
	assert.NoError(t, mock.ExpectationsWereMet())
}
