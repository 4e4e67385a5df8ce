package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/review-service/pkg/errors"
)

func TestParseSortBy(t *testing.T) {
	s, err := ParseSortBy("date_asc")
	require.NoError(t, err)
	assert.Equal(t, SortDateAsc, s)

	s, err = ParseSortBy("date_desc")
	require.NoError(t, err)
	assert.Equal(t, SortDateDesc, s)
}

func TestParseSortBy_RejectsUnknownValues(t *testing.T) {
	for _, raw := range []string{"", "DATE_ASC", "created_at", "rating"} {
		_, err := ParseSortBy(raw)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "value %q", raw)
	}
}

func TestSortBy_Direction(t *testing.T) {
	assert.Equal(t, "ASC", SortDateAsc.Direction())
	assert.Equal(t, "DESC", SortDateDesc.Direction())
}
