package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/review-service/pkg/errors"
)

func TestFromRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/reviews/my", nil)

	p, err := FromRequest(r)

	require.NoError(t, err)
	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, DefaultSize, p.Limit)
}

func TestFromRequest_ExplicitValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/reviews/my?from=40&size=20", nil)

	p, err := FromRequest(r)

	require.NoError(t, err)
	assert.Equal(t, 40, p.Offset)
	assert.Equal(t, 20, p.Limit)
}

func TestFromRequest_CapsSize(t *testing.T) {
	r := httptest.NewRequest("GET", "/reviews/my?size=500", nil)

	p, err := FromRequest(r)

	require.NoError(t, err)
	assert.Equal(t, MaxSize, p.Limit)
}

func TestFromRequest_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"negative from", "?from=-1"},
		{"non-numeric from", "?from=abc"},
		{"zero size", "?size=0"},
		{"negative size", "?size=-5"},
		{"non-numeric size", "?size=ten"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/reviews/my"+tt.query, nil)

			_, err := FromRequest(r)

			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}
