package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createReviewBody struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
	Rate   int   `json:"rate" validate:"required,min=1,max=5"`
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(createReviewBody{ItemID: 1, Rate: 5}))
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	err := Validate(createReviewBody{ItemID: -3, Rate: 6})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Contains(t, fields, "ItemID")
	assert.Contains(t, fields, "Rate")
	assert.Equal(t, "must be at most 5", fields["Rate"])
}

func TestValidate_ErrorMessageNamesFields(t *testing.T) {
	err := Validate(createReviewBody{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ItemID")
	assert.Contains(t, err.Error(), "is required")
}
