package pagination

import (
	"net/http"
	"strconv"

	apperrors "github.com/utafrali/review-service/pkg/errors"
)

const (
	// DefaultSize is the page size used when the caller does not specify one.
	DefaultSize = 10
	// MaxSize caps the page size a caller may request.
	MaxSize = 100
)

// Params holds offset/limit pagination parameters extracted from query strings.
type Params struct {
	Offset int `json:"from"`
	Limit  int `json:"size"`
}

// Default returns the default pagination window.
func Default() Params {
	return Params{Offset: 0, Limit: DefaultSize}
}

// FromRequest extracts pagination parameters from the `from` and `size` query
// parameters. Malformed or out-of-range values are rejected with an
// invalid-input error rather than silently clamped.
func FromRequest(r *http.Request) (Params, error) {
	p := Default()

	if raw := r.URL.Query().Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return Params{}, apperrors.InvalidInput("'from' must be an integer >= 0")
		}
		p.Offset = v
	}

	if raw := r.URL.Query().Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return Params{}, apperrors.InvalidInput("'size' must be an integer > 0")
		}
		if v > MaxSize {
			v = MaxSize
		}
		p.Limit = v
	}

	return p, nil
}
