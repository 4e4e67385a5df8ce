package domain

import (
	"fmt"
	"time"

	apperrors "github.com/utafrali/review-service/pkg/errors"
)

// Review is a single star review of an item by an author. At most one review
// exists per (item, author) pair; reviews are never updated or deleted.
type Review struct {
	ID        string    `json:"id"`
	ItemID    int64     `json:"item_id"`
	AuthorID  string    `json:"author_id"`
	Comment   *string   `json:"comment,omitempty"`
	Rate      int       `json:"rate"`
	CreatedAt time.Time `json:"created_at"`
}

// SortBy is the closed set of review list orderings.
type SortBy string

const (
	SortDateAsc  SortBy = "date_asc"
	SortDateDesc SortBy = "date_desc"
)

// ParseSortBy validates a sort parameter. Unrecognized values are rejected at
// the boundary rather than propagated into a query.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(s) {
	case SortDateAsc:
		return SortDateAsc, nil
	case SortDateDesc:
		return SortDateDesc, nil
	default:
		return "", apperrors.InvalidInput(fmt.Sprintf("unknown sortBy value: %q", s))
	}
}

// Direction returns the SQL ordering keyword for the sort.
func (s SortBy) Direction() string {
	if s == SortDateDesc {
		return "DESC"
	}
	return "ASC"
}
