package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/review-service/internal/domain"
	"github.com/utafrali/review-service/internal/service"
	"github.com/utafrali/review-service/pkg/httputil"
	"github.com/utafrali/review-service/pkg/pagination"
	"github.com/utafrali/review-service/pkg/validator"
)

// ReviewHandler handles HTTP requests for review and rating endpoints.
type ReviewHandler struct {
	reviews *service.ReviewService
	ratings *service.RatingService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(reviews *service.ReviewService, ratings *service.RatingService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		ratings: ratings,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for creating a review.
type CreateReviewRequest struct {
	ItemID  int64   `json:"item_id" validate:"required,gt=0"`
	Comment *string `json:"comment,omitempty"`
	Rate    int     `json:"rate" validate:"required,min=1,max=5"`
}

// GetRatingsRequest is the JSON request body for the batch ratings lookup.
type GetRatingsRequest struct {
	ItemIDs []int64 `json:"item_ids" validate:"required,min=1,dive,gt=0"`
}

// --- Handlers ---

// CreateReview handles POST /api/v1/reviews
// @Summary Create a review
// @Description Submits a review for an item and records its star vote. Requires X-User-ID header.
// @Tags reviews
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user identifier"
// @Param request body CreateReviewRequest true "Review to submit"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/reviews [post]
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	authorID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: httputil.NewProblem(r, "INVALID_INPUT", "invalid request body: "+err.Error()),
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	review, err := h.reviews.CreateReview(r.Context(), service.CreateReviewInput{
		ItemID:   req.ItemID,
		AuthorID: authorID,
		Comment:  req.Comment,
		Rate:     req.Rate,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// GetReview handles GET /api/v1/reviews/{reviewId}
// @Summary Get a review by ID
// @Tags reviews
// @Produce json
// @Param reviewId path string true "Review UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/reviews/{reviewId} [get]
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewId")

	review, err := h.reviews.GetReview(r.Context(), reviewID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// ListMyReviews handles GET /api/v1/reviews/my
// @Summary List the authenticated user's reviews
// @Tags reviews
// @Produce json
// @Param X-User-ID header string true "Authenticated user identifier"
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size (max 100)" default(10)
// @Param sortBy query string false "Sort order: date_asc or date_desc" default(date_asc)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/reviews/my [get]
func (h *ReviewHandler) ListMyReviews(w http.ResponseWriter, r *http.Request) {
	authorID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	page, sort, ok := h.listParams(w, r)
	if !ok {
		return
	}

	reviews, err := h.reviews.ListByAuthor(r.Context(), authorID, sort, page)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// ListItemReviews handles GET /api/v1/reviews/item/{itemId}
// @Summary List an item's reviews with its rating summary
// @Tags reviews
// @Produce json
// @Param itemId path int true "Item ID"
// @Param from query int false "Offset" default(0)
// @Param size query int false "Page size (max 100)" default(10)
// @Param sortBy query string false "Sort order: date_asc or date_desc" default(date_asc)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/reviews/item/{itemId} [get]
func (h *ReviewHandler) ListItemReviews(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil || itemID <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: httputil.NewProblem(r, "INVALID_INPUT", "item id must be a positive integer"),
		})
		return
	}

	page, sort, ok := h.listParams(w, r)
	if !ok {
		return
	}

	result, err := h.reviews.ListByItem(r.Context(), itemID, sort, page)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetRatings handles POST /api/v1/reviews/ratings
// @Summary Batch rating summary lookup
// @Description Returns the rating summary for each requested item. Items without votes get the default summary.
// @Tags ratings
// @Accept json
// @Produce json
// @Param request body GetRatingsRequest true "Item IDs to look up"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/reviews/ratings [post]
func (h *ReviewHandler) GetRatings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req GetRatingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: httputil.NewProblem(r, "INVALID_INPUT", "invalid request body: "+err.Error()),
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	summaries, err := h.ratings.GetSummaries(r.Context(), req.ItemIDs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summaries})
}

// --- Helpers ---

func (h *ReviewHandler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: httputil.NewProblem(r, "INVALID_INPUT", "X-User-ID header is required"),
		})
		return "", false
	}
	return userID, true
}

func (h *ReviewHandler) listParams(w http.ResponseWriter, r *http.Request) (pagination.Params, domain.SortBy, bool) {
	page, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return pagination.Params{}, "", false
	}

	sortParam := r.URL.Query().Get("sortBy")
	if sortParam == "" {
		sortParam = string(domain.SortDateAsc)
	}
	sort, err := domain.ParseSortBy(sortParam)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return pagination.Params{}, "", false
	}

	return page, sort, true
}
