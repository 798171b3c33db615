package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/service"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/httputil"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/validator"
)

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateReviewRequest is the JSON request body for reviewing a product.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// CreateReviewResponse is the body returned for a new review.
type CreateReviewResponse struct {
	Message    string         `json:"message"`
	Review     *domain.Review `json:"review"`
	Rating     float64        `json:"rating"`
	NumReviews int            `json:"numReviews"`
}

// CreateReview handles POST /api/products/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	review, agg, err := h.service.SubmitReview(r.Context(), actorFrom(r).UserID, productID.String(), &service.SubmitReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, CreateReviewResponse{
		Message:    "Review added successfully",
		Review:     review,
		Rating:     agg.Rating,
		NumReviews: agg.NumReviews,
	})
}

// ListReviews handles GET /api/products/{id}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	reviews, err := h.service.ListReviews(r.Context(), productID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reviews)
}
