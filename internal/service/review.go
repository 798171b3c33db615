package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
)

// ReviewService implements review submission and listing.
type ReviewService struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	verifier repository.PurchaseVerifier
	events   EventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

// NewReviewService creates a new review service.
func NewReviewService(
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
	verifier repository.PurchaseVerifier,
	events EventPublisher,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		products: products,
		reviews:  reviews,
		verifier: verifier,
		events:   events,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SubmitReviewInput holds the parameters for a new review.
type SubmitReviewInput struct {
	Rating  int
	Comment string
}

// SubmitReview records userID's review of productID and returns it with the
// product's recomputed aggregate. The product must exist, the user must have
// received it in a Delivered order, and may review it only once.
func (s *ReviewService) SubmitReview(ctx context.Context, userID, productID string, input *SubmitReviewInput) (*domain.Review, domain.ProductAggregate, error) {
	var agg domain.ProductAggregate

	if input.Rating < domain.MinRating || input.Rating > domain.MaxRating {
		return nil, agg, apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	if utf8.RuneCountInString(input.Comment) > domain.MaxCommentLength {
		return nil, agg, apperrors.InvalidInput(fmt.Sprintf("comment must be at most %d characters", domain.MaxCommentLength))
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, agg, fmt.Errorf("get product for review: %w", err)
	}

	purchased, err := s.verifier.HasDeliveredOrder(ctx, userID, productID)
	if err != nil {
		return nil, agg, fmt.Errorf("verify purchase: %w", err)
	}
	if !purchased {
		return nil, agg, apperrors.Forbidden("You can only review products you have purchased and received.")
	}

	reviewed, err := s.reviews.Exists(ctx, userID, productID)
	if err != nil {
		return nil, agg, fmt.Errorf("check existing review: %w", err)
	}
	if reviewed {
		return nil, agg, domain.ErrDuplicateReview
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: s.now(),
	}

	agg, err = s.reviews.CreateWithAggregate(ctx, review)
	if err != nil {
		return nil, domain.ProductAggregate{}, fmt.Errorf("create review: %w", err)
	}

	if err := s.events.PublishReviewCreated(ctx, review, agg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", productID),
		slog.String("user_id", userID),
		slog.Float64("product_rating", agg.Rating),
		slog.Int("num_reviews", agg.NumReviews),
	)

	return review, agg, nil
}

// ListReviews returns a product's reviews newest first. An unknown product
// has no reviews.
func (s *ReviewService) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}
