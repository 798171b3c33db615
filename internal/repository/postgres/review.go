package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/database"
	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
)

const reviewUniqueConstraint = "reviews_user_product_key"

// ReviewRepository implements review persistence operations using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

// Exists reports whether the user already reviewed the product.
func (r *ReviewRepository) Exists(ctx context.Context, userID, productID string) (_ bool, err error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE user_id = $1 AND product_id = $2)`

	ctx, end := database.TraceQuery(ctx, "ReviewExists", query)
	defer func() { end(err) }()

	var exists bool
	if err = r.pool.QueryRow(ctx, query, userID, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check existing review: %w", err)
	}
	return exists, nil
}

// CreateWithAggregate inserts the review and rewrites the product's rating
// and review count from all of its reviews. The product row stays locked
// until commit, so concurrent reviews of one product apply one at a time.
func (r *ReviewRepository) CreateWithAggregate(ctx context.Context, review *domain.Review) (_ domain.ProductAggregate, err error) {
	ctx, end := database.TraceQuery(ctx, "CreateReview", "create review with aggregate")
	defer func() { end(err) }()

	var agg domain.ProductAggregate

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return agg, fmt.Errorf("begin review transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked string
	err = tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, review.ProductID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return agg, apperrors.NotFound("product", review.ProductID)
		}
		return agg, fmt.Errorf("lock product: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reviews (id, user_id, product_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		review.ID, review.UserID, review.ProductID, review.Rating, review.Comment, review.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, reviewUniqueConstraint) {
			return agg, domain.ErrDuplicateReview
		}
		return agg, fmt.Errorf("insert review: %w", err)
	}

	err = tx.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews
		WHERE product_id = $1`, review.ProductID,
	).Scan(&agg.Rating, &agg.NumReviews)
	if err != nil {
		return agg, fmt.Errorf("aggregate reviews: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE products SET rating = $1, num_reviews = $2, updated_at = NOW() WHERE id = $3`,
		agg.Rating, agg.NumReviews, review.ProductID,
	)
	if err != nil {
		return agg, fmt.Errorf("update product aggregate: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		if isUniqueViolation(err, reviewUniqueConstraint) {
			return agg, domain.ErrDuplicateReview
		}
		return agg, fmt.Errorf("commit review transaction: %w", err)
	}
	return agg, nil
}

// ListByProductID returns the product's reviews newest first.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID string) (_ []domain.Review, err error) {
	query := `
		SELECT r.id, r.product_id, r.user_id, r.rating, r.comment, r.created_at,
		       COALESCE(u.name, ''), COALESCE(u.profile_image, '')
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC, r.id DESC`

	ctx, end := database.TraceQuery(ctx, "ListReviews", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var (
			rv   domain.Review
			user domain.Reviewer
		)
		if err = rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&user.Name,
			&user.ProfileImage,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		user.ID = rv.UserID
		rv.User = &user
		reviews = append(reviews, rv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return reviews, nil
}
