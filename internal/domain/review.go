package domain

import (
	"time"

	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
)

// Review rating bounds.
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 1000
)

// ErrDuplicateReview is returned when a user reviews a product twice.
var ErrDuplicateReview = apperrors.Conflict("You have already reviewed this product.")

// Review is a customer's rating of a product they received. A user reviews a
// given product at most once.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`

	// Populated when listing.
	User *Reviewer `json:"user,omitempty"`
}

// Reviewer is the public part of the reviewing user.
type Reviewer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
}

// ProductAggregate holds the review-derived fields of a product.
type ProductAggregate struct {
	Rating     float64 `json:"rating"`
	NumReviews int     `json:"numReviews"`
}
