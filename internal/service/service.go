// Package service implements the catalog's business rules: listing and
// sampling products, guarded product mutations, and review submission with
// synchronous rating aggregation.
package service

import (
	"context"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
)

// EventPublisher publishes catalog domain events. Publishing is best effort;
// callers log failures and carry on.
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, product *domain.Product) error
	PublishProductUpdated(ctx context.Context, product *domain.Product) error
	PublishProductDeleted(ctx context.Context, id, storeID string) error
	PublishReviewCreated(ctx context.Context, review *domain.Review, agg domain.ProductAggregate) error
}

// Actor is the authenticated caller of a mutation.
type Actor struct {
	UserID  string
	Role    string
	StoreID string
}
