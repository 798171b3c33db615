package repository

import (
	"context"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
)

// ProductFilter is the compound predicate of a product listing. Empty fields
// are not applied. When StoreIDs is non-nil only products of those stores
// match; the caller short-circuits an empty set before querying.
type ProductFilter struct {
	Search   string
	Category string
	StoreID  string
	StoreIDs []string
	Offset   int
	Limit    int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product with its store summary populated.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns one page of products matching filter in insertion order,
	// along with the total count of matches.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Sample returns up to limit random active products, restricted to
	// storeIDs when it is non-nil.
	Sample(ctx context.Context, storeIDs []string, limit int) ([]domain.RecommendedProduct, error)

	// Update persists the mutable fields of product.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product by its identifier.
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Exists reports whether userID already reviewed productID.
	Exists(ctx context.Context, userID, productID string) (bool, error)

	// CreateWithAggregate inserts review and recomputes the product's rating
	// and review count in one transaction, holding the product row lock.
	CreateWithAggregate(ctx context.Context, review *domain.Review) (domain.ProductAggregate, error)

	// ListByProductID returns a product's reviews newest first with the
	// reviewer populated.
	ListByProductID(ctx context.Context, productID string) ([]domain.Review, error)
}

// StoreRepository resolves stores by location.
type StoreRepository interface {
	// ActiveIDsByPincode returns the ids of active stores whose address has
	// the given pin code. An unknown pin code yields an empty slice.
	ActiveIDsByPincode(ctx context.Context, pincode string) ([]string, error)
}

// UserRepository reads user profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// PurchaseVerifier answers whether a user received a product.
type PurchaseVerifier interface {
	// HasDeliveredOrder reports whether userID has a Delivered order that
	// contains productID.
	HasDeliveredOrder(ctx context.Context, userID, productID string) (bool, error)
}
