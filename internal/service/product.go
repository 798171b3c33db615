package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
)

// ProductService implements the business logic for product operations.
type ProductService struct {
	products repository.ProductRepository
	stores   repository.StoreRepository
	users    repository.UserRepository
	events   EventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	stores repository.StoreRepository,
	users repository.UserRepository,
	events EventPublisher,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		stores:   stores,
		users:    users,
		events:   events,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Stock         int
	Category      string
	Image         string
	Unit          string
}

// CreateProduct lists a new product in the calling vendor's store.
func (s *ProductService) CreateProduct(ctx context.Context, actor Actor, input *CreateProductInput) (*domain.Product, error) {
	vendor, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("get vendor profile: %w", err)
	}
	if err := ValidateVendorProfile(vendor); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Unit == "" {
		input.Unit = domain.UnitPiece
	}
	if input.Image == "" {
		input.Image = domain.DefaultProductImage
	}
	if err := validateProductFields(&input.Price, input.OriginalPrice, &input.Stock, &input.Category, &input.Unit); err != nil {
		return nil, err
	}

	now := s.now()
	product := &domain.Product{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Stock:         input.Stock,
		Unit:          input.Unit,
		Category:      input.Category,
		Image:         input.Image,
		StoreID:       vendor.StoreID,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.events.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("store_id", product.StoreID),
	)

	return product, nil
}

// GetProduct retrieves a product with its store summary.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// GetOwnedProduct loads a product the actor's store owns. Vendor update
// routes call it before reading the request body, so a non-owner is refused
// whatever they sent.
func (s *ProductService) GetOwnedProduct(ctx context.Context, actor Actor, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	if err := AuthorizeMutation(actor, product); err != nil {
		return nil, err
	}
	return product, nil
}

// AdminUpdateProduct applies a partial update without an ownership check.
func (s *ProductService) AdminUpdateProduct(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return s.ApplyUpdate(ctx, product, upd)
}

// ApplyUpdate validates upd, applies it to product and persists the result.
// Only the fields set in upd change.
func (s *ProductService) ApplyUpdate(ctx context.Context, product *domain.Product, upd domain.ProductUpdate) (*domain.Product, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, apperrors.InvalidInput("product name must not be empty")
	}
	if err := validateProductFields(upd.Price, upd.OriginalPrice, upd.Stock, upd.Category, upd.Unit); err != nil {
		return nil, err
	}

	upd.Apply(product)
	product.UpdatedAt = s.now()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.events.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// DeleteProduct removes a product on behalf of the owning vendor.
func (s *ProductService) DeleteProduct(ctx context.Context, actor Actor, id string) error {
	return s.delete(ctx, id, func(p *domain.Product) error {
		return AuthorizeMutation(actor, p)
	})
}

// AdminDeleteProduct removes a product without an ownership check.
func (s *ProductService) AdminDeleteProduct(ctx context.Context, id string) error {
	return s.delete(ctx, id, nil)
}

func (s *ProductService) delete(ctx context.Context, id string, authorize func(*domain.Product) error) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}
	if authorize != nil {
		if err := authorize(product); err != nil {
			return err
		}
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.events.PublishProductDeleted(ctx, product.ID, product.StoreID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", product.ID),
	)

	return nil
}

// maxPrice is the largest amount a NUMERIC(12, 2) column holds.
var maxPrice = decimal.RequireFromString("9999999999.99")

// validateProductFields checks the fields that are set. Nil means absent.
func validateProductFields(price, originalPrice *decimal.Decimal, stock *int, category, unit *string) error {
	if err := validateAmount("price", price); err != nil {
		return err
	}
	if err := validateAmount("original price", originalPrice); err != nil {
		return err
	}
	if stock != nil && *stock < 0 {
		return apperrors.InvalidInput("stock must not be negative")
	}
	if category != nil && !domain.IsValidCategory(*category) {
		return apperrors.InvalidInput("category must be one of: " + strings.Join(domain.ValidCategories(), ", "))
	}
	if unit != nil && !domain.IsValidUnit(*unit) {
		return apperrors.InvalidInput("unit must be one of: " + strings.Join(domain.ValidUnits(), ", "))
	}
	return nil
}

// validateAmount rejects amounts the catalog cannot store exactly.
func validateAmount(name string, amount *decimal.Decimal) error {
	switch {
	case amount == nil:
		return nil
	case amount.IsNegative():
		return apperrors.InvalidInput(name + " must not be negative")
	case !amount.Equal(amount.Round(2)):
		return apperrors.InvalidInput(name + " must have at most 2 decimal places")
	case amount.GreaterThan(maxPrice):
		return apperrors.InvalidInput(name + " must not exceed " + maxPrice.String())
	}
	return nil
}
