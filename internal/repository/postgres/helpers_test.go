package postgres

import (
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// anyArgs matches n arguments of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func strPtr(s string) *string { return &s }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

const (
	productID = "7f6c1d5e-2b1a-4c33-9d7e-0d0f3a9b8c11"
	storeID   = "3b0d1e0a-8f5c-4f6e-a1d2-6c7b8e9f0a12"
	userID    = "c1f2e3d4-5a6b-4c7d-8e9f-0a1b2c3d4e5f"
)

var productCols = []string{
	"id", "name", "description", "price", "original_price", "stock", "unit",
	"category", "image", "store_id", "rating", "num_reviews", "is_active",
	"created_at", "updated_at",
}

func sampleProduct() domain.Product {
	orig := decimal.RequireFromString("60.00")
	return domain.Product{
		ID:            productID,
		Name:          "Multigrain Bread",
		Description:   "Baked this morning",
		Price:         decimal.RequireFromString("45.50"),
		OriginalPrice: &orig,
		Stock:         12,
		Unit:          domain.UnitPiece,
		Category:      domain.CategoryBakery,
		Image:         domain.DefaultProductImage,
		StoreID:       storeID,
		Rating:        4.5,
		NumReviews:    2,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func productRow(p domain.Product, extra ...any) []any {
	orig := decimal.NullDecimal{}
	if p.OriginalPrice != nil {
		orig = decimal.NewNullDecimal(*p.OriginalPrice)
	}
	return append([]any{
		p.ID, p.Name, p.Description, p.Price, orig, p.Stock, p.Unit,
		p.Category, p.Image, p.StoreID, p.Rating, p.NumReviews, p.IsActive,
		p.CreatedAt, p.UpdatedAt,
	}, extra...)
}
