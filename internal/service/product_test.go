package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
)

func TestCreateProduct_Success(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	f.users.On("GetByID", ctx, testVendorID).Return(completeVendor(), nil)
	f.products.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)
	f.events.On("PublishProductCreated", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := f.svc.CreateProduct(ctx, vendorActor(), &CreateProductInput{
		Name:     "Basmati Rice",
		Price:    decimal.RequireFromString("120.50"),
		Stock:    10,
		Category: domain.CategoryGroceries,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, testStoreID, product.StoreID)
	assert.Equal(t, domain.UnitPiece, product.Unit)
	assert.Equal(t, domain.DefaultProductImage, product.Image)
	assert.True(t, product.IsActive)
	assert.Zero(t, product.NumReviews)
	f.assertExpectations(t)
}

func TestCreateProduct_PublishFailureIsIgnored(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	f.users.On("GetByID", ctx, testVendorID).Return(completeVendor(), nil)
	f.products.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)
	f.events.On("PublishProductCreated", ctx, mock.AnythingOfType("*domain.Product")).Return(errors.New("broker down"))

	_, err := f.svc.CreateProduct(ctx, vendorActor(), &CreateProductInput{
		Name:     "Bread",
		Category: domain.CategoryBakery,
	})
	assert.NoError(t, err)
}

func TestCreateProduct_IncompleteProfile(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	vendor := completeVendor()
	vendor.Description = ""
	f.users.On("GetByID", ctx, testVendorID).Return(vendor, nil)

	_, err := f.svc.CreateProduct(ctx, vendorActor(), &CreateProductInput{Name: "Bread", Category: domain.CategoryBakery})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, 400, apperrors.HTTPStatus(err))
	f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_NoStore(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	vendor := completeVendor()
	vendor.StoreID = ""
	f.users.On("GetByID", ctx, testVendorID).Return(vendor, nil)

	_, err := f.svc.CreateProduct(ctx, vendorActor(), &CreateProductInput{Name: "Bread", Category: domain.CategoryBakery})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCreateProduct_InvalidFields(t *testing.T) {
	tests := []struct {
		name  string
		input CreateProductInput
	}{
		{name: "blank name", input: CreateProductInput{Name: "  ", Category: domain.CategoryBakery}},
		{name: "negative price", input: CreateProductInput{Name: "x", Category: domain.CategoryBakery, Price: decimal.NewFromInt(-1)}},
		{name: "price with three decimals", input: CreateProductInput{Name: "x", Category: domain.CategoryBakery, Price: decimal.RequireFromString("1.999")}},
		{name: "price beyond storage", input: CreateProductInput{Name: "x", Category: domain.CategoryBakery, Price: decimal.RequireFromString("10000000000")}},
		{name: "negative stock", input: CreateProductInput{Name: "x", Category: domain.CategoryBakery, Stock: -2}},
		{name: "unknown category", input: CreateProductInput{Name: "x", Category: "Toys"}},
		{name: "unknown unit", input: CreateProductInput{Name: "x", Category: domain.CategoryBakery, Unit: "crate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProductFixture()
			ctx := context.Background()
			f.users.On("GetByID", ctx, testVendorID).Return(completeVendor(), nil)

			_, err := f.svc.CreateProduct(ctx, vendorActor(), &tt.input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateProduct_TwoDecimalPricesAccepted(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	f.users.On("GetByID", ctx, testVendorID).Return(completeVendor(), nil)
	f.products.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)
	f.events.On("PublishProductCreated", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := f.svc.CreateProduct(ctx, vendorActor(), &CreateProductInput{
		Name:     "Rusk",
		Price:    decimal.RequireFromString("1.500"),
		Category: domain.CategoryBakery,
	})
	require.NoError(t, err)
	assert.Equal(t, "1.5", product.Price.String())
}

func TestGetProduct_NotFound(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	f.products.On("GetByID", ctx, testProductID).Return(nil, apperrors.NotFound("product", testProductID))

	_, err := f.svc.GetProduct(ctx, testProductID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestApplyUpdate_PartialUpdate(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	f.products.On("Update", ctx, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Stock == 0 && !p.IsActive && p.Name == "Basmati Rice"
	})).Return(nil)
	f.events.On("PublishProductUpdated", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	inactive := false
	product, err := f.svc.ApplyUpdate(ctx, sampleProduct(), domain.ProductUpdate{
		Stock:    intPtr(0),
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UnitKilogram, product.Unit)
	assert.False(t, product.UpdatedAt.IsZero())
	f.assertExpectations(t)
}

func TestApplyUpdate_InvalidUpdate(t *testing.T) {
	f := newProductFixture()

	_, err := f.svc.ApplyUpdate(context.Background(), sampleProduct(), domain.ProductUpdate{Unit: strPtr("crate")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = f.svc.ApplyUpdate(context.Background(), sampleProduct(), domain.ProductUpdate{Name: strPtr(" ")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	fine := decimal.RequireFromString("49.995")
	_, err = f.svc.ApplyUpdate(context.Background(), sampleProduct(), domain.ProductUpdate{OriginalPrice: &fine})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGetOwnedProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("owner", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("GetByID", ctx, testProductID).Return(sampleProduct(), nil)

		product, err := f.svc.GetOwnedProduct(ctx, vendorActor(), testProductID)
		require.NoError(t, err)
		assert.Equal(t, testProductID, product.ID)
	})

	t.Run("non-owner", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("GetByID", ctx, testProductID).Return(sampleProduct(), nil)

		intruder := Actor{UserID: "v2", Role: domain.RoleVendor, StoreID: otherStoreID}
		_, err := f.svc.GetOwnedProduct(ctx, intruder, testProductID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("missing", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("GetByID", ctx, testProductID).Return(nil, apperrors.NotFound("product", testProductID))

		_, err := f.svc.GetOwnedProduct(ctx, vendorActor(), testProductID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestAdminUpdateProduct_SkipsOwnership(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()

	f.products.On("GetByID", ctx, testProductID).Return(sampleProduct(), nil)
	f.products.On("Update", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)
	f.events.On("PublishProductUpdated", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := f.svc.AdminUpdateProduct(ctx, testProductID, domain.ProductUpdate{Name: strPtr("Rice")})
	require.NoError(t, err)
	assert.Equal(t, "Rice", product.Name)
	assert.Equal(t, testStoreID, product.StoreID)
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("owner", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("GetByID", ctx, testProductID).Return(sampleProduct(), nil)
		f.products.On("Delete", ctx, testProductID).Return(nil)
		f.events.On("PublishProductDeleted", ctx, testProductID, testStoreID).Return(nil)

		require.NoError(t, f.svc.DeleteProduct(ctx, vendorActor(), testProductID))
		f.assertExpectations(t)
	})

	t.Run("non-owner", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("GetByID", ctx, testProductID).Return(sampleProduct(), nil)

		err := f.svc.DeleteProduct(ctx, Actor{UserID: "v2", StoreID: otherStoreID}, testProductID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		f.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admin", func(t *testing.T) {
		f := newProductFixture()
		f.products.On("GetByID", ctx, testProductID).Return(sampleProduct(), nil)
		f.products.On("Delete", ctx, testProductID).Return(nil)
		f.events.On("PublishProductDeleted", ctx, testProductID, testStoreID).Return(errors.New("broker down"))

		assert.NoError(t, f.svc.AdminDeleteProduct(ctx, testProductID))
	})
}
