package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
)

// --- Mock Repositories ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) Sample(ctx context.Context, storeIDs []string, limit int) ([]domain.RecommendedProduct, error) {
	args := m.Called(ctx, storeIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecommendedProduct), args.Error(1)
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockStoreRepository struct {
	mock.Mock
}

func (m *mockStoreRepository) ActiveIDsByPincode(ctx context.Context, pincode string) ([]string, error) {
	args := m.Called(ctx, pincode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepository) CreateWithAggregate(ctx context.Context, review *domain.Review) (domain.ProductAggregate, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(domain.ProductAggregate), args.Error(1)
}

func (m *mockReviewRepository) ListByProductID(ctx context.Context, productID string) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) HasDeliveredOrder(ctx context.Context, userID, productID string) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

// --- Mock Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockPublisher) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockPublisher) PublishProductDeleted(ctx context.Context, id, storeID string) error {
	return m.Called(ctx, id, storeID).Error(0)
}

func (m *mockPublisher) PublishReviewCreated(ctx context.Context, review *domain.Review, agg domain.ProductAggregate) error {
	return m.Called(ctx, review, agg).Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type productFixture struct {
	products *mockProductRepository
	stores   *mockStoreRepository
	users    *mockUserRepository
	events   *mockPublisher
	svc      *ProductService
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products: new(mockProductRepository),
		stores:   new(mockStoreRepository),
		users:    new(mockUserRepository),
		events:   new(mockPublisher),
	}
	f.svc = NewProductService(f.products, f.stores, f.users, f.events, newTestLogger())
	return f
}

func (f *productFixture) assertExpectations(t mock.TestingT) {
	f.products.AssertExpectations(t)
	f.stores.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

const (
	testStoreID   = "5f0c6e1e-2b7a-4d55-9d3c-0f6c1b2a3d4e"
	otherStoreID  = "8a1d2c3b-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
	testProductID = "0b9e8d7c-6f5a-4b3c-a2d1-e0f9a8b7c6d5"
	testVendorID  = "vendor-1"
)

func vendorActor() Actor {
	return Actor{UserID: testVendorID, Role: domain.RoleVendor, StoreID: testStoreID}
}

func completeVendor() *domain.User {
	return &domain.User{
		ID:          testVendorID,
		Name:        "Asha",
		Role:        domain.RoleVendor,
		StoreID:     testStoreID,
		Description: "Fresh produce",
		Category:    domain.CategoryGroceries,
		Phone:       "9876543210",
		Address: domain.Address{
			HouseNo: "12",
			City:    "Pune",
			State:   "MH",
			PinCode: "411001",
			Mobile:  "9876543210",
		},
	}
}

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:       testProductID,
		Name:     "Basmati Rice",
		StoreID:  testStoreID,
		Unit:     domain.UnitKilogram,
		Category: domain.CategoryGroceries,
		Stock:    40,
		IsActive: true,
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
