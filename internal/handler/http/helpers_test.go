package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/service"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/health"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/httputil"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/middleware"
)

// =============================================================================
// Mock repositories
// =============================================================================

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) Sample(ctx context.Context, storeIDs []string, limit int) ([]domain.RecommendedProduct, error) {
	args := m.Called(ctx, storeIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecommendedProduct), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockStoreRepo struct {
	mock.Mock
}

func (m *mockStoreRepo) ActiveIDsByPincode(ctx context.Context, pincode string) ([]string, error) {
	args := m.Called(ctx, pincode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Exists(ctx context.Context, userID, productID string) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepo) CreateWithAggregate(ctx context.Context, review *domain.Review) (domain.ProductAggregate, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(domain.ProductAggregate), args.Error(1)
}

func (m *mockReviewRepo) ListByProductID(ctx context.Context, productID string) ([]domain.Review, error) {
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

// nopPublisher accepts every event.
type nopPublisher struct{}

func (nopPublisher) PublishProductCreated(context.Context, *domain.Product) error { return nil }
func (nopPublisher) PublishProductUpdated(context.Context, *domain.Product) error { return nil }
func (nopPublisher) PublishProductDeleted(context.Context, string, string) error  { return nil }
func (nopPublisher) PublishReviewCreated(context.Context, *domain.Review, domain.ProductAggregate) error {
	return nil
}

// =============================================================================
// Test helpers
// =============================================================================

const (
	testStoreID   = "5f0c6e1e-2b7a-4d55-9d3c-0f6c1b2a3d4e"
	otherStoreID  = "8a1d2c3b-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
	testProductID = "0b9e8d7c-6f5a-4b3c-a2d1-e0f9a8b7c6d5"
)

// testTokens maps bearer tokens onto callers.
var testTokens = map[string]*middleware.Claims{
	"vendor-token":   {UserID: "vendor-1", Role: domain.RoleVendor, StoreID: testStoreID},
	"intruder-token": {UserID: "vendor-2", Role: domain.RoleVendor, StoreID: otherStoreID},
	"customer-token": {UserID: "customer-1", Role: domain.RoleCustomer},
	"admin-token":    {UserID: "admin-1", Role: domain.RoleAdmin},
}

func validateTestToken(token string) (*middleware.Claims, error) {
	if c, ok := testTokens[token]; ok {
		return c, nil
	}
	return nil, errors.New("unknown token")
}

type testServer struct {
	products *mockProductRepo
	stores   *mockStoreRepo
	users    *mockUserRepo
	reviews  *mockReviewRepo
	verifier *mockVerifier
	handler  http.Handler
}

func newTestServer(t *testing.T, opts ...func(*RouterConfig)) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := &testServer{
		products: new(mockProductRepo),
		stores:   new(mockStoreRepo),
		users:    new(mockUserRepo),
		reviews:  new(mockReviewRepo),
		verifier: new(mockVerifier),
	}

	cfg := RouterConfig{
		ServiceName:    "catalog-service",
		ProductService: service.NewProductService(ts.products, ts.stores, ts.users, nopPublisher{}, logger),
		ReviewService:  service.NewReviewService(ts.products, ts.reviews, ts.verifier, nopPublisher{}, logger),
		Health:         health.NewHandler(),
		ValidateToken:  validateTestToken,
		CORS:           middleware.CORSConfig{AllowedOrigins: []string{"*"}},
		PprofCIDRs:     []string{"127.0.0.1/32"},
		Logger:         logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	ts.handler = NewRouter(cfg)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := decodeBody[httputil.ErrorEnvelope](t, rec)
	require.NotNil(t, env.Error)
	return env.Error.Code
}

func ownedProduct() *domain.Product {
	return &domain.Product{
		ID:       testProductID,
		Name:     "Basmati Rice",
		StoreID:  testStoreID,
		Store:    &domain.StoreSummary{ID: testStoreID, Name: "Green Grocer"},
		Unit:     domain.UnitKilogram,
		Category: domain.CategoryGroceries,
		Stock:    40,
		IsActive: true,
	}
}

func completeVendor() *domain.User {
	return &domain.User{
		ID:          "vendor-1",
		Role:        domain.RoleVendor,
		StoreID:     testStoreID,
		Description: "Fresh produce",
		Category:    domain.CategoryGroceries,
		Phone:       "9876543210",
		Address: domain.Address{
			HouseNo: "12", City: "Pune", State: "MH", PinCode: "411001", Mobile: "9876543210",
		},
	}
}
