package http

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/httputil"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/middleware"
)

func reviewPath() string {
	return "/api/products/" + testProductID + "/reviews"
}

func TestCreateReview_Success(t *testing.T) {
	ts := newTestServer(t)
	ts.products.On("GetByID", mock.Anything, testProductID).Return(ownedProduct(), nil)
	ts.verifier.On("HasDeliveredOrder", mock.Anything, "customer-1", testProductID).Return(true, nil)
	ts.reviews.On("Exists", mock.Anything, "customer-1", testProductID).Return(false, nil)
	ts.reviews.On("CreateWithAggregate", mock.Anything, mock.AnythingOfType("*domain.Review")).
		Return(domain.ProductAggregate{Rating: 4, NumReviews: 3}, nil)

	rec := ts.do(t, http.MethodPost, reviewPath(), "customer-token", map[string]any{"rating": 4, "comment": "good"})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Review added successfully", got["message"])
	assert.EqualValues(t, 3, got["numReviews"])
	review, ok := got["review"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 4, review["rating"])
	assert.Equal(t, "customer-1", review["userId"])
}

func TestCreateReview_Duplicate(t *testing.T) {
	ts := newTestServer(t)
	ts.products.On("GetByID", mock.Anything, testProductID).Return(ownedProduct(), nil)
	ts.verifier.On("HasDeliveredOrder", mock.Anything, "customer-1", testProductID).Return(true, nil)
	ts.reviews.On("Exists", mock.Anything, "customer-1", testProductID).Return(true, nil)

	rec := ts.do(t, http.MethodPost, reviewPath(), "customer-token", map[string]any{"rating": 5})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeBody[httputil.ErrorEnvelope](t, rec)
	assert.Equal(t, "You have already reviewed this product.", env.Error.Message)
}

func TestCreateReview_NotPurchased(t *testing.T) {
	ts := newTestServer(t)
	ts.products.On("GetByID", mock.Anything, testProductID).Return(ownedProduct(), nil)
	ts.verifier.On("HasDeliveredOrder", mock.Anything, "customer-1", testProductID).Return(false, nil)

	rec := ts.do(t, http.MethodPost, reviewPath(), "customer-token", map[string]any{"rating": 5})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateReview_Validation(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []map[string]any{
		{"rating": 0},
		{"rating": 6},
		{"rating": 3, "comment": strings.Repeat("a", 1001)},
	} {
		rec := ts.do(t, http.MethodPost, reviewPath(), "customer-token", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	ts.products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreateReview_RequiresCustomer(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, reviewPath(), "", map[string]any{"rating": 5})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, reviewPath(), "vendor-token", map[string]any{"rating": 5})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListReviews(t *testing.T) {
	ts := newTestServer(t)
	ts.reviews.On("ListByProductID", mock.Anything, testProductID).Return([]domain.Review{
		{ID: "r2", Rating: 5, User: &domain.Reviewer{ID: "u2", Name: "Ravi"}},
		{ID: "r1", Rating: 3, User: &domain.Reviewer{ID: "u1", Name: "Meera"}},
	}, nil)

	rec := ts.do(t, http.MethodGet, reviewPath(), "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[[]domain.Review](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].ID)
	assert.Equal(t, "Ravi", got[0].User.Name)
}

func TestWriteRoutesAreRateLimited(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ts := newTestServer(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = middleware.NewRateLimiter(ctx, 0.001, 1, false, cfg.Logger)
	})

	rec := ts.do(t, http.MethodPost, reviewPath(), "customer-token", map[string]any{"rating": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, reviewPath(), "customer-token", map[string]any{"rating": 0})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Reads are not throttled.
	ts.reviews.On("ListByProductID", mock.Anything, testProductID).Return(nil, nil)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, reviewPath(), "", nil).Code)
}
