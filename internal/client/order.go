// Package client holds HTTP clients for sibling marketplace services.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/httpclient"
)

const orderService = "order-service"

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// OrderClient asks the order service whether a purchase was delivered.
type OrderClient struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewOrderClient creates an order-service client rooted at baseURL.
func NewOrderClient(doer HTTPDoer, baseURL string, logger *slog.Logger) *OrderClient {
	return &OrderClient{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

var _ repository.PurchaseVerifier = (*OrderClient)(nil)

type deliveredResponse struct {
	Delivered bool `json:"delivered"`
}

// HasDeliveredOrder calls GET /internal/orders/delivered. Transport failures,
// an open breaker and any non-200 answer surface as ServiceUnavailable; the
// upstream status never leaks to callers as their own NotFound or Forbidden.
func (c *OrderClient) HasDeliveredOrder(ctx context.Context, userID, productID string) (bool, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("product_id", productID)
	endpoint := c.baseURL + "/internal/orders/delivered?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return false, fmt.Errorf("create delivered-order request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false, err
		}
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "order service circuit open")
		}
		return false, apperrors.ServiceUnavailable(orderService, err)
	}

	if resp.StatusCode != http.StatusOK {
		upstream := httpclient.ParseResponseError(resp, orderService)
		c.logger.WarnContext(ctx, "order service rejected delivered-order lookup",
			slog.Int("status", resp.StatusCode),
			slog.String("error", upstream.Error()),
		)
		return false, apperrors.ServiceUnavailable(orderService,
			fmt.Errorf("unexpected status %d: %v", resp.StatusCode, upstream))
	}
	defer func() { _ = resp.Body.Close() }()

	var out deliveredResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode delivered-order response: %w", err)
	}
	return out.Delivered, nil
}
