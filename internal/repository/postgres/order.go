package postgres

import (
	"context"
	"fmt"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/database"
)

// OrderRepository verifies purchases against the shared orders tables.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed purchase verifier.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

var _ repository.PurchaseVerifier = (*OrderRepository)(nil)

// HasDeliveredOrder reports whether the user has a Delivered order with the
// product among its items.
func (r *OrderRepository) HasDeliveredOrder(ctx context.Context, userID, productID string) (_ bool, err error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id = $1 AND oi.product_id = $2 AND o.order_status = $3
		)`

	ctx, end := database.TraceQuery(ctx, "HasDeliveredOrder", query)
	defer func() { end(err) }()

	var ok bool
	if err = r.pool.QueryRow(ctx, query, userID, productID, domain.OrderStatusDelivered).Scan(&ok); err != nil {
		return false, fmt.Errorf("check delivered order: %w", err)
	}
	return ok, nil
}
