package postgres

import (
	"context"
	"fmt"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/database"
)

// StoreRepository reads stores from PostgreSQL.
type StoreRepository struct {
	pool database.DBTX
}

// NewStoreRepository creates a new PostgreSQL-backed store repository.
func NewStoreRepository(pool database.DBTX) *StoreRepository {
	return &StoreRepository{pool: pool}
}

var _ repository.StoreRepository = (*StoreRepository)(nil)

// ActiveIDsByPincode returns the ids of active stores at pincode.
func (r *StoreRepository) ActiveIDsByPincode(ctx context.Context, pincode string) (_ []string, err error) {
	query := `SELECT id FROM stores WHERE pin_code = $1 AND is_active ORDER BY id`

	ctx, end := database.TraceQuery(ctx, "StoresByPincode", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, pincode)
	if err != nil {
		return nil, fmt.Errorf("query stores by pincode: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan store id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate store ids: %w", err)
	}
	return ids, nil
}
