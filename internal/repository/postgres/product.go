package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/database"
	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
)

const productColumns = `p.id, p.name, p.description, p.price, p.original_price, p.stock, p.unit,
	p.category, p.image, p.store_id, p.rating, p.num_reviews, p.is_active, p.created_at, p.updated_at`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (err error) {
	query := `
		INSERT INTO products (id, name, description, price, original_price, stock, unit, category, image,
		                      store_id, rating, num_reviews, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	ctx, end := database.TraceQuery(ctx, "CreateProduct", query)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		nullDecimal(p.OriginalPrice),
		p.Stock,
		p.Unit,
		p.Category,
		p.Image,
		p.StoreID,
		p.Rating,
		p.NumReviews,
		p.IsActive,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by its ID with the store name and logo.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (_ *domain.Product, err error) {
	query := `
		SELECT ` + productColumns + `, s.name, s.logo
		FROM products p
		LEFT JOIN stores s ON s.id = p.store_id
		WHERE p.id = $1`

	ctx, end := database.TraceQuery(ctx, "GetProduct", query)
	defer func() { end(err) }()

	var (
		p               domain.Product
		storeName, logo *string
	)
	err = scanProduct(r.pool.QueryRow(ctx, query, id), &p, &storeName, &logo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.Store = storeSummary(p.StoreID, storeName, logo)
	return &p, nil
}

// List returns one page of matching products in insertion order and the
// total number of matches.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) (_ []domain.Product, _ int, err error) {
	where := productWhere(filter)

	countQuery := "SELECT COUNT(*) FROM products p " + where.clause()

	ctx, end := database.TraceQuery(ctx, "ListProducts", countQuery)
	defer func() { end(err) }()

	var total int
	if err = r.pool.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	if total == 0 || filter.Offset >= total {
		return []domain.Product{}, total, nil
	}

	limitArg := where.next(filter.Limit)
	offsetArg := where.next(filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s, s.name
		FROM products p
		LEFT JOIN stores s ON s.id = p.store_id
		%s
		ORDER BY p.created_at, p.id
		LIMIT %s OFFSET %s`,
		productColumns, where.clause(), limitArg, offsetArg,
	)

	rows, err := r.pool.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, filter.Limit)
	for rows.Next() {
		var (
			p         domain.Product
			storeName *string
		)
		if err = scanProduct(rows, &p, &storeName); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		p.Store = storeSummary(p.StoreID, storeName, nil)
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, total, nil
}

// Sample returns up to limit random active products.
func (r *ProductRepository) Sample(ctx context.Context, storeIDs []string, limit int) (_ []domain.RecommendedProduct, err error) {
	b := &whereBuilder{}
	b.addRaw("p.is_active")
	if storeIDs != nil {
		b.add("p.store_id = ANY(%s::uuid[])", storeIDs)
	}
	limitArg := b.next(limit)

	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.image, p.price, p.original_price, p.store_id, p.unit, p.category, p.rating, p.num_reviews
		FROM products p
		%s
		ORDER BY random()
		LIMIT %s`, b.clause(), limitArg)

	ctx, end := database.TraceQuery(ctx, "SampleProducts", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("sample products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.RecommendedProduct, 0, limit)
	for rows.Next() {
		var (
			p    domain.RecommendedProduct
			orig decimal.NullDecimal
		)
		if err = rows.Scan(
			&p.ID, &p.Name, &p.Image, &p.Price, &orig, &p.StoreID,
			&p.Unit, &p.Category, &p.Rating, &p.NumReviews,
		); err != nil {
			return nil, fmt.Errorf("scan sampled product: %w", err)
		}
		p.OriginalPrice = decimalPtr(orig)
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sampled products: %w", err)
	}
	return products, nil
}

// Update persists the mutable fields of p. The owning store and the review
// aggregate are never written here.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (err error) {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, original_price = $4, stock = $5,
		    unit = $6, category = $7, image = $8, is_active = $9, updated_at = $10
		WHERE id = $11`

	ctx, end := database.TraceQuery(ctx, "UpdateProduct", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		nullDecimal(p.OriginalPrice),
		p.Stock,
		p.Unit,
		p.Category,
		p.Image,
		p.IsActive,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}
	return nil
}

// Delete removes a product; its reviews go with it.
func (r *ProductRepository) Delete(ctx context.Context, id string) (err error) {
	query := `DELETE FROM products WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteProduct", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

// scanProduct scans productColumns followed by extra destinations.
func scanProduct(row pgx.Row, p *domain.Product, extra ...any) error {
	var orig decimal.NullDecimal
	dest := append([]any{
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&orig,
		&p.Stock,
		&p.Unit,
		&p.Category,
		&p.Image,
		&p.StoreID,
		&p.Rating,
		&p.NumReviews,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	p.OriginalPrice = decimalPtr(orig)
	return nil
}

func storeSummary(id string, name, logo *string) *domain.StoreSummary {
	if name == nil {
		return nil
	}
	s := &domain.StoreSummary{ID: id, Name: *name}
	if logo != nil {
		s.Logo = *logo
	}
	return s
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func decimalPtr(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	d := nd.Decimal
	return &d
}
