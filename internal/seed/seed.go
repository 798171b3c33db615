// Package seed generates and loads a deterministic demo marketplace: stores
// with complete vendor profiles, their products, customers and delivered
// orders those customers can review.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/database"
)

const batchSize = 500

// namespace derives stable ids, so re-running the seed inserts nothing new.
var namespace = uuid.MustParse("6f1d3b52-8e0a-4c7d-9b21-5a4e3c2d1f00")

func stableID(kind string, i int) string {
	return uuid.NewSHA1(namespace, fmt.Appendf(nil, "%s:%d", kind, i)).String()
}

// Options sizes the generated dataset.
type Options struct {
	Stores           int
	ProductsPerStore int
	Customers        int
	Pincodes         []string
	Seed             uint64
}

// DefaultOptions returns a dataset small enough to load in seconds.
func DefaultOptions() Options {
	return Options{
		Stores:           12,
		ProductsPerStore: 25,
		Customers:        40,
		Pincodes:         []string{"411001", "411038", "560001", "110001"},
		Seed:             42,
	}
}

// OrderItem is one line of a seeded order.
type OrderItem struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// Order is a seeded customer order.
type Order struct {
	ID        string
	UserID    string
	Status    string
	Items     []OrderItem
	CreatedAt time.Time
}

// Dataset is everything Load inserts.
type Dataset struct {
	Stores    []domain.Store
	Vendors   []domain.User
	Customers []domain.User
	Products  []domain.Product
	Orders    []Order
}

var (
	storeWords   = []string{"Fresh", "Daily", "Green", "Royal", "Corner", "City", "Happy", "Golden"}
	storeKinds   = []string{"Mart", "Bazaar", "Kirana", "Bakers", "Traders", "Emporium"}
	productWords = []string{"Organic", "Premium", "Classic", "Farm", "Handmade", "Local", "Family"}
	productNouns = map[string][]string{
		domain.CategoryGroceries:   {"Basmati Rice", "Toor Dal", "Sunflower Oil", "Atta"},
		domain.CategoryBakery:      {"Sourdough", "Pav", "Croissant", "Rusk"},
		domain.CategoryButcher:     {"Chicken Breast", "Mutton Curry Cut", "Fish Fillet"},
		domain.CategoryCafe:        {"Filter Coffee", "Masala Chai", "Cold Brew"},
		domain.CategoryElectronics: {"LED Bulb", "Power Bank", "Earphones"},
		domain.CategoryFurniture:   {"Bookshelf", "Stool", "Study Table"},
		domain.CategoryDecor:       {"Diya Set", "Wall Clock", "Cushion Cover"},
		domain.CategoryClothing:    {"Cotton Kurta", "Dupatta", "T-Shirt"},
		domain.CategoryOther:       {"Gift Hamper", "Notebook", "Umbrella"},
	}
	cities = []string{"Pune", "Bengaluru", "Delhi"}
)

// Generate builds a dataset from opts. The same options always produce the
// same dataset.
func Generate(opts Options, now time.Time) *Dataset {
	if len(opts.Pincodes) == 0 {
		opts.Pincodes = DefaultOptions().Pincodes
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	categories := domain.ValidCategories()
	units := domain.ValidUnits()
	ds := &Dataset{}

	for i := range opts.Stores {
		address := domain.Address{
			HouseNo:  fmt.Sprintf("%d", 1+rng.IntN(200)),
			Landmark: "Near Main Market",
			City:     cities[i%len(cities)],
			State:    "MH",
			PinCode:  opts.Pincodes[i%len(opts.Pincodes)],
			Mobile:   fmt.Sprintf("98%08d", rng.IntN(100_000_000)),
		}
		category := categories[i%len(categories)]

		store := domain.Store{
			ID:       stableID("store", i),
			Name:     fmt.Sprintf("%s %s", storeWords[rng.IntN(len(storeWords))], storeKinds[rng.IntN(len(storeKinds))]),
			Logo:     fmt.Sprintf("https://picsum.photos/seed/store-%d/200/200", i),
			OwnerID:  stableID("vendor", i),
			Address:  address,
			IsActive: i%7 != 6,
		}
		ds.Stores = append(ds.Stores, store)

		ds.Vendors = append(ds.Vendors, domain.User{
			ID:          store.OwnerID,
			Name:        fmt.Sprintf("Vendor %d", i+1),
			Role:        domain.RoleVendor,
			StoreID:     store.ID,
			Description: "Serving the neighbourhood since " + fmt.Sprint(1990+rng.IntN(30)),
			Category:    category,
			Phone:       address.Mobile,
			Address:     address,
		})

		for j := range opts.ProductsPerStore {
			cat := category
			if j%3 == 2 {
				cat = categories[rng.IntN(len(categories))]
			}
			nouns := productNouns[cat]
			price := decimal.New(int64(20+rng.IntN(2000)), 0).Add(decimal.New(int64(rng.IntN(100)), -2))

			p := domain.Product{
				ID:          stableID("product", i*opts.ProductsPerStore+j),
				Name:        productWords[rng.IntN(len(productWords))] + " " + nouns[rng.IntN(len(nouns))],
				Description: "Sourced and packed by " + store.Name + ".",
				Price:       price,
				Stock:       rng.IntN(150),
				Unit:        units[rng.IntN(len(units))],
				Category:    cat,
				Image:       fmt.Sprintf("https://picsum.photos/seed/product-%d-%d/400/400", i, j),
				StoreID:     store.ID,
				IsActive:    j%10 != 9,
				CreatedAt:   now.Add(-time.Duration(len(ds.Products)) * time.Minute),
			}
			if rng.IntN(4) == 0 {
				op := price.Mul(decimal.RequireFromString("1.2")).Round(2)
				p.OriginalPrice = &op
			}
			p.UpdatedAt = p.CreatedAt
			ds.Products = append(ds.Products, p)
		}
	}

	for i := range opts.Customers {
		pin := opts.Pincodes[i%len(opts.Pincodes)]
		ds.Customers = append(ds.Customers, domain.User{
			ID:           stableID("customer", i),
			Name:         fmt.Sprintf("Customer %d", i+1),
			Role:         domain.RoleCustomer,
			Address:      domain.Address{City: cities[i%len(cities)], PinCode: pin},
			ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=%d", i),
		})

		if len(ds.Products) == 0 {
			continue
		}
		for k, status := range []string{domain.OrderStatusDelivered, domain.OrderStatusPending} {
			order := Order{
				ID:        stableID("order", i*2+k),
				UserID:    ds.Customers[i].ID,
				Status:    status,
				CreatedAt: now.Add(-time.Duration(24*(i+1)) * time.Hour),
			}
			seen := map[string]bool{}
			for range 1 + rng.IntN(3) {
				p := ds.Products[rng.IntN(len(ds.Products))]
				if seen[p.ID] {
					continue
				}
				seen[p.ID] = true
				order.Items = append(order.Items, OrderItem{ProductID: p.ID, Quantity: 1 + rng.IntN(3), Price: p.Price})
			}
			ds.Orders = append(ds.Orders, order)
		}
	}

	return ds
}

// Pincodes returns the distinct store pincodes of d in first-seen order.
func (d *Dataset) Pincodes() []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range d.Stores {
		if !seen[s.Address.PinCode] {
			seen[s.Address.PinCode] = true
			out = append(out, s.Address.PinCode)
		}
	}
	return out
}

// Load inserts ds in one transaction. Rows that already exist are skipped.
func Load(ctx context.Context, db database.DBTX, ds *Dataset) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stores := make([][]any, 0, len(ds.Stores))
	for _, s := range ds.Stores {
		a := s.Address
		stores = append(stores, []any{s.ID, s.Name, s.Logo, s.OwnerID, a.HouseNo, a.Landmark, a.City, a.State, a.PinCode, a.Mobile, s.IsActive})
	}

	users := make([][]any, 0, len(ds.Vendors)+len(ds.Customers))
	for _, group := range [][]domain.User{ds.Vendors, ds.Customers} {
		for _, u := range group {
			a := u.Address
			var storeID *string
			if u.StoreID != "" {
				storeID = &u.StoreID
			}
			users = append(users, []any{u.ID, u.Name, u.Role, storeID, u.Description, u.Category, u.Phone,
				a.HouseNo, a.Landmark, a.City, a.State, a.PinCode, a.Mobile, u.ProfileImage})
		}
	}

	products := make([][]any, 0, len(ds.Products))
	for _, p := range ds.Products {
		var original decimal.NullDecimal
		if p.OriginalPrice != nil {
			original = decimal.NewNullDecimal(*p.OriginalPrice)
		}
		products = append(products, []any{p.ID, p.Name, p.Description, p.Price, original, p.Stock, p.Unit,
			p.Category, p.Image, p.StoreID, p.IsActive, p.CreatedAt, p.UpdatedAt})
	}

	orders := make([][]any, 0, len(ds.Orders))
	var items [][]any
	for _, o := range ds.Orders {
		orders = append(orders, []any{o.ID, o.UserID, o.Status, o.CreatedAt, o.CreatedAt})
		for _, it := range o.Items {
			items = append(items, []any{o.ID, it.ProductID, it.Quantity, it.Price})
		}
	}

	steps := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"stores", []string{"id", "name", "logo", "owner_id", "house_no", "landmark", "city", "state", "pin_code", "mobile", "is_active"}, stores},
		{"users", []string{"id", "name", "role", "store_id", "description", "category", "phone",
			"house_no", "landmark", "city", "state", "pin_code", "mobile", "profile_image"}, users},
		{"products", []string{"id", "name", "description", "price", "original_price", "stock", "unit",
			"category", "image", "store_id", "is_active", "created_at", "updated_at"}, products},
		{"orders", []string{"id", "user_id", "order_status", "created_at", "updated_at"}, orders},
		{"order_items", []string{"order_id", "product_id", "quantity", "price"}, items},
	}
	for _, st := range steps {
		if err := insertRows(ctx, tx, st.table, st.columns, st.rows); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	return nil
}

// insertRows writes rows with multi-row INSERTs of at most batchSize rows.
func insertRows(ctx context.Context, db database.DBTX, table string, columns []string, rows [][]any) error {
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		batch := rows[start:end]

		var sb strings.Builder
		fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))
		args := make([]any, 0, len(batch)*len(columns))
		for i, row := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('(')
			for j := range columns {
				if j > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "$%d", i*len(columns)+j+1)
			}
			sb.WriteByte(')')
			args = append(args, row...)
		}
		sb.WriteString(" ON CONFLICT DO NOTHING")

		if _, err := db.Exec(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("insert %s rows %d-%d: %w", table, start, end, err)
		}
	}
	return nil
}
