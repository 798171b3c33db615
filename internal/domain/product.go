package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, as the storefront expects.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultProductImage is used when a product is created without an image.
const DefaultProductImage = "https://via.placeholder.com/200?text=Product+Image"

// Unit of measurement a product is sold in.
const (
	UnitPiece      = "pc"
	UnitKilogram   = "kg"
	UnitGram       = "g"
	UnitLiter      = "L"
	UnitMilliliter = "ml"
	UnitDozen      = "dozen"
	UnitPack       = "pack"
	UnitSet        = "set"
	UnitPair       = "pair"
	UnitGeneric    = "unit"
)

// Product categories.
const (
	CategoryGroceries   = "Groceries"
	CategoryBakery      = "Bakery"
	CategoryButcher     = "Butcher"
	CategoryCafe        = "Cafe"
	CategoryElectronics = "Electronics"
	CategoryFurniture   = "Furniture"
	CategoryDecor       = "Decor"
	CategoryClothing    = "Clothing"
	CategoryOther       = "Other"
)

// RecommendedSampleSize caps the recommended-products sample.
const RecommendedSampleSize = 6

// Product is a catalog item owned by exactly one store. Rating and
// NumReviews are derived from the product's reviews.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Stock         int              `json:"stock"`
	Unit          string           `json:"unit"`
	Category      string           `json:"category"`
	Image         string           `json:"image"`
	StoreID       string           `json:"storeId"`
	Store         *StoreSummary    `json:"store,omitempty"`
	Rating        float64          `json:"rating"`
	NumReviews    int              `json:"numReviews"`
	IsActive      bool             `json:"isActive"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ProductUpdate is a partial update; nil fields keep their current value.
// ClearOriginalPrice removes the original price and wins over OriginalPrice.
// The owning store cannot be changed.
type ProductUpdate struct {
	Name               *string
	Description        *string
	Price              *decimal.Decimal
	OriginalPrice      *decimal.Decimal
	ClearOriginalPrice bool
	Stock         *int
	Category      *string
	Image         *string
	Unit          *string
	IsActive      *bool
}

// Apply copies the set fields of u onto p.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	switch {
	case u.ClearOriginalPrice:
		p.OriginalPrice = nil
	case u.OriginalPrice != nil:
		op := *u.OriginalPrice
		p.OriginalPrice = &op
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Unit != nil {
		p.Unit = *u.Unit
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
}

// ValidUnits returns the accepted units of measurement.
func ValidUnits() []string {
	return []string{
		UnitPiece, UnitKilogram, UnitGram, UnitLiter, UnitMilliliter,
		UnitDozen, UnitPack, UnitSet, UnitPair, UnitGeneric,
	}
}

// IsValidUnit reports whether unit is an accepted unit of measurement.
func IsValidUnit(unit string) bool {
	return slices.Contains(ValidUnits(), unit)
}

// ValidCategories returns the accepted product categories.
func ValidCategories() []string {
	return []string{
		CategoryGroceries, CategoryBakery, CategoryButcher, CategoryCafe,
		CategoryElectronics, CategoryFurniture, CategoryDecor, CategoryClothing,
		CategoryOther,
	}
}

// IsValidCategory reports whether category is an accepted product category.
func IsValidCategory(category string) bool {
	return slices.Contains(ValidCategories(), category)
}

// RecommendedProduct is the projection returned by the recommended sampler.
type RecommendedProduct struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Image         string           `json:"image"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	StoreID       string           `json:"store"`
	Unit          string           `json:"unit"`
	Category      string           `json:"category"`
	Rating        float64          `json:"rating"`
	NumReviews    int              `json:"numReviews"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
	Count    int       `json:"count"`
}

// EmptyProductPage is returned when a filter can match nothing.
func EmptyProductPage() *ProductPage {
	return &ProductPage{Products: []Product{}, Page: 1, Pages: 0, Count: 0}
}
