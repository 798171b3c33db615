package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/pagination"
)

// filterAll disables the category and store predicates.
const filterAll = "all"

// ListProductsInput holds the optional listing filters as received.
type ListProductsInput struct {
	Search   string
	Category string
	Store    string
	Pincode  string
	Page     pagination.Params
}

// ListProducts returns one page of products matching every given filter.
// A pincode served by no active store yields an empty first page without
// querying products.
func (s *ProductService) ListProducts(ctx context.Context, in ListProductsInput) (*domain.ProductPage, error) {
	texts := []struct{ name, value string }{
		{"search", in.Search}, {"category", in.Category}, {"pincode", in.Pincode},
	}
	for _, f := range texts {
		if !utf8.ValidString(f.value) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid %s: not valid UTF-8", f.name))
		}
	}

	filter := repository.ProductFilter{
		Search: strings.TrimSpace(in.Search),
		Offset: in.Page.Offset(),
		Limit:  in.Page.Limit,
	}

	if c := strings.TrimSpace(in.Category); c != "" && c != filterAll {
		filter.Category = c
	}

	if st := strings.TrimSpace(in.Store); st != "" && st != filterAll {
		id, err := uuid.Parse(st)
		if err != nil {
			return nil, apperrors.InvalidInput("Invalid store id")
		}
		filter.StoreID = id.String()
	}

	if pin := strings.TrimSpace(in.Pincode); pin != "" {
		ids, err := s.stores.ActiveIDsByPincode(ctx, pin)
		if err != nil {
			return nil, fmt.Errorf("resolve pincode stores: %w", err)
		}
		if len(ids) == 0 {
			return domain.EmptyProductPage(), nil
		}
		filter.StoreIDs = ids
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	return &domain.ProductPage{
		Products: products,
		Page:     in.Page.Page,
		Pages:    pagination.TotalPages(total, in.Page.Limit),
		Count:    total,
	}, nil
}

// ListRecommended samples up to domain.RecommendedSampleSize random active
// products, restricted to the stores serving pincode when one is given.
func (s *ProductService) ListRecommended(ctx context.Context, pincode string) ([]domain.RecommendedProduct, error) {
	if !utf8.ValidString(pincode) {
		return nil, apperrors.InvalidInput("Invalid pincode: not valid UTF-8")
	}

	var storeIDs []string
	if pin := strings.TrimSpace(pincode); pin != "" {
		ids, err := s.stores.ActiveIDsByPincode(ctx, pin)
		if err != nil {
			return nil, fmt.Errorf("resolve pincode stores: %w", err)
		}
		if len(ids) == 0 {
			return []domain.RecommendedProduct{}, nil
		}
		storeIDs = ids
	}

	products, err := s.products.Sample(ctx, storeIDs, domain.RecommendedSampleSize)
	if err != nil {
		return nil, fmt.Errorf("sample products: %w", err)
	}
	if products == nil {
		products = []domain.RecommendedProduct{}
	}
	return products, nil
}
