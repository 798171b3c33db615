package service

import (
	"strings"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
)

// AuthorizeMutation allows a vendor to update or delete only the products of
// their own store. Admin routes do not call it.
func AuthorizeMutation(actor Actor, product *domain.Product) error {
	if actor.StoreID == "" || actor.StoreID != product.StoreID {
		return apperrors.Forbidden("Not authorized to modify this product.")
	}
	return nil
}

// ValidateVendorProfile checks that a vendor may list products: they must own
// a store and have filled in their business profile and address.
func ValidateVendorProfile(vendor *domain.User) error {
	if vendor.StoreID == "" {
		return apperrors.Forbidden("User is not a vendor or does not have an associated store.")
	}
	if missing := vendor.MissingProfileFields(); len(missing) > 0 {
		return apperrors.InvalidInput(
			"Please complete your vendor profile before adding products. Missing: " + strings.Join(missing, ", "),
		)
	}
	return nil
}
