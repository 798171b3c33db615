package domain

import "strings"

// User roles.
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

// User is the profile of a caller as read by the catalog.
type User struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	StoreID      string  `json:"storeId,omitempty"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Phone        string  `json:"phone"`
	Address      Address `json:"address"`
	ProfileImage string  `json:"profileImage"`
}

// MissingProfileFields lists the vendor profile fields that must be filled
// before the vendor can list products. It returns nil for a complete profile.
func (u *User) MissingProfileFields() []string {
	required := []struct {
		name  string
		value string
	}{
		{"description", u.Description},
		{"category", u.Category},
		{"phone", u.Phone},
		{"address.houseNo", u.Address.HouseNo},
		{"address.city", u.Address.City},
		{"address.state", u.Address.State},
		{"address.pinCode", u.Address.PinCode},
		{"address.mobile", u.Address.Mobile},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
