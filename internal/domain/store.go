package domain

// Address is a postal address. PinCode is the postal code used to find
// nearby stores.
type Address struct {
	HouseNo  string `json:"houseNo"`
	Landmark string `json:"landmark"`
	City     string `json:"city"`
	State    string `json:"state"`
	PinCode  string `json:"pinCode"`
	Mobile   string `json:"mobile"`
}

// Store is a vendor's shop. Only active stores are found by pincode.
type Store struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Logo     string  `json:"logo"`
	OwnerID  string  `json:"ownerId"`
	Address  Address `json:"address"`
	IsActive bool    `json:"isActive"`
}

// StoreSummary is the store as embedded in a product.
type StoreSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}
