package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/service"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/httputil"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/middleware"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/pagination"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/validator"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Description   string           `json:"description" validate:"max=5000"`
	Price         decimal.Decimal  `json:"price" validate:"gte=0"`
	OriginalPrice *decimal.Decimal `json:"originalPrice" validate:"omitempty,gte=0"`
	Stock         int              `json:"stock" validate:"gte=0"`
	Category      string           `json:"category" validate:"required,oneof=Groceries Bakery Butcher Cafe Electronics Furniture Decor Clothing Other"`
	Image         string           `json:"image" validate:"max=2048"`
	Unit          string           `json:"unit" validate:"omitempty,oneof=pc kg g L ml dozen pack set pair unit"`
}

// UpdateProductRequest is the JSON request body for a partial product
// update. Absent fields keep their value; "originalPrice": null removes the
// original price.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=5000"`
	Price         *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice *decimal.Decimal `json:"originalPrice" validate:"omitempty,gte=0"`
	Stock         *int             `json:"stock" validate:"omitempty,gte=0"`
	Category      *string          `json:"category" validate:"omitempty,oneof=Groceries Bakery Butcher Cafe Electronics Furniture Decor Clothing Other"`
	Image         *string          `json:"image" validate:"omitempty,max=2048"`
	Unit          *string          `json:"unit" validate:"omitempty,oneof=pc kg g L ml dozen pack set pair unit"`
	IsActive      *bool            `json:"isActive"`

	clearOriginalPrice bool
}

// UnmarshalJSON tells an explicit "originalPrice": null apart from an
// absent field.
func (req *UpdateProductRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateProductRequest
	if err := json.Unmarshal(data, (*plain)(req)); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	raw, ok := fields["originalPrice"]
	req.clearOriginalPrice = ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
	return nil
}

func (req *UpdateProductRequest) toUpdate() domain.ProductUpdate {
	return domain.ProductUpdate{
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		OriginalPrice:      req.OriginalPrice,
		ClearOriginalPrice: req.clearOriginalPrice,
		Stock:              req.Stock,
		Category:           req.Category,
		Image:              req.Image,
		Unit:               req.Unit,
		IsActive:           req.IsActive,
	}
}

// actorFrom returns the caller set by the Auth middleware.
func actorFrom(r *http.Request) service.Actor {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return service.Actor{}
	}
	return service.Actor{UserID: claims.UserID, Role: claims.Role, StoreID: claims.StoreID}
}

// --- Handlers ---

// ListProducts handles GET /api/products
// Query: search, category, store, pincode, page, limit.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := pagination.FromQuery(q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.service.ListProducts(r.Context(), service.ListProductsInput{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Store:    q.Get("store"),
		Pincode:  q.Get("pincode"),
		Page:     page,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// ListRecommended handles GET /api/products/recommended
func (h *ProductHandler) ListRecommended(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListRecommended(r.Context(), r.URL.Query().Get("pincode"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req CreateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	input := &service.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Stock:         req.Stock,
		Category:      req.Category,
		Image:         req.Image,
		Unit:          req.Unit,
	}

	product, err := h.service.CreateProduct(r.Context(), actorFrom(r), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/{id}. Ownership is checked before
// the body is read.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetOwnedProduct(r.Context(), actorFrom(r), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	upd, ok := decodeUpdate(w, r)
	if !ok {
		return
	}

	product, err = h.service.ApplyUpdate(r.Context(), product, upd)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), actorFrom(r), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, "Product removed")
}

// AdminUpdateProduct handles PUT /api/admin/products/{id}
func (h *ProductHandler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	upd, ok := decodeUpdate(w, r)
	if !ok {
		return
	}

	product, err := h.service.AdminUpdateProduct(r.Context(), id.String(), upd)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// AdminDeleteProduct handles DELETE /api/admin/products/{id}
func (h *ProductHandler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.AdminDeleteProduct(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, "Product removed")
}

func decodeUpdate(w http.ResponseWriter, r *http.Request) (domain.ProductUpdate, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return domain.ProductUpdate{}, false
	}
	return req.toUpdate(), true
}
