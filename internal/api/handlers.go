package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/store"
)

type Handlers struct {
	svc  *store.Service
	cart *cart.Service
}

func NewHandlers(svc *store.Service, cartSvc *cart.Service) *Handlers {
	return &Handlers{
		svc:  svc,
		cart: cartSvc,
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products := h.svc.GetProducts(r.Context())

	// Hidden products are an admin-only view.
	if !isAdmin(r) {
		visible := make([]store.Product, 0, len(products))
		for _, p := range products {
			if !p.IsHidden {
				visible = append(visible, p)
			}
		}
		products = visible
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) SaveProduct(w http.ResponseWriter, r *http.Request) {
	var product store.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.SaveProduct(r.Context(), &product); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidName),
			errors.Is(err, store.ErrInvalidPrice),
			errors.Is(err, store.ErrNoImage):
			respondJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

func (h *Handlers) ReorderProducts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateProductOrder(r.Context(), req.IDs); err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, h.svc.GetProducts(r.Context()))
}

// Settings Handlers

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.GetSettings(r.Context()))
}

func (h *Handlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings store.SiteSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.SaveSettings(r.Context(), settings); err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// Order Handlers

type CheckoutRequest struct {
	ShippingInfo  *store.ShippingInfo `json:"shippingInfo"`
	PaymentMethod string              `json:"paymentMethod"`
}

// Checkout turns the current cart into an order. The total is computed
// server-side from the catalog, never taken from the client.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	lines := h.cart.Items(r.Context())
	if len(lines) == 0 {
		respondJSONError(w, "Cart is empty", http.StatusBadRequest)
		return
	}

	products := h.svc.GetProducts(r.Context())
	byID := make(map[string]store.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var items []store.OrderItem
	var total float64
	for _, line := range lines {
		p, ok := byID[line.ProductID]
		if !ok {
			continue
		}
		items = append(items, store.OrderItem{Product: p, Quantity: line.Qty})
		total += p.Price * float64(line.Qty)
	}
	if len(items) == 0 {
		respondJSONError(w, "Cart has no purchasable items", http.StatusBadRequest)
		return
	}

	draft := store.Order{
		Items:         items,
		Total:         total,
		ShippingInfo:  req.ShippingInfo,
		PaymentMethod: req.PaymentMethod,
	}
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		draft.UserID = claims.UserID
		draft.UserName = claims.Name
	}

	order, err := h.svc.CreateOrder(r.Context(), draft)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_ = h.cart.Clear(r.Context())

	respondJSON(w, http.StatusCreated, order)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.svc.GetOrders(r.Context())

	// Non-admins only see their own orders.
	if !isAdmin(r) {
		userID := middleware.GetUserID(r.Context())
		own := make([]store.Order, 0, len(orders))
		for _, o := range orders {
			if o.UserID != "" && o.UserID == userID {
				own = append(own, o)
			}
		}
		orders = own
	}

	respondJSON(w, http.StatusOK, orders)
}

// Cart Handlers

type cartView struct {
	Items []cart.Line `json:"items"`
	Total float64     `json:"total"`
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	products := h.svc.GetProducts(r.Context())
	respondJSON(w, http.StatusOK, cartView{
		Items: h.cart.Items(r.Context()),
		Total: h.cart.Total(r.Context(), products),
	})
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}

	if err := h.cart.Add(r.Context(), req.ProductID, req.Qty); err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.GetCart(w, r)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.cart.UpdateQty(r.Context(), productID, req.Delta); err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.GetCart(w, r)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID := extractPathParam(r.URL.Path, "/cart/items/")

	if err := h.cart.Remove(r.Context(), productID); err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.GetCart(w, r)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.GetCart(w, r)
}

// Sync Handlers

func (h *Handlers) SyncPush(w http.ResponseWriter, r *http.Request) {
	h.svc.SyncToCloud(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"message": "Sync pushed"})
}

func (h *Handlers) SyncPull(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.FetchAllData(r.Context())
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if doc == nil {
		respondJSON(w, http.StatusOK, map[string]string{"message": "Nothing to pull"})
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

// isAdmin checks if the current user has the admin role.
func isAdmin(r *http.Request) bool {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Role == "admin"
}
