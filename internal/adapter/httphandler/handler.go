package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ifmais/storefront/internal/core/domain"
	"github.com/ifmais/storefront/internal/core/port"
)

// GET  /v1/cart                              current cart snapshot
// POST /v1/cart/items {product_id}           add one unit (404 unknown product)
// PATCH /v1/cart/items/{lineID} {quantity}   set quantity, <=0 removes
// DELETE /v1/cart/items/{lineID}             remove line (no-op if absent)
// POST /v1/cart/clear | /v1/cart/toggle | /v1/cart/notification/dismiss
// POST /v1/checkout                          order summary (409 empty cart)
// GET  /v1/catalog                           reference data
// GET  /v1/activity/{productID}              per-product add counter

type CartHandler struct {
	commander port.CartCommander
	viewer    port.CartViewer
	catalog   port.CatalogViewer
}

func RegisterCart(
	mux *http.ServeMux,
	commander port.CartCommander,
	viewer port.CartViewer,
	catalog port.CatalogViewer,
) {
	h := CartHandler{commander, viewer, catalog}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("PATCH /v1/cart/items/{lineID}", h.PatchItem)
	mux.HandleFunc("DELETE /v1/cart/items/{lineID}", h.DeleteItem)
	mux.HandleFunc("POST /v1/cart/clear", h.PostClear)
	mux.HandleFunc("POST /v1/cart/toggle", h.PostToggle)
	mux.HandleFunc("POST /v1/cart/notification/dismiss", h.PostDismiss)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeState(w)
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var req AddItem
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, err := h.catalog.Catalog().ProductByID(req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownProduct) {
			http.Error(w, "unknown product", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to add item", http.StatusInternalServerError)
		log.Error("failed to resolve product", "err", err)
		return
	}

	h.commander.AddToCart(r.Context(), p)
	h.writeState(w)
}

func (h CartHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PatchItem"
	log := slog.With("op", op)

	var req UpdateQuantity
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	h.commander.UpdateQuantity(r.Context(), r.PathValue("lineID"), req.Quantity)
	h.writeState(w)
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	h.commander.RemoveFromCart(r.Context(), r.PathValue("lineID"))
	h.writeState(w)
}

func (h CartHandler) PostClear(w http.ResponseWriter, r *http.Request) {
	h.commander.ClearCart(r.Context())
	h.writeState(w)
}

func (h CartHandler) PostToggle(w http.ResponseWriter, r *http.Request) {
	h.commander.ToggleCart(r.Context())
	h.writeState(w)
}

func (h CartHandler) PostDismiss(w http.ResponseWriter, r *http.Request) {
	h.commander.DismissNotification(r.Context())
	h.writeState(w)
}

func (h CartHandler) writeState(w http.ResponseWriter) {
	writeJSON(w, toCartStateDTO(h.viewer.CartState()))
}

type CheckoutHandler struct {
	composer port.OrderComposer
}

func RegisterCheckout(mux *http.ServeMux, composer port.OrderComposer) {
	h := CheckoutHandler{composer}
	mux.HandleFunc("POST /v1/checkout", h.PostCheckout)
}

func (h CheckoutHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostCheckout"
	log := slog.With("op", op)

	summary, err := h.composer.ComposeOrder()
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			http.Error(w, "cart is empty", http.StatusConflict)
			return
		}
		http.Error(w, "failed to compose order", http.StatusInternalServerError)
		log.Error("failed to compose order", "err", err)
		return
	}

	writeJSON(w, OrderSummary{Summary: summary.Text, Total: summary.Total})
}

type CatalogHandler struct {
	catalog port.CatalogViewer
}

func RegisterCatalog(mux *http.ServeMux, catalog port.CatalogViewer) {
	h := CatalogHandler{catalog}
	mux.HandleFunc("GET /v1/catalog", h.GetCatalog)
}

func (h CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	c := h.catalog.Catalog()

	dto := Catalog{
		Products:   make([]Product, 0, len(c.Products())),
		Categories: make([]Category, 0, len(c.Categories())),
	}
	for _, p := range c.Products() {
		dto.Products = append(dto.Products, toProductDTO(p))
	}
	for _, cat := range c.Categories() {
		dto.Categories = append(dto.Categories, Category{
			ID: cat.ID, Name: cat.Name, Label: cat.Label,
		})
	}
	writeJSON(w, dto)
}

type ActivityHandler struct {
	adds port.ProductAddsViewer
}

func RegisterActivity(mux *http.ServeMux, adds port.ProductAddsViewer) {
	h := ActivityHandler{adds}
	mux.HandleFunc("GET /v1/activity/{productID}", h.GetProductAdds)
}

func (h ActivityHandler) GetProductAdds(w http.ResponseWriter, r *http.Request) {
	const op = "ActivityHandler.GetProductAdds"
	log := slog.With("op", op)

	productID := r.PathValue("productID")
	count, err := h.adds.ProductAdds(productID)
	if err != nil {
		http.Error(w, "activity unavailable", http.StatusServiceUnavailable)
		log.Error("failed to read activity", "err", err)
		return
	}

	writeJSON(w, ProductAdds{ProductID: productID, Adds: count})
}

func writeJSON(w http.ResponseWriter, v any) {
	const op = "httphandler.writeJSON"

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}

func toCartStateDTO(state domain.CartState) CartState {
	dto := CartState{
		Lines: make([]CartLine, 0, len(state.Lines)),
		Total: state.Total.StringFixed(2),
		Open:  state.Open,
	}
	for _, l := range state.Lines {
		dto.Lines = append(dto.Lines, CartLine{
			ID:       l.ID,
			Product:  toProductDTO(l.Product),
			Quantity: l.Quantity,
			Subtotal: l.Subtotal.StringFixed(2),
		})
	}
	dto.Notification.Visible = state.Notification.Visible
	if state.Notification.Visible {
		p := toProductDTO(state.Notification.Product)
		dto.Notification.Product = &p
	}
	return dto
}

func toProductDTO(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Image:       p.Image,
		Category:    p.Category,
	}
}
