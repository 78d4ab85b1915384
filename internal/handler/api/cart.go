package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dukerupert/vitrine/internal/handler"
	"github.com/dukerupert/vitrine/internal/storefront"
)

// CartHandler serves the cart endpoints.
type CartHandler struct {
	sessions Sessions
}

func NewCartHandler(sessions Sessions) *CartHandler {
	return &CartHandler{sessions: sessions}
}

// rawQuantity accepts a JSON string or number and keeps the raw text, so
// coercion happens in one place: cart.ParseQuantity.
type rawQuantity string

func (q *rawQuantity) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*q = rawQuantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*q = rawQuantity(n.String())
	return nil
}

type addItemRequest struct {
	ProductID string      `json:"productId" validate:"required,max=64"`
	Size      string      `json:"size,omitempty" validate:"max=64"`
	Color     string      `json:"color,omitempty" validate:"max=64"`
	Category  string      `json:"category,omitempty" validate:"max=64"`
	Quantity  rawQuantity `json:"quantity,omitempty" validate:"max=16"`
}

type addRecommendedRequest struct {
	ProductID string `json:"productId" validate:"required,max=64"`
}

type setQuantityRequest struct {
	Quantity rawQuantity `json:"quantity" validate:"max=16"`
}

// View handles GET /api/cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, storefront.ViewCart{})
}

// Add handles POST /api/cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := handler.DecodeJSON(r, "cart.add", &req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	h.run(w, r, storefront.AddToCart{
		ProductID: req.ProductID,
		Size:      req.Size,
		Color:     req.Color,
		Category:  req.Category,
		Quantity:  string(req.Quantity),
	})
}

// AddRecommended handles POST /api/cart/recommended
func (h *CartHandler) AddRecommended(w http.ResponseWriter, r *http.Request) {
	var req addRecommendedRequest
	if err := handler.DecodeJSON(r, "cart.add_recommended", &req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}
	h.run(w, r, storefront.AddRecommended{ProductID: req.ProductID})
}

// SetQuantity handles PUT /api/cart/items/{key}. Unparseable input is
// coerced rather than rejected.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := handler.DecodeJSON(r, "cart.set_quantity", &req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}
	h.run(w, r, storefront.SetQuantity{Key: r.PathValue("key"), Raw: string(req.Quantity)})
}

// Increment handles POST /api/cart/items/{key}/increment
func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, storefront.IncrementLine{Key: r.PathValue("key")})
}

// Decrement handles POST /api/cart/items/{key}/decrement
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, storefront.DecrementLine{Key: r.PathValue("key")})
}

// Remove handles DELETE /api/cart/items/{key}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, storefront.RemoveLine{Key: r.PathValue("key")})
}

// Clear handles POST /api/cart/clear
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, storefront.ClearCart{})
}

// Checkout handles POST /api/cart/checkout. There is no payment step:
// checking out empties the cart.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, storefront.Checkout{})
}

func (h *CartHandler) run(w http.ResponseWriter, r *http.Request, cmd storefront.Command) {
	v, ok := dispatch(w, r, h.sessions, cmd)
	if !ok {
		return
	}
	w.Header().Set("X-Cart-Count", strconv.Itoa(v.Cart.Count))
	handler.WriteJSON(w, http.StatusOK, v.Cart)
}
