package api

import (
	"github.com/dukerupert/vitrine/internal/router"
)

// Handlers groups every API handler for registration.
type Handlers struct {
	Cart     *CartHandler
	Catalog  *CatalogHandler
	Carousel *CarouselHandler
}

// RegisterRoutes mounts the API on r. mutate wraps state-changing routes,
// typically with a body limit and a rate limiter.
func RegisterRoutes(r *router.Router, h Handlers, mutate ...router.Middleware) {
	r.Get("/api/cart", h.Cart.View)
	r.Post("/api/cart/items", h.Cart.Add, mutate...)
	r.Post("/api/cart/recommended", h.Cart.AddRecommended, mutate...)
	r.Put("/api/cart/items/{key}", h.Cart.SetQuantity, mutate...)
	r.Post("/api/cart/items/{key}/increment", h.Cart.Increment, mutate...)
	r.Post("/api/cart/items/{key}/decrement", h.Cart.Decrement, mutate...)
	r.Delete("/api/cart/items/{key}", h.Cart.Remove, mutate...)
	r.Post("/api/cart/clear", h.Cart.Clear, mutate...)
	r.Post("/api/cart/checkout", h.Cart.Checkout, mutate...)

	r.Get("/api/catalog", h.Catalog.List)
	r.Get("/api/catalog/search", h.Catalog.Search)
	r.Get("/api/catalog/stats", h.Catalog.Stats)
	r.Get("/api/catalog/sets", h.Catalog.Sets)
	r.Get("/api/catalog/blocks/{block}", h.Catalog.Block)
	r.Get("/api/catalog/recommendations", h.Catalog.Recommendations)
	r.Get("/api/products/{id}", h.Catalog.Product)

	r.Post("/api/carousels/{block}/next", h.Carousel.Next)
	r.Post("/api/carousels/{block}/prev", h.Carousel.Prev)
}
