package api

import (
	"net/http"
	"strconv"

	"github.com/dukerupert/vitrine/internal/catalog"
	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/handler"
	"github.com/dukerupert/vitrine/internal/storefront"
	"github.com/dukerupert/vitrine/internal/telemetry"
)

// CatalogHandler serves catalog listings, search and product pages.
type CatalogHandler struct {
	sessions Sessions
	catalog  *catalog.Catalog
	metrics  *telemetry.BusinessMetrics
}

func NewCatalogHandler(sessions Sessions, cat *catalog.Catalog, metrics *telemetry.BusinessMetrics) *CatalogHandler {
	if cat == nil {
		cat = catalog.Empty()
	}
	return &CatalogHandler{sessions: sessions, catalog: cat, metrics: metrics}
}

// List handles GET /api/catalog
//
// Filters always come from the query string, as they do on a page load.
// q, sort and page are applied only when present, so a bare request
// keeps the session's search, ordering and page.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	cmds := []storefront.Command{storefront.ChangeFilter{Filter: catalog.FilterFromQuery(values)}}
	if values.Has("q") {
		cmds = append(cmds, storefront.ChangeSearch{Query: values.Get("q")})
	}
	if values.Has("sort") {
		cmds = append(cmds, storefront.ChangeSort{Key: values.Get("sort")})
	}
	if values.Has("page") {
		page, err := strconv.Atoi(values.Get("page"))
		if err != nil {
			handler.ValidationErrorResponse(w, r, domain.NewValidationError("catalog.list", "page", "page must be a number"))
			return
		}
		cmds = append(cmds, storefront.ChangePage{Page: page})
	}

	var v storefront.View
	for _, cmd := range cmds {
		var ok bool
		if v, ok = dispatch(w, r, h.sessions, cmd); !ok {
			return
		}
	}
	handler.WriteJSON(w, http.StatusOK, v.Catalog)
}

// Search handles GET /api/catalog/search, the jump-to-first-match on Enter.
// An empty query answers 204.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	p, err := h.catalog.FirstMatch(catalog.FilterFromQuery(values), values.Get("q"))
	if err != nil {
		h.metrics.RecordSearchJump(false)
		handler.ErrorResponse(w, r, err)
		return
	}
	if p == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.metrics.RecordSearchJump(true)
	handler.WriteJSON(w, http.StatusOK, p)
}

// Stats handles GET /api/catalog/stats
func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	handler.WriteJSON(w, http.StatusOK, h.catalog.Stats())
}

// Sets handles GET /api/catalog/sets
func (h *CatalogHandler) Sets(w http.ResponseWriter, r *http.Request) {
	handler.WriteJSON(w, http.StatusOK, h.catalog.BestSets())
}

// Block handles GET /api/catalog/blocks/{block}
func (h *CatalogHandler) Block(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("block")
	products := h.catalog.Block(name)
	if len(products) == 0 {
		handler.ErrorResponse(w, r, domain.NotFound("catalog.block", "block", name))
		return
	}
	handler.WriteJSON(w, http.StatusOK, products)
}

// Recommendations handles GET /api/catalog/recommendations
func (h *CatalogHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	handler.WriteJSON(w, http.StatusOK, h.catalog.MayAlsoLike(nil, catalog.RecommendationCount))
}

// Product handles GET /api/products/{id}
func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	p, err := h.catalog.Lookup(id)
	if err != nil {
		h.metrics.RecordLookupMiss("product_page")
		handler.ErrorResponse(w, r, err)
		return
	}

	h.metrics.RecordProductView(p.ID)
	handler.WriteJSON(w, http.StatusOK, p)
}
