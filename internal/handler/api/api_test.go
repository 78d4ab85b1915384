package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dukerupert/vitrine/internal/catalog"
	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/middleware"
	"github.com/dukerupert/vitrine/internal/router"
	"github.com/dukerupert/vitrine/internal/storage"
	"github.com/dukerupert/vitrine/internal/storefront"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "7b1c1f8e-3a53-4d6e-9a55-0c5b8a3f1d20"

func testCatalog() *catalog.Catalog {
	return catalog.New([]domain.Product{
		{ID: "P1", Name: "Linen Shirt", Price: 100, Size: "M", Color: "red", Category: "shirts", Rating: 4, Blocks: []string{domain.BlockSelected}},
		{ID: "P2", Name: "Cotton Tee", Price: 20, Size: "S", Color: "blue", Category: "shirts", SalesStatus: true, Rating: 5, Blocks: []string{domain.BlockNewArrivals}},
		{ID: "P3", Name: "Canvas Tote", Price: 45, Size: "L", Color: "blue", Category: "bags", Blocks: []string{domain.BlockNewArrivals}},
		{ID: "SET1", Name: "Weekend Set", Price: 1750, Size: "L", Color: "red", Category: "sets", Blocks: []string{domain.BlockSelected}},
	})
}

type testServer struct {
	router   *router.Router
	registry *storefront.Registry
	slot     *storage.MemoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cat := testCatalog()
	slot := storage.NewMemoryStorage()
	reg := storefront.NewRegistry(storefront.Deps{
		Catalog:      cat,
		Slot:         slot,
		Logger:       zerolog.Nop(),
		CardsPerView: 1,
	}, 0)

	r := router.New(middleware.Session(middleware.SessionConfig{}))
	RegisterRoutes(r, Handlers{
		Cart:     NewCartHandler(reg),
		Catalog:  NewCatalogHandler(reg, cat, nil),
		Carousel: NewCarouselHandler(reg),
	}, middleware.MaxBodySize())

	return &testServer{router: r, registry: reg, slot: slot}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: testSession})

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type cartResponse struct {
	Lines []struct {
		Key       string `json:"key"`
		ID        string `json:"id"`
		Quantity  int    `json:"quantity"`
		LineTotal string `json:"lineTotal"`
	} `json:"lines"`
	Count     int `json:"count"`
	Formatted struct {
		Subtotal string `json:"subtotal"`
		Discount string `json:"discount"`
		Shipping string `json:"shipping"`
		Total    string `json:"total"`
	} `json:"formatted"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

type errorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func TestCart_AddAndView(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"P1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get("X-Cart-Count"))

	cart := decode[cartResponse](t, rec)
	assert.Equal(t, 1, cart.Count)
	assert.Equal(t, "$130.00", cart.Formatted.Total)

	rec = s.do(t, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[cartResponse](t, rec)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "P1", cart.Lines[0].Key)
	assert.Equal(t, "100.00", cart.Lines[0].LineTotal)
}

func TestCart_AddAcceptsNumericQuantity(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"SET1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cart := decode[cartResponse](t, rec)
	assert.Equal(t, "$3500.00", cart.Formatted.Subtotal)
	assert.Equal(t, "$350.00", cart.Formatted.Discount)
	assert.Equal(t, "$3180.00", cart.Formatted.Total)
}

func TestCart_AddValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/cart/items", `{"quantity":"2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorResponse](t, rec)
	assert.Equal(t, domain.EINVALID, body.Error.Code)
	assert.Contains(t, body.Error.Fields, "productId")

	rec = s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"P1","size":"M"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decode[errorResponse](t, rec)
	assert.Equal(t, "Please select size, color, and category.", body.Error.Message)
}

func TestCart_UnknownProduct(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"GHOST"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[errorResponse](t, rec)
	assert.Equal(t, "Product not found", body.Error.Message)

	_, err := s.slot.Get(t.Context(), "cart:"+testSession)
	assert.True(t, storage.IsNotFound(err), "nothing written")
}

func TestCart_LineOperations(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/cart/items", `{"productId":"P1","size":"M","color":"red","category":"shirts"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	key := "P1_M_red_shirts"
	path := "/api/cart/items/" + url.PathEscape(key)

	rec = s.do(t, http.MethodPut, path, `{"quantity":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[cartResponse](t, rec).Lines[0].Quantity)

	rec = s.do(t, http.MethodPost, path+"/increment", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[cartResponse](t, rec).Lines[0].Quantity)

	rec = s.do(t, http.MethodPost, path+"/decrement", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[cartResponse](t, rec).Lines[0].Quantity)

	rec = s.do(t, http.MethodPost, "/api/cart/items/nope/increment", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[cartResponse](t, rec).Lines)
}

func TestCart_RecommendedClearCheckout(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/cart/recommended", `{"productId":"P2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "P2_default_default_default", decode[cartResponse](t, rec).Lines[0].Key)

	for _, path := range []string{"/api/cart/clear", "/api/cart/checkout"} {
		rec = s.do(t, http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, decode[cartResponse](t, rec).Count)
	}
}

func TestCart_RequiresSession(t *testing.T) {
	reg := storefront.NewRegistry(storefront.Deps{Slot: storage.NewMemoryStorage(), Logger: zerolog.Nop()}, 0)
	h := NewCartHandler(reg)

	rec := httptest.NewRecorder()
	h.View(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "An internal error occurred")
}

type catalogResponse struct {
	Query struct {
		Search string `json:"search"`
		Sort   string `json:"sort"`
		Page   int    `json:"page"`
	} `json:"query"`
	Matched int `json:"matched"`
	Page    struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		RangeText string `json:"rangeText"`
	} `json:"page"`
}

func TestCatalog_List(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/catalog?color=blue&sort=price-desc", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[catalogResponse](t, rec)
	assert.Equal(t, 2, view.Matched)
	assert.Equal(t, "P3", view.Page.Items[0].ID)

	// a bare request keeps the session's sort
	rec = s.do(t, http.MethodGet, "/api/catalog?color=blue", "")
	view = decode[catalogResponse](t, rec)
	assert.Equal(t, "price-desc", view.Query.Sort)

	rec = s.do(t, http.MethodGet, "/api/catalog?q=tote", "")
	view = decode[catalogResponse](t, rec)
	assert.Equal(t, 1, view.Matched)

	rec = s.do(t, http.MethodGet, "/api/catalog?sort=", "")
	view = decode[catalogResponse](t, rec)
	assert.Empty(t, view.Query.Search)
	assert.Empty(t, view.Query.Sort)
	assert.Equal(t, 4, view.Matched)
	assert.Equal(t, "Showing 1–4 of 4 Results", view.Page.RangeText)

	rec = s.do(t, http.MethodGet, "/api/catalog?page=two", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalog_Search(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/catalog/search?q=SHIRT", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "P1", decode[domain.Product](t, rec).ID)

	rec = s.do(t, http.MethodGet, "/api/catalog/search?q=shirt&category=bags", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No matches", decode[errorResponse](t, rec).Error.Message)

	rec = s.do(t, http.MethodGet, "/api/catalog/search?q=%20", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCatalog_StatsSetsBlocks(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/catalog/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.EqualValues(t, 4, stats["totalProducts"])
	assert.EqualValues(t, 1, stats["sets"])

	rec = s.do(t, http.MethodGet, "/api/catalog/sets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sets := decode[[]domain.Product](t, rec)
	require.Len(t, sets, 1)
	assert.Equal(t, "SET1", sets[0].ID)

	rec = s.do(t, http.MethodGet, "/api/catalog/blocks/"+url.PathEscape(domain.BlockNewArrivals), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Product](t, rec), 2)

	rec = s.do(t, http.MethodGet, "/api/catalog/blocks/Clearance", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/catalog/recommendations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, p := range decode[[]domain.Product](t, rec) {
		assert.True(t, p.InBlock(domain.BlockNewArrivals))
	}
}

func TestCatalog_Product(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/products/P2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cotton Tee", decode[domain.Product](t, rec).Name)

	rec = s.do(t, http.MethodGet, "/api/products/P9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCarousel(t *testing.T) {
	s := newTestServer(t)
	block := "/api/carousels/" + url.PathEscape(domain.BlockNewArrivals)

	rec := s.do(t, http.MethodPost, block+"/next?cardWidth=270&gap=30", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var v struct {
		State struct {
			Index   int     `json:"index"`
			Offset  float64 `json:"offset"`
			CanNext bool    `json:"canNext"`
		} `json:"state"`
		Visible []domain.Product `json:"visible"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	assert.Equal(t, 1, v.State.Index)
	assert.Equal(t, 300.0, v.State.Offset)
	assert.False(t, v.State.CanNext)
	require.Len(t, v.Visible, 1)
	assert.Equal(t, "P3", v.Visible[0].ID)

	rec = s.do(t, http.MethodPost, block+"/prev", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/carousels/Clearance/next", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMeasureFromQuery(t *testing.T) {
	tests := []struct {
		query string
		nilM  bool
	}{
		{"cardWidth=270&gap=30", false},
		{"cardWidth=270", true},
		{"cardWidth=abc&gap=30", true},
		{"cardWidth=-1&gap=30", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/carousels/x/next?"+tt.query, nil)
			m := measureFromQuery(r)
			assert.Equal(t, tt.nilM, m == nil)
		})
	}
}
