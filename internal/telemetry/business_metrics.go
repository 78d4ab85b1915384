package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// BusinessMetrics holds Prometheus metrics for storefront behaviour.
// Every Record method is safe on a nil receiver so components can run
// without metrics in tests.
type BusinessMetrics struct {
	// Catalog
	CatalogProducts     prometheus.Gauge
	CatalogLoadFailures prometheus.Counter
	CatalogQueries      *prometheus.CounterVec
	SearchJumps         *prometheus.CounterVec
	ProductViews        *prometheus.CounterVec
	LookupMisses        *prometheus.CounterVec

	// Cart
	ProductAddToCart *prometheus.CounterVec
	CartMutations    *prometheus.CounterVec
	CartCleared      *prometheus.CounterVec
	CartValue        prometheus.Histogram
	CartUnits        prometheus.Histogram

	// Carousels
	CarouselMoves *prometheus.CounterVec

	// Sessions
	ActiveSessions  prometheus.Gauge
	SessionsEvicted prometheus.Counter

	// Notifications
	NotificationsFailed *prometheus.CounterVec
}

// NewBusinessMetrics creates business metrics and registers them with reg.
// A nil reg uses the default registerer.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "vitrine"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	subsystem := "business"

	return &BusinessMetrics{
		// =======================================================================
		// Catalog
		// =======================================================================
		CatalogProducts: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "catalog_products",
				Help:      "Products in the loaded catalog",
			},
		),
		CatalogLoadFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "catalog_load_failures_total",
				Help:      "Catalog source loads that fell back to an empty catalog",
			},
		),
		CatalogQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "catalog_queries_total",
				Help:      "Catalog views computed",
			},
			[]string{"filter_type", "sort"}, // filter_type: none, size, color+sales, ...
		),
		SearchJumps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "search_jumps_total",
				Help:      "Search-on-enter requests",
			},
			[]string{"result"}, // result: hit, miss
		),
		ProductViews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_views_total",
				Help:      "Total product detail lookups",
			},
			[]string{"product_id"},
		),
		LookupMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "lookup_misses_total",
				Help:      "Product lookups that found nothing",
			},
			[]string{"source"}, // source: product_page, add_to_cart
		),

		// =======================================================================
		// Cart
		// =======================================================================
		ProductAddToCart: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_add_to_cart_total",
				Help:      "Total add to cart actions",
			},
			[]string{"product_id", "path"}, // path: simple, variant, recommended
		),
		CartMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_mutations_total",
				Help:      "Persisted cart mutations by operation",
			},
			[]string{"op"},
		),
		CartCleared: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_cleared_total",
				Help:      "Carts emptied",
			},
			[]string{"reason"}, // reason: clear, checkout
		),
		CartValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value_dollars",
				Help:      "Cart total after each mutation",
				Buckets:   []float64{30, 50, 100, 250, 500, 1000, 2000, 3000, 5000, 10000},
			},
		),
		CartUnits: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_units",
				Help:      "Units in the cart after each mutation",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
		),

		// =======================================================================
		// Carousels
		// =======================================================================
		CarouselMoves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "carousel_moves_total",
				Help:      "Carousel navigation requests",
			},
			[]string{"block", "direction", "moved"},
		),

		// =======================================================================
		// Sessions
		// =======================================================================
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_sessions",
				Help:      "Storefront sessions held in memory",
			},
		),
		SessionsEvicted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sessions_evicted_total",
				Help:      "Idle sessions dropped by the sweeper",
			},
		),

		// =======================================================================
		// Notifications
		// =======================================================================
		NotificationsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_failed_total",
				Help:      "Cart change notifications that could not be delivered",
			},
			[]string{"sink"},
		),
	}
}

// Global instance for easy access from handlers
var Business *BusinessMetrics

// InitBusinessMetrics initializes the global business metrics instance
func InitBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace, reg)
	return Business
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (m *BusinessMetrics) RecordCatalogLoaded(products int, failed bool) {
	if m == nil {
		return
	}
	m.CatalogProducts.Set(float64(products))
	if failed {
		m.CatalogLoadFailures.Inc()
	}
}

func (m *BusinessMetrics) RecordCatalogQuery(filterType, sort string) {
	if m == nil {
		return
	}
	if sort == "" {
		sort = "none"
	}
	m.CatalogQueries.WithLabelValues(filterType, sort).Inc()
}

func (m *BusinessMetrics) RecordSearchJump(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SearchJumps.WithLabelValues(result).Inc()
}

func (m *BusinessMetrics) RecordProductView(productID string) {
	if m == nil {
		return
	}
	m.ProductViews.WithLabelValues(productID).Inc()
}

func (m *BusinessMetrics) RecordLookupMiss(source string) {
	if m == nil {
		return
	}
	m.LookupMisses.WithLabelValues(source).Inc()
}

func (m *BusinessMetrics) RecordAddToCart(productID, path string) {
	if m == nil {
		return
	}
	m.ProductAddToCart.WithLabelValues(productID, path).Inc()
}

// RecordCartMutation tracks one persisted mutation and the resulting cart.
func (m *BusinessMetrics) RecordCartMutation(op string, units int, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.CartMutations.WithLabelValues(op).Inc()
	m.CartUnits.Observe(float64(units))
	m.CartValue.Observe(total.InexactFloat64())
}

func (m *BusinessMetrics) RecordCartCleared(reason string) {
	if m == nil {
		return
	}
	m.CartCleared.WithLabelValues(reason).Inc()
}

func (m *BusinessMetrics) RecordCarouselMove(block, direction string, moved bool) {
	if m == nil {
		return
	}
	m.CarouselMoves.WithLabelValues(block, direction, boolLabel(moved)).Inc()
}

func (m *BusinessMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

func (m *BusinessMetrics) RecordSessionsEvicted(n int) {
	if m == nil {
		return
	}
	m.SessionsEvicted.Add(float64(n))
}

func (m *BusinessMetrics) RecordNotificationFailed(sink string) {
	if m == nil {
		return
	}
	m.NotificationsFailed.WithLabelValues(sink).Inc()
}
