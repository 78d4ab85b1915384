package storefront

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dukerupert/vitrine/internal/cart"
	"github.com/dukerupert/vitrine/internal/carousel"
	"github.com/dukerupert/vitrine/internal/catalog"
	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/telemetry"
	"github.com/rs/zerolog"
)

// Session is one shopper's state. Commands on a session run one at a time.
// Two sessions sharing a slot key can still overwrite each other's cart:
// the slot has no read-modify-write atomicity.
type Session struct {
	id string

	mu        sync.Mutex
	catalog   *catalog.Catalog
	ledger    *cart.Ledger
	query     catalog.Query
	carousels map[string]*carousel.Carousel
	perView   int
	lastSeen  time.Time

	metrics *telemetry.BusinessMetrics
	logger  zerolog.Logger
	now     func() time.Time
}

// Deps are shared by every session a Registry creates.
type Deps struct {
	Catalog      *catalog.Catalog
	Slot         cart.Slot
	Notifier     cart.Notifier
	Metrics      *telemetry.BusinessMetrics
	Logger       zerolog.Logger
	CardsPerView int
	// SlotKey maps a session id to its cart slot. Nil uses cart.SessionSlotKey.
	SlotKey func(sessionID string) string
}

// NewSession builds a session bound to the cart slot for id.
func NewSession(id string, deps Deps) *Session {
	keyFn := deps.SlotKey
	if keyFn == nil {
		keyFn = cart.SessionSlotKey
	}
	cat := deps.Catalog
	if cat == nil {
		cat = catalog.Empty()
	}

	logger := deps.Logger.With().Str("session_id", id).Logger()
	store := cart.NewStore(deps.Slot, keyFn(id), logger)

	s := &Session{
		id:        id,
		catalog:   cat,
		ledger:    cart.NewLedger(store, deps.Notifier, logger),
		query:     catalog.Query{Page: 1},
		carousels: make(map[string]*carousel.Carousel),
		perView:   deps.CardsPerView,
		metrics:   deps.Metrics,
		logger:    logger,
		now:       time.Now,
	}
	s.lastSeen = s.now()
	return s
}

func (s *Session) ID() string {
	return s.id
}

// LastSeen reports when the session last handled a command.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Reset drops transient view state, as on navigation away. The cart is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = catalog.Query{Page: 1}
	for _, c := range s.carousels {
		c.Reset()
	}
}

// Query returns the current catalog view state.
func (s *Session) Query() catalog.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Dispatch applies cmd and returns the affected part of the view.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = s.now()

	switch c := cmd.(type) {
	case AddToCart:
		return s.addToCart(ctx, c)
	case AddRecommended:
		return s.addRecommended(ctx, c)
	case SetQuantity:
		return s.mutateLine(ctx, cmd, c.Key, func(in domain.Cart) domain.Cart {
			return cart.SetQuantity(in, c.Key, cart.ParseQuantity(c.Raw))
		})
	case IncrementLine:
		return s.mutateLine(ctx, cmd, c.Key, func(in domain.Cart) domain.Cart {
			return cart.Increment(in, c.Key)
		})
	case DecrementLine:
		return s.mutateLine(ctx, cmd, c.Key, func(in domain.Cart) domain.Cart {
			return cart.Decrement(in, c.Key)
		})
	case RemoveLine:
		return s.mutate(ctx, cmd, c.Key, func(in domain.Cart) (domain.Cart, error) {
			if _, ok := in[c.Key]; !ok {
				return nil, cart.ErrUnchanged
			}
			return cart.Remove(in, c.Key), nil
		})
	case ClearCart, Checkout:
		v, err := s.mutate(ctx, cmd, "", func(domain.Cart) (domain.Cart, error) {
			return cart.Clear(), nil
		})
		if err == nil {
			s.metrics.RecordCartCleared(cmd.name())
		}
		return v, err
	case ViewCart:
		return View{Cart: NewCartView(s.ledger.Snapshot(ctx))}, nil

	case ChangeFilter:
		if c.Filter != s.query.Filter {
			s.query.Filter = c.Filter
			s.query.Page = 1
		}
		return s.catalogView(), nil
	case ChangeSearch:
		s.query.Search = c.Query
		s.query.Page = 1
		return s.catalogView(), nil
	case ChangeSort:
		key, ok := catalog.ParseSortKey(c.Key)
		s.query.Sort = key
		if !ok {
			// a reset reapplies filters fresh
			s.query.Search = ""
		}
		s.query.Page = 1
		return s.catalogView(), nil
	case ChangePage:
		s.query.Page = c.Page
		return s.catalogView(), nil
	case ViewCatalog:
		return s.catalogView(), nil

	case CarouselNext:
		return s.moveCarousel(c.Block, "next", c.Measure)
	case CarouselPrev:
		return s.moveCarousel(c.Block, "prev", c.Measure)
	}

	return View{}, domain.Internal(fmt.Errorf("unhandled command %T", cmd), "storefront.dispatch", "unhandled command")
}

func (s *Session) addToCart(ctx context.Context, c AddToCart) (View, error) {
	const op = "storefront.add"

	variant := domain.Variant{Size: c.Size, Color: c.Color, Category: c.Category}
	variantPath := c.Size != "" || c.Color != "" || c.Category != ""
	if variantPath && !variant.Complete() {
		return View{}, &domain.Error{Code: domain.EINVALID, Op: op, Message: domain.ErrVariantIncomplete.Message, Err: domain.ErrVariantIncomplete}
	}

	product, err := s.catalog.Lookup(c.ProductID)
	if err != nil {
		s.metrics.RecordLookupMiss("add_to_cart")
		return View{}, err
	}

	delta := 1
	if c.Quantity != "" {
		delta = cart.ParseQuantity(c.Quantity)
	}

	key := domain.SimpleKey(product.ID)
	line := domain.Snapshot(product)
	path := "simple"
	if variantPath {
		key = domain.VariantKey(product.ID, variant)
		line = line.WithVariant(variant)
		path = "variant"
	}

	v, err := s.mutate(ctx, c, key, func(in domain.Cart) (domain.Cart, error) {
		return clampLine(cart.AddOrMerge(in, key, line, delta), key), nil
	})
	if err == nil {
		s.metrics.RecordAddToCart(product.ID, path)
	}
	return v, err
}

func (s *Session) addRecommended(ctx context.Context, c AddRecommended) (View, error) {
	product, err := s.catalog.Lookup(c.ProductID)
	if err != nil {
		s.metrics.RecordLookupMiss("add_to_cart")
		return View{}, err
	}

	key := domain.DefaultVariantKey(product.ID)
	v, err := s.mutate(ctx, c, key, func(in domain.Cart) (domain.Cart, error) {
		return clampLine(cart.AddOrMerge(in, key, domain.Snapshot(product), 1), key), nil
	})
	if err == nil {
		s.metrics.RecordAddToCart(product.ID, "recommended")
	}
	return v, err
}

// clampLine keeps a merged line within the quantity bounds.
func clampLine(c domain.Cart, key string) domain.Cart {
	if line, ok := c[key]; ok {
		line.Quantity = domain.ClampQuantity(line.Quantity)
		c[key] = line
	}
	return c
}

// mutateLine runs fn against an existing line; a missing key is not found
// and nothing is written.
func (s *Session) mutateLine(ctx context.Context, cmd Command, key string, fn func(domain.Cart) domain.Cart) (View, error) {
	return s.mutate(ctx, cmd, key, func(in domain.Cart) (domain.Cart, error) {
		if _, ok := in[key]; !ok {
			return nil, domain.NotFound("storefront."+cmd.name(), "cart line", key)
		}
		return fn(in), nil
	})
}

func (s *Session) mutate(ctx context.Context, cmd Command, key string, fn cart.Mutation) (View, error) {
	res, err := s.ledger.Mutate(ctx, cmd.name(), key, fn)
	if err != nil {
		s.logger.Debug().Err(err).Str("op", cmd.name()).Str("key", key).Msg("cart command rejected")
		return View{}, err
	}
	if len(res.Events) > 0 {
		s.metrics.RecordCartMutation(cmd.name(), res.Count, res.Totals.Total)
	}
	return View{Cart: NewCartView(res), Events: res.Events}, nil
}

func (s *Session) catalogView() View {
	v := s.catalog.Run(s.query)
	s.query.Page = v.Query.Page
	s.metrics.RecordCatalogQuery(s.query.Filter.Kind(), string(s.query.Sort))
	return View{Catalog: &v}
}

func (s *Session) carouselFor(block string) (*carousel.Carousel, []domain.Product, error) {
	items := s.catalog.Block(block)
	if len(items) == 0 {
		return nil, nil, domain.NotFound("storefront.carousel", "carousel", block)
	}
	c, ok := s.carousels[block]
	if !ok {
		c = carousel.New(len(items), s.perView)
		s.carousels[block] = c
	}
	return c, items, nil
}

func (s *Session) moveCarousel(block, direction string, m carousel.Measure) (View, error) {
	c, items, err := s.carouselFor(block)
	if err != nil {
		return View{}, err
	}

	var moved bool
	if direction == "next" {
		moved = c.Next()
	} else {
		moved = c.Prev()
	}
	s.metrics.RecordCarouselMove(block, direction, moved)

	from, to := c.Window()
	return View{Carousel: &CarouselView{
		Block:   block,
		State:   c.Snapshot(m),
		Visible: items[from:to],
	}}, nil
}
