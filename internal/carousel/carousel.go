// Package carousel tracks the position of a fixed-width card strip that
// scrolls one card at a time without wrapping.
package carousel

// DefaultCardsPerView is the number of cards visible at once.
const DefaultCardsPerView = 4

// Measure returns the rendered card width and the gap between cards.
// It is supplied by the renderer; the carousel never measures anything.
type Measure func() (cardWidth, gap float64)

// Carousel is not safe for concurrent use; callers serialise access.
type Carousel struct {
	items        int
	cardsPerView int
	index        int
}

// New creates a carousel over itemsLength cards. A non-positive
// cardsPerView falls back to DefaultCardsPerView.
func New(itemsLength, cardsPerView int) *Carousel {
	if cardsPerView < 1 {
		cardsPerView = DefaultCardsPerView
	}
	return &Carousel{
		items:        max(itemsLength, 0),
		cardsPerView: cardsPerView,
	}
}

// State is a read-only snapshot for rendering.
type State struct {
	Index        int     `json:"index"`
	MaxIndex     int     `json:"maxIndex"`
	Items        int     `json:"items"`
	CardsPerView int     `json:"cardsPerView"`
	CanPrev      bool    `json:"canPrev"`
	CanNext      bool    `json:"canNext"`
	Offset       float64 `json:"offset"`
}

func (c *Carousel) Index() int        { return c.index }
func (c *Carousel) Len() int          { return c.items }
func (c *Carousel) CardsPerView() int { return c.cardsPerView }

// MaxIndex is max(0, items - cardsPerView).
func (c *Carousel) MaxIndex() int {
	return max(0, c.items-c.cardsPerView)
}

// Next advances one card if the last card is not yet visible.
// It reports whether the index moved.
func (c *Carousel) Next() bool {
	if c.index < c.items-c.cardsPerView {
		c.index++
		return true
	}
	return false
}

// Prev steps back one card unless already at the start.
func (c *Carousel) Prev() bool {
	if c.index > 0 {
		c.index--
		return true
	}
	return false
}

// Reset returns to the first card.
func (c *Carousel) Reset() {
	c.index = 0
}

// Offset is the translation in pixels for the current index. An empty
// carousel or a nil measure yields 0.
func (c *Carousel) Offset(m Measure) float64 {
	if c.items == 0 || m == nil {
		return 0
	}
	width, gap := m()
	return float64(c.index) * (width + gap)
}

// Window returns the half-open range [from, to) of visible card positions.
func (c *Carousel) Window() (from, to int) {
	return c.index, min(c.index+c.cardsPerView, c.items)
}

// Snapshot captures the state, computing the offset with m.
func (c *Carousel) Snapshot(m Measure) State {
	return State{
		Index:        c.index,
		MaxIndex:     c.MaxIndex(),
		Items:        c.items,
		CardsPerView: c.cardsPerView,
		CanPrev:      c.index > 0,
		CanNext:      c.index < c.items-c.cardsPerView,
		Offset:       c.Offset(m),
	}
}

// FixedMeasure returns a Measure reporting constant dimensions.
func FixedMeasure(cardWidth, gap float64) Measure {
	return func() (float64, float64) { return cardWidth, gap }
}
