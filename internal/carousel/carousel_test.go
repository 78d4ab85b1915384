package carousel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCarousel_NextStopsAtLastWindow(t *testing.T) {
	c := New(6, 4)

	assert.True(t, c.Next())
	assert.True(t, c.Next())
	assert.False(t, c.Next())
	assert.Equal(t, 2, c.Index())
	assert.Equal(t, 2, c.MaxIndex())

	from, to := c.Window()
	assert.Equal(t, 2, from)
	assert.Equal(t, 6, to)
}

func TestCarousel_PrevStopsAtZero(t *testing.T) {
	c := New(6, 4)

	assert.False(t, c.Prev())
	c.Next()
	assert.True(t, c.Prev())
	assert.False(t, c.Prev())
	assert.Equal(t, 0, c.Index())
}

func TestCarousel_FewerItemsThanView(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4} {
		c := New(n, 4)
		assert.False(t, c.Next(), "n=%d", n)
		assert.Equal(t, 0, c.Index())
		assert.Equal(t, 0, c.MaxIndex())
	}
}

func TestCarousel_IndexStaysInBounds(t *testing.T) {
	moves := []bool{true, true, false, true, true, true, true, false, false, false, false, true}

	for items := 0; items <= 10; items++ {
		for cpv := 1; cpv <= 5; cpv++ {
			c := New(items, cpv)
			for _, next := range moves {
				if next {
					c.Next()
				} else {
					c.Prev()
				}
				assert.GreaterOrEqual(t, c.Index(), 0)
				assert.LessOrEqual(t, c.Index(), max(0, items-cpv))
			}
		}
	}
}

func TestCarousel_Offset(t *testing.T) {
	c := New(8, 4)
	m := FixedMeasure(270, 30)

	assert.Equal(t, 0.0, c.Offset(m))
	c.Next()
	c.Next()
	assert.Equal(t, 600.0, c.Offset(m))
	assert.Equal(t, 0.0, c.Offset(nil))

	assert.Equal(t, 0.0, New(0, 4).Offset(m))
}

func TestCarousel_Reset(t *testing.T) {
	c := New(8, 4)
	c.Next()
	c.Reset()
	assert.Equal(t, 0, c.Index())
}

func TestCarousel_DefaultCardsPerView(t *testing.T) {
	assert.Equal(t, DefaultCardsPerView, New(10, 0).CardsPerView())
	assert.Equal(t, 0, New(-3, 4).Len())
}

func TestCarousel_Snapshot(t *testing.T) {
	c := New(5, 4)
	c.Next()

	assert.Equal(t, State{
		Index:        1,
		MaxIndex:     1,
		Items:        5,
		CardsPerView: 4,
		CanPrev:      true,
		CanNext:      false,
		Offset:       320,
	}, c.Snapshot(FixedMeasure(300, 20)))
}
