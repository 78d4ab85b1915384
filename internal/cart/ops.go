// Package cart holds the cart ledger: pure operations over domain.Cart,
// slot persistence and the mutate-persist-notify cycle.
package cart

import (
	"strconv"
	"strings"

	"github.com/dukerupert/vitrine/internal/domain"
)

// AddOrMerge adds delta units under key. An existing line keeps its snapshot
// and gains delta; a new line is inserted from snapshot with quantity delta.
// No clamping happens here.
func AddOrMerge(c domain.Cart, key string, snapshot domain.CartLine, delta int) domain.Cart {
	out := c.Clone()
	if line, ok := out[key]; ok {
		line.Quantity += delta
		out[key] = line
		return out
	}
	snapshot.Quantity = delta
	out[key] = snapshot
	return out
}

// SetQuantity overwrites a line's quantity, clamped to [1, 99].
// A missing key leaves the cart unchanged.
func SetQuantity(c domain.Cart, key string, quantity int) domain.Cart {
	out := c.Clone()
	if line, ok := out[key]; ok {
		line.Quantity = domain.ClampQuantity(quantity)
		out[key] = line
	}
	return out
}

// Increment steps a line up by one, stopping at 99.
func Increment(c domain.Cart, key string) domain.Cart {
	line, ok := c[key]
	if !ok {
		return c.Clone()
	}
	return SetQuantity(c, key, line.Quantity+1)
}

// Decrement steps a line down by one, stopping at 1.
func Decrement(c domain.Cart, key string) domain.Cart {
	line, ok := c[key]
	if !ok {
		return c.Clone()
	}
	return SetQuantity(c, key, line.Quantity-1)
}

// Remove deletes a line if present.
func Remove(c domain.Cart, key string) domain.Cart {
	out := c.Clone()
	delete(out, key)
	return out
}

// Clear returns an empty cart. Checkout and clear-cart both end here.
func Clear() domain.Cart {
	return domain.NewCart()
}

// TotalUnits sums quantities for the cart-count badge.
func TotalUnits(c domain.Cart) int {
	n := 0
	for _, line := range c {
		n += line.Quantity
	}
	return n
}

// ParseQuantity coerces raw form input into [1, 99]. Leading digits are
// honoured ("3 boxes" is 3); anything without them becomes 1.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return domain.MinQuantity
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// only overflow reaches here
		if s[0] == '-' {
			return domain.MinQuantity
		}
		return domain.MaxQuantity
	}
	return domain.ClampQuantity(n)
}
