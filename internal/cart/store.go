package cart

import (
	"context"
	"encoding/json"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/storage"
	"github.com/rs/zerolog"
)

// SlotKey is the well-known slot holding a single shopper's cart.
const SlotKey = "cart"

// SessionSlotKey scopes the cart slot to one browser session.
func SessionSlotKey(sessionID string) string {
	return SlotKey + ":" + sessionID
}

// Slot is the persistence a Store needs. storage.Storage satisfies it.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, blob []byte) error
}

// Store reads and writes one cart as a JSON blob under a fixed key.
type Store struct {
	slot   Slot
	key    string
	logger zerolog.Logger
}

func NewStore(slot Slot, key string, logger zerolog.Logger) *Store {
	return &Store{
		slot:   slot,
		key:    key,
		logger: logger.With().Str("slot", key).Logger(),
	}
}

// Key returns the slot key this store writes to.
func (s *Store) Key() string {
	return s.key
}

// Load returns the persisted cart. Absence, read failures and malformed
// blobs all yield an empty cart. Use LoadStrict before writing.
func (s *Store) Load(ctx context.Context) domain.Cart {
	c, err := s.LoadStrict(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("cart slot unreadable, showing empty cart")
		return domain.NewCart()
	}
	return c
}

// LoadStrict is Load for the write path: an absent or malformed blob is still
// an empty cart, but a slot that cannot be read returns EUNAVAILABLE.
func (s *Store) LoadStrict(ctx context.Context) (domain.Cart, error) {
	blob, err := s.slot.Get(ctx, s.key)
	if err != nil {
		if storage.IsNotFound(err) {
			return domain.NewCart(), nil
		}
		return nil, domain.WrapError(err, domain.EUNAVAILABLE, "cart.load", domain.ErrCartSlotNotRead.Message)
	}

	var c domain.Cart
	if err := json.Unmarshal(blob, &c); err != nil {
		s.logger.Warn().Err(err).Int("bytes", len(blob)).Msg("malformed cart blob, starting empty")
		return domain.NewCart(), nil
	}
	if c == nil {
		return domain.NewCart(), nil
	}
	return c, nil
}

// Save overwrites the slot with c.
func (s *Store) Save(ctx context.Context, c domain.Cart) error {
	if c == nil {
		c = domain.NewCart()
	}
	blob, err := json.Marshal(c)
	if err != nil {
		return domain.Internal(err, "cart.save", "failed to encode cart")
	}
	if err := s.slot.Put(ctx, s.key, blob); err != nil {
		return domain.WrapError(err, domain.EUNAVAILABLE, "cart.save", domain.ErrCartSlotNotWritten.Message)
	}
	return nil
}
