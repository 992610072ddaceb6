package ordering

import (
	"sync"
	"time"
)

// CartStore keeps per-session carts in memory. Carts belong to a single
// client session, so there is no persistence behind this map; checkout
// or an explicit clear is the end of a cart's life.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewCartStore() *CartStore {
	return &CartStore{
		carts: make(map[string]*Cart),
	}
}

// Snapshot returns a copy of the session's cart, empty when the session
// has none. Handlers read snapshots so concurrent mutations never show a
// half-applied cart.
func (s *CartStore) Snapshot(sessionID string) Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return Cart{}
	}

	copied := Cart{Lines: make([]CartLine, len(cart.Lines))}
	copy(copied.Lines, cart.Lines)
	if cart.PickupTime != nil {
		t := *cart.PickupTime
		copied.PickupTime = &t
	}
	return copied
}

// Mutate runs fn against the session's cart while holding the store
// lock, so concurrent handler calls on one session cannot interleave.
func (s *CartStore) Mutate(sessionID string, fn func(cart *Cart)) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		cart = &Cart{}
		s.carts[sessionID] = cart
	}
	fn(cart)
	return cart
}

// SetPickupTime records the session's pending pickup time selection.
func (s *CartStore) SetPickupTime(sessionID string, pickup time.Time) {
	s.Mutate(sessionID, func(cart *Cart) {
		t := pickup
		cart.PickupTime = &t
	})
}

// Drop forgets the session entirely, used after checkout.
func (s *CartStore) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
