package cart

import (
	"context"
	"sync"
)

// MemoryStore keeps carts in process memory. Used when no Redis address is
// configured, and by tests.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[uint]Cart
}

// NewMemoryStore returns an empty in-memory cart store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[uint]Cart)}
}

func (s *MemoryStore) Get(_ context.Context, clientID uint) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.carts[clientID]
	if !ok {
		return Cart{}, nil
	}

	// Copy so callers never mutate the stored map directly.
	c := make(Cart, len(stored))
	for id, qty := range stored {
		c[id] = qty
	}
	return c, nil
}

func (s *MemoryStore) Save(_ context.Context, clientID uint, c Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(Cart, len(c))
	for id, qty := range c {
		stored[id] = qty
	}
	s.carts[clientID] = stored
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, clientID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, clientID)
	return nil
}
