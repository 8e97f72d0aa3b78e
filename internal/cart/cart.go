// Package cart is the session-scoped staging area for a client's pending
// order: a per-client mapping of product id to quantity. Carts are not
// durable entities; checkout or an explicit clear destroys them.
package cart

import (
	"context"
)

// Cart maps product id to quantity for a single client
type Cart map[uint]int

// Store persists carts per client. Implementations: Redis-backed for
// deployments, in-memory for single-node and tests.
type Store interface {
	Get(ctx context.Context, clientID uint) (Cart, error)
	Save(ctx context.Context, clientID uint, c Cart) error
	Clear(ctx context.Context, clientID uint) error
}

// Add increments the quantity for a product, inserting it if absent
func (c Cart) Add(productID uint, quantity int) {
	c[productID] += quantity
}

// SetQuantity sets the quantity for a product; zero removes the entry
func (c Cart) SetQuantity(productID uint, quantity int) {
	if quantity <= 0 {
		delete(c, productID)
		return
	}
	c[productID] = quantity
}

// Remove drops a product from the cart
func (c Cart) Remove(productID uint) {
	delete(c, productID)
}

// Count returns the total quantity across all lines
func (c Cart) Count() int {
	total := 0
	for _, qty := range c {
		total += qty
	}
	return total
}
