package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddIncrementsExistingQuantity(t *testing.T) {
	c := Cart{}
	c.Add(1, 2)
	c.Add(1, 3)
	c.Add(2, 1)

	assert.Equal(t, 5, c[1])
	assert.Equal(t, 1, c[2])
	assert.Equal(t, 6, c.Count())
}

func TestCartSetQuantityZeroRemovesEntry(t *testing.T) {
	c := Cart{1: 2, 2: 1}
	c.SetQuantity(1, 0)

	_, ok := c[1]
	assert.False(t, ok)
	assert.Equal(t, 1, c.Count())

	c.SetQuantity(2, 4)
	assert.Equal(t, 4, c[2])
}

func TestCartRemove(t *testing.T) {
	c := Cart{1: 2}
	c.Remove(1)
	c.Remove(99) // removing an absent product is a no-op
	assert.Empty(t, c)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// Unknown client gets an empty cart, not an error
	c, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, c)

	c.Add(3, 2)
	require.NoError(t, store.Save(ctx, 7, c))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, Cart{3: 2}, got)

	// Mutating the returned cart must not leak into the store
	got.Add(3, 10)
	again, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, again[3])

	require.NoError(t, store.Clear(ctx, 7))
	cleared, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, cleared)
}

func TestMemoryStoreIsolatesClients(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Save(ctx, 1, Cart{10: 1}))
	require.NoError(t, store.Save(ctx, 2, Cart{20: 5}))

	a, _ := store.Get(ctx, 1)
	b, _ := store.Get(ctx, 2)
	assert.Equal(t, Cart{10: 1}, a)
	assert.Equal(t, Cart{20: 5}, b)
}
