package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"herbal-store/internal/model"
)

type memProductFinder struct {
	products []model.Product
}

func (m *memProductFinder) FindByIDOrSlug(_ context.Context, idOrSlug string) (model.Product, error) {
	for _, p := range m.products {
		if p.ID == idOrSlug || p.Slug == idOrSlug {
			return p, nil
		}
	}
	return model.Product{}, model.ErrProductNotFound
}

type memCartStore struct {
	catalog    *memProductFinder
	quantities map[string]map[string]int
}

func newMemCartStore(catalog *memProductFinder) *memCartStore {
	return &memCartStore{catalog: catalog, quantities: map[string]map[string]int{}}
}

func (m *memCartStore) ListForUser(ctx context.Context, userID string) ([]model.CartLine, error) {
	lines := make([]model.CartLine, 0)
	for productID, quantity := range m.quantities[userID] {
		p, err := m.catalog.FindByIDOrSlug(ctx, productID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, model.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			Price:     p.Price,
			InStock:   p.InStock,
			Quantity:  quantity,
		})
	}
	return lines, nil
}

// AddItem mirrors the production upsert but refuses anything that is not a
// stored product id, the way the uuid-typed column would.
func (m *memCartStore) AddItem(ctx context.Context, userID string, productID string, quantity int) error {
	p, err := m.catalog.FindByIDOrSlug(ctx, productID)
	if err != nil || p.ID != productID {
		return model.ErrProductNotFound
	}
	if m.quantities[userID] == nil {
		m.quantities[userID] = map[string]int{}
	}
	m.quantities[userID][productID] += quantity
	return nil
}

func (m *memCartStore) SetQuantity(_ context.Context, userID string, productID string, quantity int) error {
	if _, ok := m.quantities[userID][productID]; !ok {
		return model.ErrCartItemNotFound
	}
	m.quantities[userID][productID] = quantity
	return nil
}

func (m *memCartStore) RemoveItem(_ context.Context, userID string, productID string) error {
	delete(m.quantities[userID], productID)
	return nil
}

func (m *memCartStore) Clear(_ context.Context, userID string) error {
	delete(m.quantities, userID)
	return nil
}

func newTestCartService() (*CartService, *memCartStore, model.Product) {
	product := model.Product{
		ID:      uuid.NewString(),
		Name:    "Triphala Powder",
		Slug:    "triphala-powder",
		Price:   9.99,
		InStock: true,
	}
	catalog := &memProductFinder{products: []model.Product{product}}
	store := newMemCartStore(catalog)
	return NewCartService(store, catalog), store, product
}

func TestCartAddItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores the resolved id when adding by slug", func(t *testing.T) {
		svc, store, product := newTestCartService()

		cart, err := svc.AddItem(ctx, "u1", product.Slug, 2)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		require.Equal(t, product.ID, cart.Items[0].ProductID)
		require.Equal(t, 2, store.quantities["u1"][product.ID])
	})

	t.Run("adding by id increments an existing line", func(t *testing.T) {
		svc, _, product := newTestCartService()

		_, err := svc.AddItem(ctx, "u1", product.ID, 1)
		require.NoError(t, err)
		cart, err := svc.AddItem(ctx, "u1", product.ID, 2)
		require.NoError(t, err)
		require.Equal(t, 3, cart.ItemCount)
	})

	t.Run("unknown product fails before touching the cart", func(t *testing.T) {
		svc, store, _ := newTestCartService()

		_, err := svc.AddItem(ctx, "u1", "no-such-product", 1)
		require.ErrorIs(t, err, model.ErrProductNotFound)
		require.Empty(t, store.quantities)
	})

	t.Run("rejects zero and negative quantities", func(t *testing.T) {
		svc, _, product := newTestCartService()

		_, err := svc.AddItem(ctx, "u1", product.ID, 0)
		require.Error(t, err)
		_, err = svc.AddItem(ctx, "u1", product.ID, -2)
		require.Error(t, err)
	})
}

func TestCartSetQuantity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("overwrites and zero removes", func(t *testing.T) {
		svc, _, product := newTestCartService()
		_, err := svc.AddItem(ctx, "u1", product.ID, 2)
		require.NoError(t, err)

		cart, err := svc.SetQuantity(ctx, "u1", product.ID, 5)
		require.NoError(t, err)
		require.Equal(t, 5, cart.ItemCount)

		cart, err = svc.SetQuantity(ctx, "u1", product.ID, 0)
		require.NoError(t, err)
		require.Empty(t, cart.Items)
	})

	t.Run("malformed product id reads as missing line", func(t *testing.T) {
		svc, _, _ := newTestCartService()
		_, err := svc.SetQuantity(ctx, "u1", "not-a-uuid", 3)
		require.ErrorIs(t, err, model.ErrCartItemNotFound)
	})
}

func TestCartRemoveItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, product := newTestCartService()
	_, err := svc.AddItem(ctx, "u1", product.ID, 1)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, "u1", product.ID)
	require.NoError(t, err)
	require.Empty(t, cart.Items)

	// Removing again, or removing a malformed id, stays a no-op.
	_, err = svc.RemoveItem(ctx, "u1", product.ID)
	require.NoError(t, err)
	_, err = svc.RemoveItem(ctx, "u1", "not-a-uuid")
	require.NoError(t, err)
}

func TestBuildCart(t *testing.T) {
	t.Parallel()

	t.Run("empty cart", func(t *testing.T) {
		cart := buildCart(nil)
		require.NotNil(t, cart.Items)
		require.Empty(t, cart.Items)
		require.Zero(t, cart.ItemCount)
		require.Zero(t, cart.Total)
	})

	t.Run("derives subtotals and totals", func(t *testing.T) {
		cart := buildCart([]model.CartLine{
			{ProductID: "p1", Price: 12.50, Quantity: 2},
			{ProductID: "p2", Price: 4.99, Quantity: 3},
		})

		require.Len(t, cart.Items, 2)
		require.Equal(t, 25.0, cart.Items[0].Subtotal)
		require.Equal(t, 14.97, cart.Items[1].Subtotal)
		require.Equal(t, 5, cart.ItemCount)
		require.Equal(t, 39.97, cart.Total)
	})

	t.Run("rounds money to cents", func(t *testing.T) {
		cart := buildCart([]model.CartLine{
			{ProductID: "p1", Price: 0.1, Quantity: 3},
		})
		require.Equal(t, 0.3, cart.Items[0].Subtotal)
		require.Equal(t, 0.3, cart.Total)
	})
}

func TestRoundCents(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1.23, roundCents(1.234))
	require.Equal(t, 1.24, roundCents(1.236))
	require.Equal(t, 0.0, roundCents(0))
	require.Equal(t, 10.0, roundCents(9.999))
}
