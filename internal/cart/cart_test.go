package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/infrastructure/kvstore"
	"github.com/example/storefront/internal/store"
)

func newTestCart() *Service {
	return NewService(kvstore.NewMemory(), nil)
}

func TestCart_StartsEmpty(t *testing.T) {
	svc := newTestCart()
	assert.Empty(t, svc.Items(context.Background()))
}

func TestCart_AddMergesLines(t *testing.T) {
	svc := newTestCart()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "p1", 1))
	require.NoError(t, svc.Add(ctx, "p2", 2))
	require.NoError(t, svc.Add(ctx, "p1", 3))

	items := svc.Items(ctx)
	require.Len(t, items, 2)
	assert.Equal(t, Line{ProductID: "p1", Qty: 4}, items[0])
	assert.Equal(t, Line{ProductID: "p2", Qty: 2}, items[1])
}

func TestCart_AddRejectsNonPositiveQty(t *testing.T) {
	svc := newTestCart()
	ctx := context.Background()

	assert.Error(t, svc.Add(ctx, "p1", 0))
	assert.Error(t, svc.Add(ctx, "p1", -2))
	assert.Empty(t, svc.Items(ctx))
}

func TestCart_UpdateQty(t *testing.T) {
	svc := newTestCart()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "p1", 2))
	require.NoError(t, svc.UpdateQty(ctx, "p1", 3))

	items := svc.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Qty)
}

func TestCart_UpdateQtyDropsLineAtZero(t *testing.T) {
	svc := newTestCart()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "p1", 2))
	require.NoError(t, svc.UpdateQty(ctx, "p1", -2))

	assert.Empty(t, svc.Items(ctx))
}

func TestCart_UpdateQtyUnknownProductIsNoop(t *testing.T) {
	svc := newTestCart()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "p1", 1))
	require.NoError(t, svc.UpdateQty(ctx, "ghost", 5))

	items := svc.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
}

func TestCart_RemoveAndClear(t *testing.T) {
	svc := newTestCart()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "p1", 1))
	require.NoError(t, svc.Add(ctx, "p2", 1))

	require.NoError(t, svc.Remove(ctx, "p1"))
	items := svc.Items(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	require.NoError(t, svc.Clear(ctx))
	assert.Empty(t, svc.Items(ctx))
}

func TestCart_TotalPricesAgainstCatalog(t *testing.T) {
	svc := newTestCart()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "p1", 2))
	require.NoError(t, svc.Add(ctx, "p2", 1))
	require.NoError(t, svc.Add(ctx, "deleted", 7))

	products := []store.Product{
		{ID: "p1", Price: 10.50},
		{ID: "p2", Price: 4},
	}

	assert.InDelta(t, 25.0, svc.Total(ctx, products), 0.001)
}

func TestCart_SurvivesCorruptRecord(t *testing.T) {
	kv := kvstore.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, store.KeyCart, "{definitely not json"))

	svc := NewService(kv, nil)
	assert.Empty(t, svc.Items(ctx))

	require.NoError(t, svc.Add(ctx, "p1", 1))
	assert.Len(t, svc.Items(ctx), 1)
}
