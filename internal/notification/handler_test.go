package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/bus"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/kvstore"
	"github.com/example/storefront/internal/store"
)

type fakeRemote struct {
	fetchCalls int
	doc        *store.Document
}

func (f *fakeRemote) Fetch(ctx context.Context) (*store.Document, error) {
	f.fetchCalls++
	return f.doc, nil
}

func (f *fakeRemote) Replace(ctx context.Context, doc *store.Document) error {
	return nil
}

func signalBytes(t *testing.T, origin string) []byte {
	t.Helper()
	data, err := json.Marshal(kafka.ChangeSignal{Origin: origin, At: time.Now()})
	require.NoError(t, err)
	return data
}

func TestHandleSignal_IgnoresOwnOrigin(t *testing.T) {
	remote := &fakeRemote{}
	svc := store.NewService(kvstore.NewMemory(), bus.New(), store.WithRemote(remote))
	h := NewHandler(svc, zap.NewNop())

	err := h.HandleSignal(context.Background(), nil, signalBytes(t, svc.Origin()))

	require.NoError(t, err)
	assert.Equal(t, 0, remote.fetchCalls)
}

func TestHandleSignal_RefreshesOnForeignOrigin(t *testing.T) {
	remote := &fakeRemote{doc: &store.Document{
		Products: []store.Product{{ID: "p1", Name: "Synced", Price: 9, Image: "s.png"}},
	}}
	svc := store.NewService(kvstore.NewMemory(), bus.New(), store.WithRemote(remote))
	h := NewHandler(svc, zap.NewNop())

	err := h.HandleSignal(context.Background(), nil, signalBytes(t, "another-client"))

	require.NoError(t, err)
	assert.Equal(t, 1, remote.fetchCalls)

	products := svc.GetProducts(context.Background())
	require.Len(t, products, 1)
	assert.Equal(t, "Synced", products[0].Name)
}

func TestHandleSignal_MalformedSignal(t *testing.T) {
	svc := store.NewService(kvstore.NewMemory(), bus.New())
	h := NewHandler(svc, zap.NewNop())

	err := h.HandleSignal(context.Background(), nil, []byte("{not json"))

	assert.Error(t, err)
}
