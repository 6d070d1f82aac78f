package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/bus"
	"github.com/example/storefront/internal/infrastructure/kvstore"
)

var (
	ErrInvalidName  = errors.New("product name is required")
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrNoImage      = errors.New("product needs at least one image")

	// ErrPersistence marks a failed write to the local persisted store
	// (e.g. quota exceeded). Callers surface it to the user; it is the one
	// failure that must never be silent.
	ErrPersistence = errors.New("persistence write failed")
)

// ChangeRelay publishes the payload-less change signal to other clients.
// Implementations must tag the signal with the given origin so the publishing
// client can ignore its own echo.
type ChangeRelay interface {
	PublishChange(ctx context.Context, origin string) error
}

// Service owns the canonical product, settings and order collections. All
// reads deserialize from the persisted store and fall back to built-in
// defaults; all mutations persist first, then optionally push the remote
// document, then broadcast the change notification.
type Service struct {
	mu     sync.Mutex
	kv     kvstore.Store
	bus    *bus.Bus
	remote RemoteStore
	relay  ChangeRelay
	origin string
	log    *zap.Logger
}

type Option func(*Service)

// WithRemote enables mirroring to a remote document store.
func WithRemote(r RemoteStore) Option { return func(s *Service) { s.remote = r } }

// WithRelay enables cross-client change signalling.
func WithRelay(r ChangeRelay) Option { return func(s *Service) { s.relay = r } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(kv kvstore.Store, b *bus.Bus, opts ...Option) *Service {
	s := &Service{
		kv:     kv,
		bus:    b,
		origin: uuid.New().String(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Origin identifies this client instance on the change relay.
func (s *Service) Origin() string { return s.origin }

// Bus exposes the change-notification bus for subscribers.
func (s *Service) Bus() *bus.Bus { return s.bus }

// GetProducts returns the product collection sorted ascending by orderWeight.
// A missing or unreadable record yields the built-in seed catalog (which is
// not written back).
func (s *Service) GetProducts(ctx context.Context) []Product {
	raw, ok, err := s.kv.Get(ctx, KeyProducts)
	if err != nil {
		s.log.Warn("products read failed, using seed catalog", zap.Error(err))
		return SeedProducts()
	}
	if !ok {
		return SeedProducts()
	}

	products, err := decodeProducts(raw)
	if err != nil {
		s.log.Warn("corrupt products record, using seed catalog", zap.Error(err))
		return SeedProducts()
	}
	return products
}

// SaveProduct upserts a product by id. An unknown or empty id appends the
// record at the end with a creation-timestamp id; a known id replaces the
// record wholesale. The primary image is forced to images[0].
func (s *Service) SaveProduct(ctx context.Context, product *Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return ErrInvalidName
	}
	if product.Price < 0 {
		return ErrInvalidPrice
	}
	if len(product.Images) == 0 && product.Image == "" {
		return ErrNoImage
	}
	normalizeProduct(product)

	s.mu.Lock()
	products := s.loadForUpdate(ctx)
	replaced := false
	for i := range products {
		if product.ID != "" && products[i].ID == product.ID {
			products[i] = *product
			replaced = true
			break
		}
	}
	if !replaced {
		product.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
		product.OrderWeight = len(products)
		products = append(products, *product)
	}
	err := s.persist(ctx, KeyProducts, products)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.afterMutation(ctx)
	return nil
}

// DeleteProduct removes a product by id. An unknown id is a no-op, not an
// error.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	products := s.loadForUpdate(ctx)
	kept := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	err := s.persist(ctx, KeyProducts, kept)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.afterMutation(ctx)
	return nil
}

// UpdateProductOrder rewrites every product's orderWeight to its index in
// orderedIDs. Products omitted from the list are appended after the listed
// ones, keeping their previous relative order.
func (s *Service) UpdateProductOrder(ctx context.Context, orderedIDs []string) error {
	position := make(map[string]int, len(orderedIDs))
	for i, id := range orderedIDs {
		position[id] = i
	}

	s.mu.Lock()
	products := s.loadForUpdate(ctx)
	next := len(orderedIDs)
	for i := range products {
		if pos, ok := position[products[i].ID]; ok {
			products[i].OrderWeight = pos
		} else {
			products[i].OrderWeight = next
			next++
		}
	}
	err := s.persist(ctx, KeyProducts, products)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.afterMutation(ctx)
	return nil
}

// GetSettings returns the site settings, overlaying the persisted record on
// the built-in defaults so fields added after the record was written still
// resolve.
func (s *Service) GetSettings(ctx context.Context) SiteSettings {
	raw, ok, err := s.kv.Get(ctx, KeySettings)
	if err != nil {
		s.log.Warn("settings read failed, using defaults", zap.Error(err))
		return DefaultSettings()
	}
	if !ok {
		return DefaultSettings()
	}

	settings, err := MergeSettings([]byte(raw))
	if err != nil {
		s.log.Warn("corrupt settings record, using defaults", zap.Error(err))
	}
	return settings
}

// SaveSettings persists the settings record as given (full replace; the
// defaults merge happens only on read).
func (s *Service) SaveSettings(ctx context.Context, settings SiteSettings) error {
	s.mu.Lock()
	err := s.persist(ctx, KeySettings, settings)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.afterMutation(ctx)
	return nil
}

// GetOrders returns all recorded orders, oldest first.
func (s *Service) GetOrders(ctx context.Context) []Order {
	raw, ok, err := s.kv.Get(ctx, KeyOrders)
	if err != nil {
		s.log.Warn("orders read failed, returning empty list", zap.Error(err))
		return []Order{}
	}
	if !ok {
		return []Order{}
	}

	var orders []Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		s.log.Warn("corrupt orders record, returning empty list", zap.Error(err))
		return []Order{}
	}
	return orders
}

// CreateOrder appends a new order with a generated id, creation date and
// Pending status. Existing orders are never touched.
func (s *Service) CreateOrder(ctx context.Context, draft Order) (*Order, error) {
	order := draft
	order.ID = newOrderID()
	order.Date = time.Now().Format("01/02/2006")
	order.Status = StatusPending

	s.mu.Lock()
	orders := s.GetOrders(ctx)
	orders = append(orders, order)
	err := s.persist(ctx, KeyOrders, orders)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx)
	return &order, nil
}

// NotifyChange broadcasts the payload-less change signal to local subscribers
// and, when a relay is configured, to other clients.
func (s *Service) NotifyChange(ctx context.Context) {
	if s.relay != nil {
		if err := s.relay.PublishChange(ctx, s.origin); err != nil {
			s.log.Warn("change relay publish failed", zap.Error(err))
		}
	}
	s.bus.Publish()
}

// afterMutation runs the post-write protocol: push the remote document first
// (best effort), then notify, so subscribers re-read state that has already
// been persisted locally.
func (s *Service) afterMutation(ctx context.Context) {
	if s.remote != nil {
		s.SyncToCloud(ctx)
	}
	s.NotifyChange(ctx)
}

// loadForUpdate returns the persisted collection as the base for a mutation.
// The seed catalog is a read-time fallback only and is never used here, so
// the first save on a fresh store yields a single-record collection.
func (s *Service) loadForUpdate(ctx context.Context) []Product {
	raw, ok, err := s.kv.Get(ctx, KeyProducts)
	if err != nil || !ok {
		if err != nil {
			s.log.Warn("products read failed, rebuilding collection", zap.Error(err))
		}
		return nil
	}

	products, err := decodeProducts(raw)
	if err != nil {
		s.log.Warn("corrupt products record, rebuilding collection", zap.Error(err))
		return nil
	}
	return products
}

func decodeProducts(raw string) ([]Product, error) {
	var products []Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, err
	}

	for i := range products {
		normalizeProduct(&products[i])
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].OrderWeight < products[j].OrderWeight
	})
	return products, nil
}

func (s *Service) persist(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// normalizeProduct fills legacy gaps: missing type defaults to shoe, images
// derives from image, and image always mirrors images[0].
func normalizeProduct(p *Product) {
	if p.Type == "" {
		p.Type = TypeShoe
	}
	if len(p.Images) == 0 && p.Image != "" {
		p.Images = []string{p.Image}
	}
	if len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
}

const orderIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newOrderID builds "ORD-" plus 9 random base36 characters. Collisions are
// tolerated at this scale.
func newOrderID() string {
	buf := make([]byte, 9)
	for i := range buf {
		buf[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}
	return "ORD-" + string(buf)
}
