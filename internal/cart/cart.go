package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/infrastructure/kvstore"
	"github.com/example/storefront/internal/store"
)

// Line is one cart entry. Only the product reference and quantity are
// stored; prices are resolved against the product collection at read time
// so a price change is reflected immediately.
type Line struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// Service manages the persisted shopping cart. The cart is client-local
// state, so changes are not broadcast and never synced to the remote
// document.
type Service struct {
	mu  sync.Mutex
	kv  kvstore.Store
	log *zap.Logger
}

func NewService(kv kvstore.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{kv: kv, log: log}
}

// Items returns the current cart lines, empty when the cart is absent or
// unreadable.
func (s *Service) Items(ctx context.Context) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Add puts qty units of a product into the cart, merging with an existing
// line for the same product.
func (s *Service) Add(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load(ctx)
	merged := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Qty += qty
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, Line{ProductID: productID, Qty: qty})
	}

	return s.persist(ctx, lines)
}

// UpdateQty adjusts a line's quantity by delta. Lines that drop to zero or
// below are removed. Unknown products are a no-op.
func (s *Service) UpdateQty(ctx context.Context, productID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load(ctx)
	out := lines[:0]
	for _, line := range lines {
		if line.ProductID == productID {
			line.Qty += delta
			if line.Qty <= 0 {
				continue
			}
		}
		out = append(out, line)
	}

	return s.persist(ctx, out)
}

// Remove deletes a product's line from the cart.
func (s *Service) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load(ctx)
	out := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			out = append(out, line)
		}
	}

	return s.persist(ctx, out)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx, []Line{})
}

// Total prices the cart against the given product collection. Lines whose
// product no longer exists contribute nothing.
func (s *Service) Total(ctx context.Context, products []store.Product) float64 {
	byID := make(map[string]store.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var total float64
	for _, line := range s.Items(ctx) {
		if p, ok := byID[line.ProductID]; ok {
			total += p.Price * float64(line.Qty)
		}
	}
	return total
}

func (s *Service) load(ctx context.Context) []Line {
	raw, ok, err := s.kv.Get(ctx, store.KeyCart)
	if err != nil || !ok {
		if err != nil {
			s.log.Warn("reading cart failed", zap.Error(err))
		}
		return []Line{}
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.log.Warn("cart record is unreadable, starting empty", zap.Error(err))
		return []Line{}
	}
	return lines
}

func (s *Service) persist(ctx context.Context, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, store.KeyCart, string(data)); err != nil {
		return fmt.Errorf("%w: %v", store.ErrPersistence, err)
	}
	return nil
}
