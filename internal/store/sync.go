package store

import (
	"context"

	"go.uber.org/zap"
)

// RemoteStore is the remote JSON document mirror: one logical document holding
// the full {products, settings, orders} snapshot, fetched and replaced
// wholesale. Last writer wins; there is no conflict detection by design.
type RemoteStore interface {
	Fetch(ctx context.Context) (*Document, error)
	Replace(ctx context.Context, doc *Document) error
}

// FetchAllData pulls the remote document and, when it carries data, overwrites
// the local caches with it and broadcasts a change notification. Remote
// failures are swallowed: the local store stays authoritative and (nil, nil)
// is returned. Only local persistence failures surface as errors.
func (s *Service) FetchAllData(ctx context.Context) (*Document, error) {
	if s.remote == nil {
		return nil, nil
	}

	doc, err := s.remote.Fetch(ctx)
	if err != nil {
		s.log.Warn("remote fetch failed, keeping local state", zap.Error(err))
		return nil, nil
	}
	if doc == nil {
		return nil, nil
	}

	s.mu.Lock()
	if len(doc.Products) > 0 {
		if err := s.persist(ctx, KeyProducts, doc.Products); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	if doc.Settings != nil {
		if err := s.persist(ctx, KeySettings, doc.Settings); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	s.mu.Unlock()

	// Local re-broadcast only; relayed signals must not echo back out.
	s.bus.Publish()
	return doc, nil
}

// SyncToCloud pushes the full local snapshot to the remote document,
// replacing it entirely. Fire-and-forget: failures are logged and never
// propagate, so checkout and admin saves cannot fail because sync failed.
func (s *Service) SyncToCloud(ctx context.Context) {
	if s.remote == nil {
		return
	}

	settings := s.GetSettings(ctx)
	doc := &Document{
		Products: s.GetProducts(ctx),
		Settings: &settings,
		Orders:   s.GetOrders(ctx),
	}
	if err := s.remote.Replace(ctx, doc); err != nil {
		s.log.Warn("cloud sync failed, local state stays authoritative", zap.Error(err))
	}
}
