package notification

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/store"
)

// Handler reacts to relayed change signals by refreshing local state from the
// remote document. Signals originating from this client are ignored so a
// mutation never echoes back into another fetch.
type Handler struct {
	svc *store.Service
	log *zap.Logger
}

func NewHandler(svc *store.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// HandleSignal processes one change signal from the relay topic.
func (h *Handler) HandleSignal(ctx context.Context, key, value []byte) error {
	var signal kafka.ChangeSignal
	if err := json.Unmarshal(value, &signal); err != nil {
		h.log.Warn("malformed change signal", zap.Error(err))
		return err
	}

	if signal.Origin == h.svc.Origin() {
		return nil
	}

	h.log.Debug("change signal received, refreshing from remote",
		zap.String("origin", signal.Origin))

	if _, err := h.svc.FetchAllData(ctx); err != nil {
		h.log.Error("refresh after change signal failed", zap.Error(err))
		return err
	}
	return nil
}
