package stock

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/shared"
	stockdomain "github.com/storeops/backend/internal/domain/stock"
	"github.com/storeops/backend/internal/infrastructure/cache"
	"github.com/storeops/backend/internal/infrastructure/fanout"
)

// LowStockHandler raises low-stock alerts after a committed movement.
// The alert entry expires on its own; a movement that restores stock
// does not clear it early.
type LowStockHandler struct {
	alerts   cache.AlertCache
	alertTTL time.Duration
	hub      *fanout.Hub
	logger   *zap.Logger
}

// NewLowStockHandler creates the handler
func NewLowStockHandler(alerts cache.AlertCache, alertTTL time.Duration, hub *fanout.Hub, logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{
		alerts:   alerts,
		alertTTL: alertTTL,
		hub:      hub,
		logger:   logger,
	}
}

// EventTypes returns the handled event types
func (h *LowStockHandler) EventTypes() []string {
	return []string{stockdomain.EventMovementRecorded}
}

// Handle stores the alert and notifies global watchers when the
// movement left the product at or under its threshold
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*stockdomain.MovementRecordedEvent)
	if !ok {
		return nil
	}
	if !e.IsLowStock() {
		return nil
	}

	alert := cache.LowStockAlert{
		StoreID:     e.StoreID,
		StoreName:   e.StoreName,
		ProductID:   e.ProductID,
		ProductName: e.ProductName,
		ProductSKU:  e.ProductSKU,
		Quantity:    e.QuantityAfter,
		Threshold:   e.LowStockThreshold,
		TriggeredAt: e.OccurredAt(),
	}
	if err := h.alerts.Upsert(ctx, alert, h.alertTTL); err != nil {
		return err
	}

	h.hub.PublishGlobal(fanout.Message{
		Event: "low_stock_alert",
		Data:  alert,
	})

	h.logger.Warn("low stock alert raised",
		zap.String("store_id", e.StoreID.String()),
		zap.String("product_id", e.ProductID.String()),
		zap.String("quantity", e.QuantityAfter.String()),
		zap.String("threshold", e.LowStockThreshold.String()))
	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)
