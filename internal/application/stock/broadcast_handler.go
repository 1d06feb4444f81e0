package stock

import (
	"context"

	"github.com/storeops/backend/internal/domain/shared"
	stockdomain "github.com/storeops/backend/internal/domain/stock"
	"github.com/storeops/backend/internal/infrastructure/fanout"
)

// BroadcastHandler pushes committed movements to connected clients
// watching the store's live feed
type BroadcastHandler struct {
	hub *fanout.Hub
}

// NewBroadcastHandler creates the handler
func NewBroadcastHandler(hub *fanout.Hub) *BroadcastHandler {
	return &BroadcastHandler{hub: hub}
}

// EventTypes returns the handled event types
func (h *BroadcastHandler) EventTypes() []string {
	return []string{stockdomain.EventMovementRecorded}
}

// Handle fans the movement out to the store's subscribers
func (h *BroadcastHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	e, ok := event.(*stockdomain.MovementRecordedEvent)
	if !ok {
		return nil
	}

	h.hub.PublishToStore(e.StoreID, fanout.Message{
		Event: "stock_update",
		Data: map[string]interface{}{
			"movement_id":    e.MovementID,
			"store_id":       e.StoreID,
			"product_id":     e.ProductID,
			"product_name":   e.ProductName,
			"product_sku":    e.ProductSKU,
			"movement_type":  e.MovementType,
			"quantity":       e.Quantity,
			"quantity_after": e.QuantityAfter,
			"occurred_at":    e.OccurredAt(),
		},
	})
	return nil
}

var _ shared.EventHandler = (*BroadcastHandler)(nil)
