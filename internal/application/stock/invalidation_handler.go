package stock

import (
	"context"
	"fmt"

	"github.com/storeops/backend/internal/domain/shared"
	stockdomain "github.com/storeops/backend/internal/domain/stock"
	"github.com/storeops/backend/internal/infrastructure/cache"
)

// StockCachePrefix is the key prefix under which stock read models are
// cached
const StockCachePrefix = "cache:stock:"

// InvalidationHandler drops cached stock read models for a store after
// a committed movement
type InvalidationHandler struct {
	invalidator cache.Invalidator
}

// NewInvalidationHandler creates the handler
func NewInvalidationHandler(invalidator cache.Invalidator) *InvalidationHandler {
	return &InvalidationHandler{invalidator: invalidator}
}

// EventTypes returns the handled event types
func (h *InvalidationHandler) EventTypes() []string {
	return []string{stockdomain.EventMovementRecorded}
}

// Handle invalidates the store's cached stock views
func (h *InvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*stockdomain.MovementRecordedEvent)
	if !ok {
		return nil
	}
	return h.invalidator.InvalidatePrefix(ctx, fmt.Sprintf("%s%s", StockCachePrefix, e.StoreID))
}

var _ shared.EventHandler = (*InvalidationHandler)(nil)
