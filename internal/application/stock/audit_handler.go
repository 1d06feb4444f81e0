package stock

import (
	"context"
	"encoding/json"

	"github.com/storeops/backend/internal/domain/audit"
	"github.com/storeops/backend/internal/domain/shared"
	stockdomain "github.com/storeops/backend/internal/domain/stock"
)

// AuditTrailHandler records committed movements in the audit trail
type AuditTrailHandler struct {
	repo audit.Repository
}

// NewAuditTrailHandler creates the handler
func NewAuditTrailHandler(repo audit.Repository) *AuditTrailHandler {
	return &AuditTrailHandler{repo: repo}
}

// EventTypes returns the handled event types
func (h *AuditTrailHandler) EventTypes() []string {
	return []string{stockdomain.EventMovementRecorded}
}

// Handle appends an audit entry for the movement
func (h *AuditTrailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*stockdomain.MovementRecordedEvent)
	if !ok {
		return nil
	}

	detail, err := json.Marshal(map[string]interface{}{
		"store_id":        e.StoreID,
		"product_id":      e.ProductID,
		"movement_type":   e.MovementType,
		"quantity":        e.Quantity,
		"quantity_before": e.QuantityBefore,
		"quantity_after":  e.QuantityAfter,
		"reference":       e.ReferenceNumber,
	})
	if err != nil {
		return err
	}

	entry := audit.NewAuditEntry(
		"stock.movement_recorded",
		"stock_movement",
		e.MovementID.String(),
		e.ActorID,
		string(detail),
	)
	return h.repo.Create(ctx, entry)
}

var _ shared.EventHandler = (*AuditTrailHandler)(nil)
