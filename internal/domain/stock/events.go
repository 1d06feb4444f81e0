package stock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// Event types emitted by the stock domain
const (
	EventMovementRecorded = "stock.movement_recorded"
)

// MovementRecordedEvent is published after a movement has been
// committed. It carries everything downstream consumers need so they
// never have to read the database again.
type MovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementID        uuid.UUID       `json:"movement_id"`
	StoreID           uuid.UUID       `json:"store_id"`
	StoreName         string          `json:"store_name"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductSKU        string          `json:"product_sku"`
	MovementType      MovementType    `json:"movement_type"`
	Quantity          decimal.Decimal `json:"quantity"`
	QuantityBefore    decimal.Decimal `json:"quantity_before"`
	QuantityAfter     decimal.Decimal `json:"quantity_after"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	ActorID           *uuid.UUID      `json:"actor_id,omitempty"`
	ReferenceNumber   string          `json:"reference_number,omitempty"`
}

// NewMovementRecordedEvent builds the post-commit event for a movement
func NewMovementRecordedEvent(m *StockMovement, storeName, productName, productSKU string, threshold decimal.Decimal) *MovementRecordedEvent {
	return &MovementRecordedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventMovementRecorded, "StoreStock", m.StoreID),
		MovementID:        m.ID,
		StoreID:           m.StoreID,
		StoreName:         storeName,
		ProductID:         m.ProductID,
		ProductName:       productName,
		ProductSKU:        productSKU,
		MovementType:      m.MovementType,
		Quantity:          m.Quantity,
		QuantityBefore:    m.QuantityBefore,
		QuantityAfter:     m.QuantityAfter,
		LowStockThreshold: threshold,
		ActorID:           m.ActorID,
		ReferenceNumber:   m.ReferenceNumber,
	}
}

// IsLowStock reports whether the post-movement quantity is at or under
// the product's threshold
func (e *MovementRecordedEvent) IsLowStock() bool {
	return e.QuantityAfter.LessThanOrEqual(e.LowStockThreshold)
}
