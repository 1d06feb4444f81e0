package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	stockdomain "github.com/storeops/backend/internal/domain/stock"
)

// RecordMovementCommand carries one requested stock mutation
type RecordMovementCommand struct {
	StoreID         uuid.UUID
	ProductID       uuid.UUID
	MovementType    stockdomain.MovementType
	Quantity        decimal.Decimal
	ReferenceNumber string
	Notes           string
	ActorID         *uuid.UUID
}

// MovementResult describes a committed movement
type MovementResult struct {
	MovementID      uuid.UUID       `json:"movement_id"`
	StoreID         uuid.UUID       `json:"store_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	MovementType    string          `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	QuantityBefore  decimal.Decimal `json:"quantity_before"`
	QuantityAfter   decimal.Decimal `json:"quantity_after"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

// StockLevel is one row of a store's current inventory
type StockLevel struct {
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductSKU        string          `json:"product_sku"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	BelowThreshold    bool            `json:"below_threshold"`
	LastMovementAt    *time.Time      `json:"last_movement_at,omitempty"`
}
