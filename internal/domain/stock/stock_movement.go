package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// StockMovement is an immutable ledger entry describing one stock
// mutation. Rows are append-only; corrections are made with new
// ADJUSTMENT movements, never by editing history.
type StockMovement struct {
	shared.BaseEntity
	StoreID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_movements_store_product"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_movements_store_product"`
	MovementType    MovementType    `gorm:"type:varchar(20);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	QuantityBefore  decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	QuantityAfter   decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	ReferenceNumber string          `gorm:"type:varchar(100)"`
	Notes           string          `gorm:"type:text"`
	ActorID         *uuid.UUID      `gorm:"type:uuid"`
	OccurredAt      time.Time       `gorm:"not null;index"`
}

// TableName specifies the database table name
func (StockMovement) TableName() string {
	return "stock_movements"
}

// MovementRequest carries the validated intent of one stock mutation
type MovementRequest struct {
	StoreID         uuid.UUID
	ProductID       uuid.UUID
	MovementType    MovementType
	Quantity        decimal.Decimal
	ReferenceNumber string
	Notes           string
	ActorID         *uuid.UUID
}

// Validate checks the request against type and quantity rules
func (r MovementRequest) Validate() error {
	if !r.MovementType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown movement type: "+string(r.MovementType))
	}
	if r.Quantity.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Quantity must not be negative")
	}
	if r.Quantity.IsZero() && !r.MovementType.IsAbsolute() {
		return shared.NewDomainError("INVALID_INPUT", "Quantity must be greater than zero")
	}
	return nil
}
