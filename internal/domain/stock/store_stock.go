package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// StoreStock tracks the current on-hand quantity of one product in one
// store. It is the single mutable row per (store, product) pair; all
// history lives in the movement ledger.
type StoreStock struct {
	shared.BaseEntity
	StoreID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_store_product"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_store_product"`
	CurrentQuantity decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0"`
	LastMovementAt  *time.Time
}

// TableName specifies the database table name
func (StoreStock) TableName() string {
	return "store_stocks"
}

// NewStoreStock creates a zero-quantity stock row for a store/product pair
func NewStoreStock(storeID, productID uuid.UUID) *StoreStock {
	return &StoreStock{
		BaseEntity:      shared.NewBaseEntity(),
		StoreID:         storeID,
		ProductID:       productID,
		CurrentQuantity: decimal.Zero,
	}
}

// Apply executes one movement against the current quantity and returns
// the resulting ledger entry. The receiver is mutated only when the
// movement is accepted. Decrease movements that would drive the
// quantity negative are rejected with ErrInsufficientStock.
func (s *StoreStock) Apply(req MovementRequest) (*StockMovement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.StoreID != s.StoreID || req.ProductID != s.ProductID {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement does not match this stock record")
	}

	before := s.CurrentQuantity
	var after decimal.Decimal

	switch {
	case req.MovementType.IsIncrease():
		after = before.Add(req.Quantity)
	case req.MovementType.IsDecrease():
		if before.LessThan(req.Quantity) {
			return nil, shared.ErrInsufficientStock
		}
		after = before.Sub(req.Quantity)
	case req.MovementType.IsAbsolute():
		after = req.Quantity
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown movement type: "+string(req.MovementType))
	}

	now := time.Now()
	s.CurrentQuantity = after
	s.LastMovementAt = &now
	s.UpdatedAt = now

	return &StockMovement{
		BaseEntity:      shared.NewBaseEntity(),
		StoreID:         s.StoreID,
		ProductID:       s.ProductID,
		MovementType:    req.MovementType,
		Quantity:        req.Quantity,
		QuantityBefore:  before,
		QuantityAfter:   after,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		ActorID:         req.ActorID,
		OccurredAt:      now,
	}, nil
}

// IsBelowThreshold reports whether the current quantity has fallen to
// or under the given low-stock threshold
func (s *StoreStock) IsBelowThreshold(threshold decimal.Decimal) bool {
	return s.CurrentQuantity.LessThanOrEqual(threshold)
}
