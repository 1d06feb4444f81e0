package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/shared"
)

// StoreStockRepository manages persistence of current stock levels
type StoreStockRepository interface {
	// GetOrCreate returns the stock row for a store/product pair,
	// creating a zero-quantity row when none exists
	GetOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*StoreStock, error)
	// FindByStoreAndProduct returns the stock row or shared.ErrNotFound
	FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*StoreStock, error)
	// FindByStore lists all stock rows for a store
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]*StoreStock, error)
	// Save persists the current state of a stock row
	Save(ctx context.Context, s *StoreStock) error
}

// MovementFilter narrows ledger queries
type MovementFilter struct {
	shared.Filter
	StoreID      *uuid.UUID
	ProductID    *uuid.UUID
	MovementType *MovementType
	From         *time.Time
	To           *time.Time
}

// StockMovementRepository manages the append-only movement ledger
type StockMovementRepository interface {
	// Create appends one movement to the ledger
	Create(ctx context.Context, m *StockMovement) error
	// FindByID returns a single movement or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)
	// List returns movements matching the filter, newest first,
	// together with the total match count
	List(ctx context.Context, filter MovementFilter) ([]*StockMovement, int64, error)
}
