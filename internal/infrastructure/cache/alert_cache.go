package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockAlert is the payload stored while a low-stock condition is
// active. Entries expire on their own; there is no explicit clear.
type LowStockAlert struct {
	StoreID     uuid.UUID       `json:"store_id"`
	StoreName   string          `json:"store_name"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	Threshold   decimal.Decimal `json:"threshold"`
	TriggeredAt time.Time       `json:"triggered_at"`
}

// AlertCache stores active low-stock alerts keyed by store and product
type AlertCache interface {
	// Upsert stores or refreshes an alert with the given TTL
	Upsert(ctx context.Context, alert LowStockAlert, ttl time.Duration) error
	// Get returns the alert for a store/product pair, or nil when none
	// is active
	Get(ctx context.Context, storeID, productID uuid.UUID) (*LowStockAlert, error)
	// ListByStore returns all active alerts for a store
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]LowStockAlert, error)
}

// Invalidator removes cached read models after a write
type Invalidator interface {
	// InvalidatePrefix deletes every cache entry whose key starts with
	// the given prefix
	InvalidatePrefix(ctx context.Context, prefix string) error
}
