package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryAlertEntry struct {
	alert     LowStockAlert
	expiresAt time.Time
}

// MemoryAlertCache implements AlertCache with process-local state
type MemoryAlertCache struct {
	mu      sync.RWMutex
	entries map[string]memoryAlertEntry
}

// NewMemoryAlertCache creates an in-memory alert cache
func NewMemoryAlertCache() *MemoryAlertCache {
	return &MemoryAlertCache{
		entries: make(map[string]memoryAlertEntry),
	}
}

func alertKey(storeID, productID uuid.UUID) string {
	return storeID.String() + ":" + productID.String()
}

// Upsert stores or refreshes an alert
func (c *MemoryAlertCache) Upsert(_ context.Context, alert LowStockAlert, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[alertKey(alert.StoreID, alert.ProductID)] = memoryAlertEntry{
		alert:     alert,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Get returns the active alert for a store/product pair
func (c *MemoryAlertCache) Get(_ context.Context, storeID, productID uuid.UUID) (*LowStockAlert, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[alertKey(storeID, productID)]
	if !ok || entry.expiresAt.Before(time.Now()) {
		return nil, nil
	}
	alert := entry.alert
	return &alert, nil
}

// ListByStore returns all active alerts for a store
func (c *MemoryAlertCache) ListByStore(_ context.Context, storeID uuid.UUID) ([]LowStockAlert, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := time.Now()
	var alerts []LowStockAlert
	for _, entry := range c.entries {
		if entry.alert.StoreID == storeID && entry.expiresAt.After(now) {
			alerts = append(alerts, entry.alert)
		}
	}
	return alerts, nil
}

var _ AlertCache = (*MemoryAlertCache)(nil)
