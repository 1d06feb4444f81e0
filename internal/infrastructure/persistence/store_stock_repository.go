package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/domain/stock"
)

// GormStoreStockRepository implements stock.StoreStockRepository
type GormStoreStockRepository struct {
	db *gorm.DB
}

// NewGormStoreStockRepository creates the repository
func NewGormStoreStockRepository(db *gorm.DB) *GormStoreStockRepository {
	return &GormStoreStockRepository{db: db}
}

// GetOrCreate returns the stock row for a store/product pair, creating
// a zero-quantity row when none exists. The insert ignores conflicts
// so concurrent first movements for the same pair both succeed.
func (r *GormStoreStockRepository) GetOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*stock.StoreStock, error) {
	fresh := stock.NewStoreStock(storeID, productID)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(fresh).Error; err != nil {
		return nil, err
	}
	return r.FindByStoreAndProduct(ctx, storeID, productID)
}

// FindByStoreAndProduct returns the stock row or shared.ErrNotFound
func (r *GormStoreStockRepository) FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*stock.StoreStock, error) {
	var s stock.StoreStock
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByStore lists all stock rows for a store
func (r *GormStoreStockRepository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]*stock.StoreStock, error) {
	var rows []*stock.StoreStock
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("product_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save persists the current state of a stock row
func (r *GormStoreStockRepository) Save(ctx context.Context, s *stock.StoreStock) error {
	return r.db.WithContext(ctx).Save(s).Error
}

var _ stock.StoreStockRepository = (*GormStoreStockRepository)(nil)
