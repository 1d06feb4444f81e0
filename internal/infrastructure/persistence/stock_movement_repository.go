package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/domain/stock"
)

// GormStockMovementRepository implements stock.StockMovementRepository.
// The ledger is append-only: there is deliberately no update or delete.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates the repository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends one movement to the ledger
func (r *GormStockMovementRepository) Create(ctx context.Context, m *stock.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByID returns a single movement or shared.ErrNotFound
func (r *GormStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockMovement, error) {
	var m stock.StockMovement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns movements matching the filter, newest first
func (r *GormStockMovementRepository) List(ctx context.Context, filter stock.MovementFilter) ([]*stock.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&stock.StockMovement{})

	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.MovementType != nil {
		query = query.Where("movement_type = ?", *filter.MovementType)
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("occurred_at DESC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []*stock.StockMovement
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

var _ stock.StockMovementRepository = (*GormStockMovementRepository)(nil)
