package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/shared"
)

// GormStoreRepository implements catalog.StoreRepository
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates the repository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// Create inserts a new store
func (r *GormStoreRepository) Create(ctx context.Context, store *catalog.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

// FindByID returns a store or shared.ErrNotFound
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Store, error) {
	var s catalog.Store
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByCode returns a store by its unique code
func (r *GormStoreRepository) FindByCode(ctx context.Context, code string) (*catalog.Store, error) {
	var s catalog.Store
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns stores with paging
func (r *GormStoreRepository) List(ctx context.Context, filter shared.Filter) ([]*catalog.Store, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Store{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("name")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []*catalog.Store
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update persists changes to a store
func (r *GormStoreRepository) Update(ctx context.Context, store *catalog.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

var _ catalog.StoreRepository = (*GormStoreRepository)(nil)
