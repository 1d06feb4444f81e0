package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/shared"
)

// Store is a physical or virtual location that holds stock
type Store struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(200);not null"`
	Code     string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Address  string `gorm:"type:text"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName specifies the database table name
func (Store) TableName() string {
	return "stores"
}

// NewStore creates an active store
func NewStore(name, code, address string) *Store {
	return &Store{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Code:       code,
		Address:    address,
		IsActive:   true,
	}
}

// Deactivate marks the store inactive. Inactive stores reject
// new stock movements but keep their history.
func (s *Store) Deactivate() {
	s.IsActive = false
}

// StoreRepository manages store persistence
type StoreRepository interface {
	Create(ctx context.Context, store *Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindByCode(ctx context.Context, code string) (*Store, error)
	List(ctx context.Context, filter shared.Filter) ([]*Store, int64, error)
	Update(ctx context.Context, store *Store) error
}
