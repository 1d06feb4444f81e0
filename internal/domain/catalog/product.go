package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backend/internal/domain/shared"
)

// Product is a sellable item tracked in store inventories
type Product struct {
	shared.BaseEntity
	Name              string          `gorm:"type:varchar(200);not null"`
	SKU               string          `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description       string          `gorm:"type:text"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	LowStockThreshold decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0"`
	IsActive          bool            `gorm:"not null;default:true"`
}

// TableName specifies the database table name
func (Product) TableName() string {
	return "products"
}

// NewProduct creates an active product
func NewProduct(name, sku, description string, unitPrice, lowStockThreshold decimal.Decimal) *Product {
	return &Product{
		BaseEntity:        shared.NewBaseEntity(),
		Name:              name,
		SKU:               sku,
		Description:       description,
		UnitPrice:         unitPrice,
		LowStockThreshold: lowStockThreshold,
		IsActive:          true,
	}
}

// Deactivate marks the product inactive
func (p *Product) Deactivate() {
	p.IsActive = false
}

// ProductRepository manages product persistence
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	List(ctx context.Context, filter shared.Filter) ([]*Product, int64, error)
	Update(ctx context.Context, product *Product) error
}
