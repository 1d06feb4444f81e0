package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/shared"
)

// Service manages stores and products
type Service struct {
	stores   catalog.StoreRepository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewService creates the service
func NewService(stores catalog.StoreRepository, products catalog.ProductRepository, logger *zap.Logger) *Service {
	return &Service{
		stores:   stores,
		products: products,
		logger:   logger,
	}
}

// CreateStoreCommand carries a new store definition
type CreateStoreCommand struct {
	Name    string
	Code    string
	Address string
}

// CreateStore registers a new store with a unique code
func (s *Service) CreateStore(ctx context.Context, cmd CreateStoreCommand) (*catalog.Store, error) {
	if _, err := s.stores.FindByCode(ctx, cmd.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Store code already in use")
	} else if err != shared.ErrNotFound {
		return nil, err
	}

	store := catalog.NewStore(cmd.Name, cmd.Code, cmd.Address)
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}
	s.logger.Info("store created",
		zap.String("store_id", store.ID.String()),
		zap.String("code", store.Code))
	return store, nil
}

// GetStore returns a store by ID
func (s *Service) GetStore(ctx context.Context, id uuid.UUID) (*catalog.Store, error) {
	return s.stores.FindByID(ctx, id)
}

// ListStores returns stores with paging
func (s *Service) ListStores(ctx context.Context, filter shared.Filter) ([]*catalog.Store, int64, error) {
	return s.stores.List(ctx, filter)
}

// DeactivateStore marks a store inactive
func (s *Service) DeactivateStore(ctx context.Context, id uuid.UUID) error {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return err
	}
	store.Deactivate()
	return s.stores.Update(ctx, store)
}

// CreateProductCommand carries a new product definition
type CreateProductCommand struct {
	Name              string
	SKU               string
	Description       string
	UnitPrice         decimal.Decimal
	LowStockThreshold decimal.Decimal
}

// CreateProduct registers a new product with a unique SKU
func (s *Service) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*catalog.Product, error) {
	if cmd.LowStockThreshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Low stock threshold must not be negative")
	}
	if _, err := s.products.FindBySKU(ctx, cmd.SKU); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "SKU already in use")
	} else if err != shared.ErrNotFound {
		return nil, err
	}

	product := catalog.NewProduct(cmd.Name, cmd.SKU, cmd.Description, cmd.UnitPrice, cmd.LowStockThreshold)
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU))
	return product, nil
}

// GetProduct returns a product by ID
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

// ListProducts returns products with paging
func (s *Service) ListProducts(ctx context.Context, filter shared.Filter) ([]*catalog.Product, int64, error) {
	return s.products.List(ctx, filter)
}

// UpdateThreshold changes a product's low-stock threshold
func (s *Service) UpdateThreshold(ctx context.Context, id uuid.UUID, threshold decimal.Decimal) (*catalog.Product, error) {
	if threshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Low stock threshold must not be negative")
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.LowStockThreshold = threshold
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeactivateProduct marks a product inactive
func (s *Service) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	product.Deactivate()
	return s.products.Update(ctx, product)
}
