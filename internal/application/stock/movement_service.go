package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/shared"
	stockdomain "github.com/storeops/backend/internal/domain/stock"
	"github.com/storeops/backend/internal/infrastructure/lock"
)

// MovementService orchestrates stock mutations. Each movement runs
// under a per-resource lock and inside a single transaction; side
// effects happen after commit via the event bus and never influence
// the outcome of the request.
type MovementService struct {
	stores    catalog.StoreRepository
	products  catalog.ProductRepository
	stocks    stockdomain.StoreStockRepository
	movements stockdomain.StockMovementRepository
	txScope   TransactionScope
	locker    lock.Locker
	lockTTL   time.Duration
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewMovementService creates the service
func NewMovementService(
	stores catalog.StoreRepository,
	products catalog.ProductRepository,
	stocks stockdomain.StoreStockRepository,
	movements stockdomain.StockMovementRepository,
	txScope TransactionScope,
	locker lock.Locker,
	lockTTL time.Duration,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *MovementService {
	return &MovementService{
		stores:    stores,
		products:  products,
		stocks:    stocks,
		movements: movements,
		txScope:   txScope,
		locker:    locker,
		lockTTL:   lockTTL,
		publisher: publisher,
		logger:    logger,
	}
}

func lockKey(storeID, productID uuid.UUID) string {
	return fmt.Sprintf("stock:%s:%s", storeID, productID)
}

// RecordMovement validates, locks, applies and commits one stock
// mutation, then publishes the post-commit event
func (s *MovementService) RecordMovement(ctx context.Context, cmd RecordMovementCommand) (*MovementResult, error) {
	store, err := s.stores.FindByID(ctx, cmd.StoreID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("NOT_FOUND", "Store not found")
		}
		return nil, err
	}
	if !store.IsActive {
		return nil, shared.NewDomainError("NOT_FOUND", "Store not found")
	}

	product, err := s.products.FindByID(ctx, cmd.ProductID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
	}

	// Single attempt, no retries. A concurrent writer means the caller
	// should back off and try again.
	key := lockKey(cmd.StoreID, cmd.ProductID)
	granted, token, err := s.locker.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, shared.ErrLockNotAcquired
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if relErr := s.locker.Release(releaseCtx, key, token); relErr != nil {
			s.logger.Warn("failed to release stock lock",
				zap.String("key", key),
				zap.Error(relErr))
		}
	}()

	var movement *stockdomain.StockMovement
	err = s.txScope.Execute(ctx, func(ctx context.Context, repos TransactionalRepositories) error {
		current, err := repos.StoreStocks.GetOrCreate(ctx, cmd.StoreID, cmd.ProductID)
		if err != nil {
			return err
		}

		movement, err = current.Apply(stockdomain.MovementRequest{
			StoreID:         cmd.StoreID,
			ProductID:       cmd.ProductID,
			MovementType:    cmd.MovementType,
			Quantity:        cmd.Quantity,
			ReferenceNumber: cmd.ReferenceNumber,
			Notes:           cmd.Notes,
			ActorID:         cmd.ActorID,
		})
		if err != nil {
			return err
		}

		if err := repos.StoreStocks.Save(ctx, current); err != nil {
			return err
		}
		return repos.Movements.Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	// Publish on a detached context: the movement is committed, so a
	// caller that disconnected must not suppress the side effects.
	event := stockdomain.NewMovementRecordedEvent(
		movement, store.Name, product.Name, product.SKU, product.LowStockThreshold)
	publishCtx, cancelPublish := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPublish()
	if pubErr := s.publisher.Publish(publishCtx, event); pubErr != nil {
		s.logger.Error("failed to publish movement event",
			zap.String("movement_id", movement.ID.String()),
			zap.Error(pubErr))
	}

	s.logger.Info("stock movement recorded",
		zap.String("movement_id", movement.ID.String()),
		zap.String("store_id", cmd.StoreID.String()),
		zap.String("product_id", cmd.ProductID.String()),
		zap.String("movement_type", string(cmd.MovementType)),
		zap.String("quantity", cmd.Quantity.String()))

	return &MovementResult{
		MovementID:      movement.ID,
		StoreID:         movement.StoreID,
		ProductID:       movement.ProductID,
		MovementType:    string(movement.MovementType),
		Quantity:        movement.Quantity,
		QuantityBefore:  movement.QuantityBefore,
		QuantityAfter:   movement.QuantityAfter,
		ReferenceNumber: movement.ReferenceNumber,
		OccurredAt:      movement.OccurredAt,
	}, nil
}

// GetStoreStock returns the current stock levels of a store joined
// with product metadata
func (s *MovementService) GetStoreStock(ctx context.Context, storeID uuid.UUID) ([]StockLevel, error) {
	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("NOT_FOUND", "Store not found")
		}
		return nil, err
	}

	rows, err := s.stocks.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	levels := make([]StockLevel, 0, len(rows))
	for _, row := range rows {
		product, err := s.products.FindByID(ctx, row.ProductID)
		if err != nil {
			if err == shared.ErrNotFound {
				continue
			}
			return nil, err
		}
		levels = append(levels, StockLevel{
			ProductID:         row.ProductID,
			ProductName:       product.Name,
			ProductSKU:        product.SKU,
			CurrentQuantity:   row.CurrentQuantity,
			LowStockThreshold: product.LowStockThreshold,
			BelowThreshold:    row.IsBelowThreshold(product.LowStockThreshold),
			LastMovementAt:    row.LastMovementAt,
		})
	}
	return levels, nil
}

// ListMovements returns ledger entries matching the filter
func (s *MovementService) ListMovements(ctx context.Context, filter stockdomain.MovementFilter) ([]*stockdomain.StockMovement, int64, error) {
	return s.movements.List(ctx, filter)
}
