package persistence

import (
	"context"

	"gorm.io/gorm"

	appstock "github.com/storeops/backend/internal/application/stock"
)

// GormTransactionScope implements the stock transaction scope on a
// gorm transaction. Repositories handed to the callback share the
// transaction, so a failed movement rolls back both the stock row and
// the ledger insert.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates the scope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := appstock.TransactionalRepositories{
			StoreStocks: NewGormStoreStockRepository(tx),
			Movements:   NewGormStockMovementRepository(tx),
		}
		return fn(ctx, repos)
	})
}

var _ appstock.TransactionScope = (*GormTransactionScope)(nil)
