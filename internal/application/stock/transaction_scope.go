package stock

import (
	"context"

	stockdomain "github.com/storeops/backend/internal/domain/stock"
)

// TransactionalRepositories bundles the repositories that take part in
// one stock mutation transaction
type TransactionalRepositories struct {
	StoreStocks stockdomain.StoreStockRepository
	Movements   stockdomain.StockMovementRepository
}

// TransactionScope runs a function inside a database transaction. The
// repositories passed to fn are bound to that transaction; when fn
// returns an error everything is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos TransactionalRepositories) error) error
}

// NoOpTransactionScope runs the function without transactional
// guarantees. Used in tests.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// Execute runs fn against the configured repositories
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos TransactionalRepositories) error) error {
	return fn(ctx, s.Repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
