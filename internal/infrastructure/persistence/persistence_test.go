package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appstock "github.com/storeops/backend/internal/application/stock"
	"github.com/storeops/backend/internal/domain/audit"
	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/identity"
	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/domain/stock"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Store{},
		&catalog.Product{},
		&stock.StoreStock{},
		&stock.StockMovement{},
		&audit.AuditEntry{},
		&identity.User{},
	))
	return db
}

func TestStoreStockRepository_GetOrCreate(t *testing.T) {
	db := setupDB(t)
	repo := NewGormStoreStockRepository(db)
	ctx := context.Background()
	storeID, productID := uuid.New(), uuid.New()

	first, err := repo.GetOrCreate(ctx, storeID, productID)
	require.NoError(t, err)
	assert.True(t, first.CurrentQuantity.IsZero())

	second, err := repo.GetOrCreate(ctx, storeID, productID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same pair must resolve to the same row")

	var count int64
	require.NoError(t, db.Model(&stock.StoreStock{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStoreStockRepository_SaveAndFind(t *testing.T) {
	db := setupDB(t)
	repo := NewGormStoreStockRepository(db)
	ctx := context.Background()
	storeID, productID := uuid.New(), uuid.New()

	s, err := repo.GetOrCreate(ctx, storeID, productID)
	require.NoError(t, err)

	_, err = s.Apply(stock.MovementRequest{
		StoreID:      storeID,
		ProductID:    productID,
		MovementType: stock.MovementStockIn,
		Quantity:     decimal.NewFromInt(7),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.FindByStoreAndProduct(ctx, storeID, productID)
	require.NoError(t, err)
	assert.True(t, got.CurrentQuantity.Equal(decimal.NewFromInt(7)))
	assert.NotNil(t, got.LastMovementAt)
}

func TestStoreStockRepository_FindMissingReturnsNotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewGormStoreStockRepository(db)

	_, err := repo.FindByStoreAndProduct(context.Background(), uuid.New(), uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestStockMovementRepository_ListFilters(t *testing.T) {
	db := setupDB(t)
	repo := NewGormStockMovementRepository(db)
	ctx := context.Background()

	storeA, storeB := uuid.New(), uuid.New()
	productID := uuid.New()

	mk := func(storeID uuid.UUID, mt stock.MovementType, at time.Time) *stock.StockMovement {
		return &stock.StockMovement{
			BaseEntity:   shared.NewBaseEntity(),
			StoreID:      storeID,
			ProductID:    productID,
			MovementType: mt,
			Quantity:     decimal.NewFromInt(1),
			OccurredAt:   at,
		}
	}

	now := time.Now()
	require.NoError(t, repo.Create(ctx, mk(storeA, stock.MovementStockIn, now.Add(-2*time.Hour))))
	require.NoError(t, repo.Create(ctx, mk(storeA, stock.MovementSale, now.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, mk(storeB, stock.MovementSale, now)))

	rows, total, err := repo.List(ctx, stock.MovementFilter{StoreID: &storeA})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].OccurredAt.After(rows[1].OccurredAt), "newest first")

	saleType := stock.MovementSale
	rows, total, err = repo.List(ctx, stock.MovementFilter{MovementType: &saleType})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	from := now.Add(-30 * time.Minute)
	rows, total, err = repo.List(ctx, stock.MovementFilter{From: &from})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, storeB, rows[0].StoreID)
}

func TestStockMovementRepository_Pagination(t *testing.T) {
	db := setupDB(t)
	repo := NewGormStockMovementRepository(db)
	ctx := context.Background()
	storeID, productID := uuid.New(), uuid.New()

	for i := 0; i < 5; i++ {
		m := &stock.StockMovement{
			BaseEntity:   shared.NewBaseEntity(),
			StoreID:      storeID,
			ProductID:    productID,
			MovementType: stock.MovementStockIn,
			Quantity:     decimal.NewFromInt(1),
			OccurredAt:   time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, m))
	}

	filter := stock.MovementFilter{StoreID: &storeID}
	filter.Page = 2
	filter.PageSize = 2

	rows, total, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, rows, 2)
}

func TestTransactionScope_RollsBackOnError(t *testing.T) {
	db := setupDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	storeID, productID := uuid.New(), uuid.New()

	seedRepo := NewGormStoreStockRepository(db)
	seed, err := seedRepo.GetOrCreate(ctx, storeID, productID)
	require.NoError(t, err)
	_, err = seed.Apply(stock.MovementRequest{
		StoreID:      storeID,
		ProductID:    productID,
		MovementType: stock.MovementStockIn,
		Quantity:     decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	require.NoError(t, seedRepo.Save(ctx, seed))

	err = scope.Execute(ctx, func(ctx context.Context, repos appstock.TransactionalRepositories) error {
		s, err := repos.StoreStocks.GetOrCreate(ctx, storeID, productID)
		require.NoError(t, err)

		m, err := s.Apply(stock.MovementRequest{
			StoreID:      storeID,
			ProductID:    productID,
			MovementType: stock.MovementSale,
			Quantity:     decimal.NewFromInt(4),
		})
		require.NoError(t, err)
		require.NoError(t, repos.StoreStocks.Save(ctx, s))
		require.NoError(t, repos.Movements.Create(ctx, m))
		return shared.ErrInsufficientStock
	})
	require.Error(t, err)

	got, err := seedRepo.FindByStoreAndProduct(ctx, storeID, productID)
	require.NoError(t, err)
	assert.True(t, got.CurrentQuantity.Equal(decimal.NewFromInt(10)),
		"stock row must be restored after rollback")

	var count int64
	require.NoError(t, db.Model(&stock.StockMovement{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "ledger insert must be rolled back")
}

func TestTransactionScope_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	storeID, productID := uuid.New(), uuid.New()

	err := scope.Execute(ctx, func(ctx context.Context, repos appstock.TransactionalRepositories) error {
		s, err := repos.StoreStocks.GetOrCreate(ctx, storeID, productID)
		if err != nil {
			return err
		}
		m, err := s.Apply(stock.MovementRequest{
			StoreID:      storeID,
			ProductID:    productID,
			MovementType: stock.MovementStockIn,
			Quantity:     decimal.NewFromInt(3),
		})
		if err != nil {
			return err
		}
		if err := repos.StoreStocks.Save(ctx, s); err != nil {
			return err
		}
		return repos.Movements.Create(ctx, m)
	})
	require.NoError(t, err)

	repo := NewGormStoreStockRepository(db)
	got, err := repo.FindByStoreAndProduct(ctx, storeID, productID)
	require.NoError(t, err)
	assert.True(t, got.CurrentQuantity.Equal(decimal.NewFromInt(3)))
}

func TestUserRepository_DeactivateTwoUsersRevokesBothKeys(t *testing.T) {
	db := setupDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	mk := func(name string) *identity.User {
		key := "sk_" + name
		u := &identity.User{
			BaseEntity:   shared.NewBaseEntity(),
			Username:     name,
			Email:        name + "@example.com",
			PasswordHash: "x",
			APIKey:       &key,
			Role:         identity.RoleStaff,
			IsActive:     true,
		}
		require.NoError(t, repo.Create(ctx, u))
		return u
	}

	first := mk("alice")
	second := mk("bob")

	first.Deactivate()
	require.NoError(t, repo.Update(ctx, first))

	// The unique index on api_key must ignore revoked keys, so a
	// second deactivation cannot collide with the first.
	second.Deactivate()
	require.NoError(t, repo.Update(ctx, second))

	for _, id := range []uuid.UUID{first.ID, second.ID} {
		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
		assert.Nil(t, got.APIKey)
	}
}

func TestAuditRepository_ListByActionAndTime(t *testing.T) {
	db := setupDB(t)
	repo := NewGormAuditRepository(db)
	ctx := context.Background()

	actorID := uuid.New()
	require.NoError(t, repo.Create(ctx, audit.NewAuditEntry(
		"stock.movement_recorded", "stock_movement", uuid.NewString(), &actorID, "{}")))
	require.NoError(t, repo.Create(ctx, audit.NewAuditEntry(
		"user.created", "user", uuid.NewString(), nil, "{}")))

	rows, total, err := repo.List(ctx, audit.Filter{Action: "stock.movement_recorded"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "stock_movement", rows[0].ResourceType)
	require.NotNil(t, rows[0].ActorID)
	assert.Equal(t, actorID, *rows[0].ActorID)
}
