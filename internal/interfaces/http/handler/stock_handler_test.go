package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appstock "github.com/storeops/backend/internal/application/stock"
	"github.com/storeops/backend/internal/domain/catalog"
	"github.com/storeops/backend/internal/domain/shared"
	stockdomain "github.com/storeops/backend/internal/domain/stock"
	"github.com/storeops/backend/internal/infrastructure/cache"
	"github.com/storeops/backend/internal/infrastructure/lock"
)

type staticStoreRepo struct {
	stores map[uuid.UUID]*catalog.Store
}

func (r *staticStoreRepo) Create(context.Context, *catalog.Store) error { return nil }
func (r *staticStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Store, error) {
	if s, ok := r.stores[id]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}
func (r *staticStoreRepo) FindByCode(context.Context, string) (*catalog.Store, error) {
	return nil, shared.ErrNotFound
}
func (r *staticStoreRepo) List(context.Context, shared.Filter) ([]*catalog.Store, int64, error) {
	return nil, 0, nil
}
func (r *staticStoreRepo) Update(context.Context, *catalog.Store) error { return nil }

type staticProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func (r *staticProductRepo) Create(context.Context, *catalog.Product) error { return nil }
func (r *staticProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}
func (r *staticProductRepo) FindBySKU(context.Context, string) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}
func (r *staticProductRepo) List(context.Context, shared.Filter) ([]*catalog.Product, int64, error) {
	return nil, 0, nil
}
func (r *staticProductRepo) Update(context.Context, *catalog.Product) error { return nil }

type memStockRepo struct {
	mu   sync.Mutex
	rows map[string]*stockdomain.StoreStock
}

func key(storeID, productID uuid.UUID) string {
	return storeID.String() + ":" + productID.String()
}

func (r *memStockRepo) GetOrCreate(_ context.Context, storeID, productID uuid.UUID) (*stockdomain.StoreStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.rows[key(storeID, productID)]; ok {
		return s, nil
	}
	s := stockdomain.NewStoreStock(storeID, productID)
	r.rows[key(storeID, productID)] = s
	return s, nil
}

func (r *memStockRepo) FindByStoreAndProduct(_ context.Context, storeID, productID uuid.UUID) (*stockdomain.StoreStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.rows[key(storeID, productID)]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memStockRepo) FindByStore(_ context.Context, storeID uuid.UUID) ([]*stockdomain.StoreStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*stockdomain.StoreStock
	for _, s := range r.rows {
		if s.StoreID == storeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memStockRepo) Save(context.Context, *stockdomain.StoreStock) error { return nil }

type memMovementRepo struct {
	mu      sync.Mutex
	entries []*stockdomain.StockMovement
}

func (r *memMovementRepo) Create(_ context.Context, m *stockdomain.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, m)
	return nil
}

func (r *memMovementRepo) FindByID(context.Context, uuid.UUID) (*stockdomain.StockMovement, error) {
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) List(context.Context, stockdomain.MovementFilter) ([]*stockdomain.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries, int64(len(r.entries)), nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...shared.DomainEvent) error { return nil }

type handlerFixture struct {
	engine  *gin.Engine
	locker  *lock.MemoryLocker
	store   *catalog.Store
	product *catalog.Product
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("movement_type", func(fl validator.FieldLevel) bool {
			return stockdomain.MovementType(fl.Field().String()).IsValid()
		})
	}

	store := catalog.NewStore("Downtown", "DT-01", "")
	product := catalog.NewProduct("Beans", "SKU-001", "",
		decimal.NewFromInt(10), decimal.NewFromInt(5))

	stocks := &memStockRepo{rows: make(map[string]*stockdomain.StoreStock)}
	movements := &memMovementRepo{}
	locker := lock.NewMemoryLocker()

	svc := appstock.NewMovementService(
		&staticStoreRepo{stores: map[uuid.UUID]*catalog.Store{store.ID: store}},
		&staticProductRepo{products: map[uuid.UUID]*catalog.Product{product.ID: product}},
		stocks, movements,
		&appstock.NoOpTransactionScope{Repos: appstock.TransactionalRepositories{
			StoreStocks: stocks,
			Movements:   movements,
		}},
		locker, 30*time.Second, nopPublisher{}, zap.NewNop())

	h := NewStockHandler(svc, cache.NewMemoryAlertCache(), zap.NewNop())
	engine := gin.New()
	api := engine.Group("/api/v1")
	h.Register(api)
	h.RegisterMutations(api)

	return &handlerFixture{
		engine:  engine,
		locker:  locker,
		store:   store,
		product: product,
	}
}

func (f *handlerFixture) postMovement(t *testing.T, storeID string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/stores/"+storeID+"/stock", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestRecordMovement_Created(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.postMovement(t, f.store.ID.String(), map[string]interface{}{
		"product_id":    f.product.ID.String(),
		"movement_type": "STOCK_IN",
		"quantity":      25,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			QuantityAfter decimal.Decimal `json:"quantity_after"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.QuantityAfter.Equal(decimal.NewFromInt(25)))
}

func TestRecordMovement_LockContentionReturns409(t *testing.T) {
	f := newHandlerFixture(t)

	granted, _, err := f.locker.Acquire(context.Background(),
		"stock:"+f.store.ID.String()+":"+f.product.ID.String(), time.Minute)
	require.NoError(t, err)
	require.True(t, granted)

	w := f.postMovement(t, f.store.ID.String(), map[string]interface{}{
		"product_id":    f.product.ID.String(),
		"movement_type": "STOCK_IN",
		"quantity":      5,
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestRecordMovement_InsufficientStockReturns422(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.postMovement(t, f.store.ID.String(), map[string]interface{}{
		"product_id":    f.product.ID.String(),
		"movement_type": "SALE",
		"quantity":      99,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
}

func TestRecordMovement_UnknownStoreReturns404(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.postMovement(t, uuid.NewString(), map[string]interface{}{
		"product_id":    f.product.ID.String(),
		"movement_type": "STOCK_IN",
		"quantity":      5,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordMovement_InvalidMovementTypeReturns400(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.postMovement(t, f.store.ID.String(), map[string]interface{}{
		"product_id":    f.product.ID.String(),
		"movement_type": "TELEPORT",
		"quantity":      5,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordMovement_InvalidStoreIDReturns400(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.postMovement(t, "not-a-uuid", map[string]interface{}{
		"product_id":    f.product.ID.String(),
		"movement_type": "STOCK_IN",
		"quantity":      5,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStoreStock_ReturnsLevels(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.postMovement(t, f.store.ID.String(), map[string]interface{}{
		"product_id":    f.product.ID.String(),
		"movement_type": "STOCK_IN",
		"quantity":      3,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/stores/"+f.store.ID.String()+"/stock?include_alerts=true", nil)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Stock []struct {
				ProductSKU     string `json:"product_sku"`
				BelowThreshold bool   `json:"below_threshold"`
			} `json:"stock"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Stock, 1)
	assert.Equal(t, "SKU-001", resp.Data.Stock[0].ProductSKU)
	assert.True(t, resp.Data.Stock[0].BelowThreshold)
}
