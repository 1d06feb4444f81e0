package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appaudit "github.com/storeops/backend/internal/application/audit"
	appcatalog "github.com/storeops/backend/internal/application/catalog"
	appidentity "github.com/storeops/backend/internal/application/identity"
	appstock "github.com/storeops/backend/internal/application/stock"
	"github.com/storeops/backend/internal/domain/identity"
	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/infrastructure/cache"
	"github.com/storeops/backend/internal/infrastructure/config"
	"github.com/storeops/backend/internal/infrastructure/event"
	"github.com/storeops/backend/internal/infrastructure/fanout"
	"github.com/storeops/backend/internal/infrastructure/lock"
	"github.com/storeops/backend/internal/infrastructure/logger"
	"github.com/storeops/backend/internal/infrastructure/persistence"
	"github.com/storeops/backend/internal/interfaces/http/handler"
	"github.com/storeops/backend/internal/interfaces/http/middleware"
	"github.com/storeops/backend/internal/interfaces/http/router"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	db, err := persistence.NewDatabase(cfg.Database)
	if err != nil {
		return err
	}

	var client *redis.Client
	if cfg.Redis.Enabled {
		client, err = persistence.NewRedisClient(cfg.Redis)
		if err != nil {
			return err
		}
	}

	// Repositories
	storeRepo := persistence.NewGormStoreRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	stockRepo := persistence.NewGormStoreStockRepository(db)
	movementRepo := persistence.NewGormStockMovementRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	auditRepo := persistence.NewGormAuditRepository(db)

	// Infrastructure
	locker := lock.NewLocker(cfg.Redis, cfg.Lock, client, zapLogger)
	alertCache := cache.NewAlertCache(cfg.Redis, cfg.Alert, client, zapLogger)
	invalidator := cache.NewInvalidator(cfg.Redis, client, zapLogger)
	hub := fanout.NewHub(zapLogger)

	bus := event.NewBus(zapLogger)
	if err := bus.Start(context.Background()); err != nil {
		return err
	}

	// Application services
	movementService := appstock.NewMovementService(
		storeRepo, productRepo, stockRepo, movementRepo,
		persistence.NewGormTransactionScope(db),
		locker, cfg.Lock.TTL, bus, zapLogger)
	catalogService := appcatalog.NewService(storeRepo, productRepo, zapLogger)
	identityService := appidentity.NewService(userRepo, zapLogger)
	auditService := appaudit.NewService(auditRepo, zapLogger)

	if err := bootstrapAdmin(identityService, userRepo, zapLogger); err != nil {
		return err
	}

	// Post-commit side effects
	bus.Subscribe(appstock.NewBroadcastHandler(hub))
	bus.Subscribe(appstock.NewLowStockHandler(alertCache, cfg.Alert.TTL, hub, zapLogger))
	bus.Subscribe(appstock.NewInvalidationHandler(invalidator))
	bus.Subscribe(appstock.NewAuditTrailHandler(auditRepo))

	// HTTP
	stockHandler := handler.NewStockHandler(movementService, alertCache, zapLogger)
	r := router.New(cfg, zapLogger, middleware.APIKeyAuth(identityService))
	r.SetMutationRegistrar(router.RegistrarFunc(stockHandler.RegisterMutations))
	r.AddRegistrar(stockHandler)
	r.AddRegistrar(handler.NewStreamHandler(hub, zapLogger))
	r.AddRegistrar(handler.NewStoreHandler(catalogService, zapLogger))
	r.AddRegistrar(handler.NewProductHandler(catalogService, zapLogger))
	// User management and the audit log are admin-only
	userHandler := handler.NewUserHandler(identityService, zapLogger)
	auditHandler := handler.NewAuditHandler(auditService, zapLogger)
	r.AddRegistrar(router.RegistrarFunc(func(rg *gin.RouterGroup) {
		admin := rg.Group("", middleware.RequireRole(identity.RoleAdmin))
		userHandler.Register(admin)
		auditHandler.Register(admin)
	}))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		zapLogger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Warn("server shutdown incomplete", zap.Error(err))
	}
	if err := bus.Stop(ctx); err != nil {
		zapLogger.Warn("event bus shutdown incomplete", zap.Error(err))
	}
	return nil
}

// bootstrapAdmin creates the initial admin when the user table is
// empty. The API key is logged once; rotate it after first login.
func bootstrapAdmin(identityService *appidentity.Service, users identity.Repository, zapLogger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, total, err := users.List(ctx, shared.Filter{})
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	password := uuid.NewString()
	admin, err := identityService.CreateUser(ctx, appidentity.CreateUserCommand{
		Username: "admin",
		Email:    "admin@localhost",
		Password: password,
		Role:     identity.RoleAdmin,
	})
	if err != nil {
		return err
	}
	zapLogger.Info("bootstrap admin created",
		zap.String("username", admin.Username),
		zap.String("api_key", *admin.APIKey))
	return nil
}
