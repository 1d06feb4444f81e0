package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	stockdomain "github.com/storeops/backend/internal/domain/stock"
	"github.com/storeops/backend/internal/infrastructure/config"
	"github.com/storeops/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar mounts a group of routes
type RouteRegistrar interface {
	Register(rg *gin.RouterGroup)
}

// RegistrarFunc adapts a function to RouteRegistrar
type RegistrarFunc func(rg *gin.RouterGroup)

// Register calls the wrapped function
func (f RegistrarFunc) Register(rg *gin.RouterGroup) {
	f(rg)
}

// Router assembles the gin engine
type Router struct {
	cfg        *config.Config
	logger     *zap.Logger
	registrars []RouteRegistrar
	// mutationLimiter applies only to stock mutation endpoints
	mutationRegistrar RouteRegistrar
	limiter           *middleware.RateLimiter
	auth              gin.HandlerFunc
}

// New creates a router
func New(cfg *config.Config, logger *zap.Logger, auth gin.HandlerFunc) *Router {
	return &Router{
		cfg:    cfg,
		logger: logger,
		limiter: middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
		auth: auth,
	}
}

// AddRegistrar appends a route registrar to the authenticated group
func (r *Router) AddRegistrar(reg RouteRegistrar) {
	r.registrars = append(r.registrars, reg)
}

// SetMutationRegistrar sets the registrar whose routes get the
// mutation rate limit
func (r *Router) SetMutationRegistrar(reg RouteRegistrar) {
	r.mutationRegistrar = reg
}

// Setup builds the gin engine with middleware and all routes
func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.cfg.Server.Mode)
	registerValidators()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(r.logger),
		middleware.Recovery(r.logger),
		middleware.BodyLimit(r.cfg.Server.MaxBodyBytes),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	if r.auth != nil {
		api.Use(r.auth)
	}

	if r.mutationRegistrar != nil {
		limited := api.Group("")
		limited.Use(middleware.RateLimit(r.limiter))
		r.mutationRegistrar.Register(limited)
	}
	for _, reg := range r.registrars {
		reg.Register(api)
	}
	return engine
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("movement_type", func(fl validator.FieldLevel) bool {
			return stockdomain.MovementType(fl.Field().String()).IsValid()
		})
	}
}
