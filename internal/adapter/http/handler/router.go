package handler

import (
	"zapshift-server/internal/adapter/http/middleware"
	redisStore "zapshift-server/internal/adapter/storage/redis"
	"zapshift-server/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	ParcelSvc      ports.ParcelService
	Verifier       ports.SessionVerifier
	ReconcileSvc   ports.ReconciliationService
	ReportingSvc   ports.ReportingService
	WebhookSvc     ports.WebhookService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	parcelHandler := NewParcelHandler(deps.ParcelSvc)
	parcels := v1.Group("/parcels", jwtAuth)
	{
		parcels.POST("", rl("parcels"), parcelHandler.Create)
		parcels.GET("", rl("parcels"), parcelHandler.List)
		parcels.GET("/:id", rl("parcels"), parcelHandler.Get)
		parcels.DELETE("/:id", rl("parcels"), parcelHandler.Delete)
	}

	paymentHandler := NewPaymentHandler(deps.ParcelSvc, deps.Verifier, deps.ReconcileSvc, deps.ReportingSvc, deps.WebhookSvc)
	payments := v1.Group("/payments")
	{
		// The webhook authenticates with its signature, not a bearer token.
		payments.POST("/webhook", rl("webhook"), paymentHandler.Webhook)

		payments.POST("/checkout-session", jwtAuth, rl("checkout"), paymentHandler.CreateCheckoutSession)
		payments.GET("/confirm", jwtAuth, rl("confirm"), paymentHandler.Confirm)
		payments.GET("", jwtAuth, rl("history"), paymentHandler.History)
	}

	return r
}
