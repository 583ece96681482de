package v1

import (
	"net/http"

	"portfolio-contact/config"
	"portfolio-contact/internal/delivery/http/middleware"
	"portfolio-contact/internal/domain"
	"portfolio-contact/pkg/apperror"
	"portfolio-contact/pkg/auth"
	"portfolio-contact/pkg/metrics"
	"portfolio-contact/pkg/ratelimit"
	"portfolio-contact/pkg/security"
	"portfolio-contact/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC      domain.ContactUsecase
	HealthUC       domain.HealthUsecase
	ContactLimiter ratelimit.Limiter // per client budget for POST /contact
	GlobalLimiter  ratelimit.Limiter // optional, every /api route
	Metrics        *metrics.Metrics
	Audit          *security.AuditLogger // optional
	JWKSProvider   *auth.Provider        // optional, RS256 admin tokens
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger()) // Use standard Gin logger
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	if deps.Config.SecurityHeaders {
		r.Use(middleware.SecurityHeadersMiddleware())
	}

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("Resource not found"))
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")
	if deps.GlobalLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{Limiter: deps.GlobalLimiter, Audit: deps.Audit}))
	}

	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
	})

	NewHealthHandler(api, deps.HealthUC)

	var submit gin.HandlersChain
	if deps.ContactLimiter != nil {
		submit = append(submit, middleware.RateLimitMiddleware(middleware.RateLimitConfig{
			Limiter: deps.ContactLimiter,
			Audit:   deps.Audit,
			OnLimited: func(*gin.Context) {
				deps.Metrics.Submission(metrics.OutcomeRateLimited)
			},
		}))
	}

	admin := api.Group("")
	admin.Use(middleware.AdminAuthMiddleware(middleware.AdminAuthConfig{
		Secret: deps.Config.AdminJWTSecret,
		JWKS:   deps.JWKSProvider,
		Audit:  deps.Audit,
	}))
	NewContactHandler(api, submit, admin, deps.ContactUC)

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
