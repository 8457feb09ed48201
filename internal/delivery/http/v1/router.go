package v1

import (
	"net/http"
	"time"

	"go-millet-backend/config"
	"go-millet-backend/internal/delivery/http/middleware"
	"go-millet-backend/internal/delivery/http/response"
	"go-millet-backend/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC    domain.ContactUsecase
	NewsletterUC domain.NewsletterUsecase
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Public form routes, rate limited per IP
	formLimit := middleware.FormRateLimitConfig(
		deps.Config.RateLimitFormThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	)
	public := v1.Group("")
	public.Use(middleware.RateLimitMiddleware(formLimit))
	{
		NewContactHandler(public, deps.ContactUC)
		NewNewsletterHandler(public, deps.NewsletterUC)
	}

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
