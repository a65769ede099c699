package v1

import (
	"net/http"
	"strings"

	"go-profile-backend/config"
	"go-profile-backend/internal/delivery/http/middleware"
	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/auth"
	"go-profile-backend/pkg/storage"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	ProfileUC    domain.ProfileUsecase
	TokenManager *auth.TokenManager
	Store        storage.Store
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config

	r := gin.New()
	r.MaxMultipartMemory = 16 << 20

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL)) // CORS must be first
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimit(middleware.GlobalRateLimitConfig(
		cfg.RateLimitGlobalThreshold, cfg.RateLimitWindowSeconds,
	)))

	api := r.Group("/api")

	// Health Check
	api.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Public auth routes, with a stricter limiter against credential stuffing
	public := api.Group("")
	public.Use(middleware.RateLimit(middleware.LoginRateLimitConfig(
		cfg.RateLimitLoginThreshold, cfg.RateLimitWindowSeconds,
	)))
	NewAuthHandler(public, deps.AuthUC)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.TokenManager))
	NewProfileHandler(protected, deps.ProfileUC, deps.Store,
		int64(cfg.MaxPhotoSizeMB)<<20, int64(cfg.MaxResumeSizeMB)<<20)

	// Serve the upload directory when files live on local disk
	if cfg.S3Bucket == "" && strings.HasPrefix(cfg.PublicUploadURL, "/") {
		r.Static(cfg.PublicUploadURL, cfg.UploadDir)
	}

	return r
}
