package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/domain"
	"github.com/FACorreiaa/estate-templui/internal/app/domain/auth"
	"github.com/FACorreiaa/estate-templui/internal/app/domain/dashboard"
	"github.com/FACorreiaa/estate-templui/internal/app/domain/home"
	"github.com/FACorreiaa/estate-templui/internal/app/domain/properties"
	"github.com/FACorreiaa/estate-templui/internal/app/middleware"
	"github.com/FACorreiaa/estate-templui/internal/app/models"
	"github.com/FACorreiaa/estate-templui/internal/app/renderer"
	"github.com/FACorreiaa/estate-templui/internal/app/session"
	"github.com/FACorreiaa/estate-templui/internal/pkg/apiclient"
	"github.com/FACorreiaa/estate-templui/internal/pkg/cache"
	"github.com/FACorreiaa/estate-templui/internal/pkg/config"
)

type AppHandlers struct {
	Home       *home.HomeHandlers
	Auth       *auth.AuthHandlers
	Properties *properties.PropertiesHandlers
	Dashboard  *dashboard.DashboardHandlers
	Base       *domain.BaseHandler

	provider    *session.Provider
	authLimiter *middleware.RateLimiter
}

// Setup installs the templ renderer, the session provider and every page route.
func Setup(r *gin.Engine, cfg *config.Config, stores session.StoreFactory, log *zap.Logger) {
	ginHTMLRenderer := r.HTMLRender
	r.HTMLRender = &renderer.HTMLTemplRenderer{FallbackHTMLRenderer: ginHTMLRenderer}

	handlers := setupDependencies(cfg, stores, log)
	setupRouter(r, handlers, log)
}

func setupDependencies(cfg *config.Config, stores session.StoreFactory, log *zap.Logger) *AppHandlers {
	api := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(log),
		apiclient.WithRequestInterceptor(apiclient.RequestID()),
		apiclient.WithResponseInterceptor(apiclient.LogErrors(log)),
		apiclient.WithResponseInterceptor(apiclient.RecordMetrics()),
	)

	caches := cache.NewCacheManager(cfg.ListingsTTL, log)
	listings := properties.NewService(api, caches, log)
	baseHandler := domain.NewBaseHandler(log)

	return &AppHandlers{
		Home:        home.NewHomeHandlers(baseHandler, listings),
		Auth:        auth.NewAuthHandlers(baseHandler),
		Properties:  properties.NewPropertiesHandlers(baseHandler, listings),
		Dashboard:   dashboard.NewDashboardHandlers(baseHandler, nil),
		Base:        baseHandler,
		provider:    session.NewProvider(api, stores, log, session.WithBlockingVerify(cfg.Session.BlockingVerify)),
		authLimiter: middleware.NewRateLimiter(log, cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow),
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers, log *zap.Logger) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Use(h.provider.Middleware())

	public := r.Group("/")
	{
		public.GET(models.RouteHome, h.Home.ShowHomePage)
		public.GET("/properties", h.Properties.SearchFragment)
		public.GET("/properties/:id", h.Properties.ShowProperty)
	}

	// Auth routes
	authGroup := r.Group("/auth")
	{
		authGroup.GET("/signin", h.Auth.ShowSignIn)
		authGroup.GET("/signup", h.Auth.ShowSignUp)
		authGroup.POST("/signin", middleware.RateLimitMiddleware(h.authLimiter), h.Auth.LoginHandler)
		authGroup.POST("/signup", middleware.RateLimitMiddleware(h.authLimiter), h.Auth.RegisterHandler)
		authGroup.POST("/logout", h.Auth.LogoutHandler)
	}

	r.GET(models.RouteAdminDashboard, middleware.RequireRole(models.RoleAdmin), h.Dashboard.ShowAdmin)
	r.GET(models.RouteAgentDashboard, middleware.RequireRole(models.RoleAgent), h.Dashboard.ShowAgent)
	r.GET(models.RouteUserDashboard,
		middleware.RequireRole(models.RoleUser, models.RoleSeller, models.RoleBuyer, models.RoleInvestor),
		h.Dashboard.ShowUser,
	)

	// 404 handler - must be last
	r.NoRoute(func(c *gin.Context) {
		log.Info("404 - Page not found",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("ip", c.ClientIP()),
		)
		h.Base.NotFound(c, "Page")
	})
}
