package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"orb-service/internal/adapter/gin/handler"
	"orb-service/internal/adapter/gin/middleware"
	"orb-service/internal/config"
	"orb-service/internal/usecase/auth"
	"orb-service/web"
)

// Handlers bundles the HTTP handlers mounted by the router.
type Handlers struct {
	Page     *handler.PageHandler
	Auth     *handler.AuthHandler
	Sounding *handler.SoundingHandler
	Fuel     *handler.FuelHandler
	Hitch    *handler.HitchHandler
}

// New builds the gin engine: middleware chain, embedded page templates,
// static assets, page routes and the /api group.
func New(cfg *config.Config, log *zap.Logger, redisClient *redis.Client, authUC auth.Usecase, h Handlers) (*gin.Engine, error) {
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID", "X-CSRF-Token"},
		ExposeHeaders:    []string{"X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimiter(redisClient, middleware.RateLimiterConfig{
		Enabled:           cfg.App.RateLimitEnabled,
		RequestsPerSecond: cfg.App.RateLimitPerSecond,
		BurstCapacity:     cfg.App.RateLimitBurst,
	}, log))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	static, err := web.Static()
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", h.Page.Dashboard)
	r.GET("/soundings", h.Page.Soundings)
	r.GET("/history", h.Page.History)
	r.GET("/fuel", h.Page.Fuel)
	r.GET("/new-hitch", h.Page.NewHitch)

	api := r.Group("/api")
	{
		api.POST("/auth/login", h.Auth.Login)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(authUC, log))
		{
			authed.POST("/auth/logout", h.Auth.Logout)
			authed.GET("/auth/me", h.Auth.Me)

			authed.GET("/tanks", h.Sounding.Tanks)

			authed.GET("/soundings", h.Sounding.List)
			authed.POST("/soundings", h.Sounding.Create)
			authed.GET("/soundings/volume", h.Sounding.Volume)
			authed.GET("/soundings/:id", h.Sounding.Get)
			authed.PUT("/soundings/:id", h.Sounding.Update)
			authed.DELETE("/soundings/:id", h.Sounding.Delete)

			authed.GET("/fuel-tickets", h.Fuel.List)
			authed.POST("/fuel-tickets", h.Fuel.Create)
			authed.GET("/fuel-tickets/:id", h.Fuel.Get)
			authed.PUT("/fuel-tickets/:id", h.Fuel.Update)
			authed.DELETE("/fuel-tickets/:id", h.Fuel.Delete)

			authed.GET("/hitches", h.Hitch.List)
			authed.POST("/hitches", h.Hitch.Start)
			authed.GET("/hitches/active", h.Hitch.Active)
			authed.GET("/hitches/:id", h.Hitch.Get)

			admin := authed.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/users", h.Auth.Register)
			}
		}
	}

	return r, nil
}
