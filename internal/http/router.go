package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jobhunt/jobhunt/internal/auth"
	"github.com/jobhunt/jobhunt/internal/cache"
	"github.com/jobhunt/jobhunt/internal/config"
	"github.com/jobhunt/jobhunt/internal/http/handlers"
	"github.com/jobhunt/jobhunt/internal/http/middlewares"
	"github.com/jobhunt/jobhunt/internal/observability"
)

const maxBodyBytes = 1 << 20 // 1 MiB, matches the JSON body cap of the API

type UsersStore interface {
	handlers.UserReader
	handlers.UserWriter
}

// Deps carries everything the router needs, constructed once in main
// and passed down. No package-level singletons.
type Deps struct {
	Log          *slog.Logger
	Users        UsersStore
	Applications handlers.ApplicationsStore
	Summaries    cache.SummaryCache
	JWT          *auth.Manager
	Ping         func() error
	Cfg          config.Config

	// Metrics are optional; the router builds a private registry when
	// the caller does not share one.
	Prom         *observability.Prom
	PromRegistry *prometheus.Registry
}

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	reg := d.PromRegistry
	prom := d.Prom

	if reg == nil || prom == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom = observability.NewProm(reg)
	}

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware([]string{d.Cfg.CORSOrigin}))
	r.Use(otelgin.Middleware("jobhunt"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))

	// health + metrics
	healthHandler := handlers.NewHealthHandler(d.Ping)
	r.GET("/health", healthHandler.Health)
	r.GET("/readyz", healthHandler.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	authMiddleware := middlewares.NewAuthMiddleware(d.JWT)

	authHandler := handlers.NewAuthHandler(d.Users, d.Users, d.JWT, d.Cfg)
	applicationsHandler := handlers.NewApplicationsHandler(d.Applications, d.Summaries)
	analyticsHandler := handlers.NewAnalyticsHandler(d.Applications, d.Summaries)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)

	protected := api.Group("", authMiddleware.RequireAuth())
	protected.GET("/applications", applicationsHandler.List)
	protected.POST("/applications", applicationsHandler.Create)
	protected.PUT("/applications/:id", applicationsHandler.Update)
	protected.DELETE("/applications/:id", applicationsHandler.Delete)
	protected.GET("/analytics/summary", analyticsHandler.Summary)

	return r
}
