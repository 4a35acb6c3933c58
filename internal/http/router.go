package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/prismnews/prism-backend/internal/http/handlers"
	httpMW "github.com/prismnews/prism-backend/internal/http/middleware"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	ServiceName    string
	AuthMiddleware *httpMW.AuthMiddleware
	AllowedOrigins []string
	InternalToken  string

	HealthHandler      *httpH.HealthHandler
	TopicHandler       *httpH.TopicHandler
	FeedHandler        *httpH.FeedHandler
	EventHandler       *httpH.EventHandler
	UserHandler        *httpH.UserHandler
	InsightHandler     *httpH.InsightHandler
	InteractionHandler *httpH.InteractionHandler
	IngestHandler      *httpH.IngestHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "prism-backend"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.Healthcheck)
	}

	api := r.Group("/api")
	{
		// Public read surface
		if cfg.TopicHandler != nil {
			api.GET("/topics", cfg.TopicHandler.List)
		}
		if cfg.FeedHandler != nil {
			api.GET("/feed", cfg.FeedHandler.List)
		}
		if cfg.EventHandler != nil {
			api.GET("/events/:slug", cfg.EventHandler.GetBySlug)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.UserHandler != nil {
			protected.POST("/users/bootstrap", cfg.UserHandler.Bootstrap)
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me/profile", cfg.UserHandler.UpdateProfile)
			protected.PUT("/me/private-context", cfg.UserHandler.UpdatePrivateContext)
		}

		if cfg.InsightHandler != nil {
			protected.GET("/events/:slug/insight", cfg.InsightHandler.GetForEvent)
		}

		if cfg.InteractionHandler != nil {
			protected.POST("/interactions", cfg.InteractionHandler.Record)
			protected.GET("/interactions", cfg.InteractionHandler.ListMine)
		}
	}

	// Pipeline surface, shared-secret only
	internal := r.Group("/internal")
	{
		internal.Use(httpMW.RequireInternalToken(cfg.InternalToken))

		if cfg.IngestHandler != nil {
			internal.POST("/articles", cfg.IngestHandler.IngestArticle)
			internal.POST("/articles/:id/assign", cfg.IngestHandler.AssignArticle)
			internal.POST("/articles/:id/discard", cfg.IngestHandler.DiscardArticle)
			internal.GET("/articles/:id/nearest-events", cfg.IngestHandler.NearestEvents)
			internal.POST("/events", cfg.IngestHandler.CreateEvent)
			internal.POST("/events/:id/publish", cfg.IngestHandler.PublishEvent)
			internal.POST("/events/:id/refresh-summaries", cfg.IngestHandler.RefreshSummaries)
			internal.POST("/insights/purge-expired", cfg.IngestHandler.PurgeExpiredInsights)
		}
	}

	return r
}
