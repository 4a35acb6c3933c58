package app

import (
	"github.com/gin-gonic/gin"

	"github.com/prismnews/prism-backend/internal/http"
	httpH "github.com/prismnews/prism-backend/internal/http/handlers"
	httpMW "github.com/prismnews/prism-backend/internal/http/middleware"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health      *httpH.HealthHandler
	Topic       *httpH.TopicHandler
	Feed        *httpH.FeedHandler
	Event       *httpH.EventHandler
	User        *httpH.UserHandler
	Insight     *httpH.InsightHandler
	Interaction *httpH.InteractionHandler
	Ingest      *httpH.IngestHandler
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
	}
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(),
		Topic:       httpH.NewTopicHandler(log, services.Topic),
		Feed:        httpH.NewFeedHandler(log, services.Feed),
		Event:       httpH.NewEventHandler(log, services.Event),
		User:        httpH.NewUserHandler(log, services.User),
		Insight:     httpH.NewInsightHandler(log, services.Insight),
		Interaction: httpH.NewInteractionHandler(log, services.Interaction),
		Ingest:      httpH.NewIngestHandler(log, services.Cluster, services.Insight),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:            log,
		ServiceName:    cfg.ServiceName,
		AuthMiddleware: middleware.Auth,
		AllowedOrigins: cfg.AllowedOrigins,
		InternalToken:  cfg.InternalToken,

		HealthHandler:      handlers.Health,
		TopicHandler:       handlers.Topic,
		FeedHandler:        handlers.Feed,
		EventHandler:       handlers.Event,
		UserHandler:        handlers.User,
		InsightHandler:     handlers.Insight,
		InteractionHandler: handlers.Interaction,
		IngestHandler:      handlers.Ingest,
	})
}
