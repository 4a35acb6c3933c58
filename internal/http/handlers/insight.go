package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prismnews/prism-backend/internal/http/response"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
	"github.com/prismnews/prism-backend/internal/services"
)

type InsightHandler struct {
	log            *logger.Logger
	insightService services.InsightService
}

func NewInsightHandler(log *logger.Logger, insightService services.InsightService) *InsightHandler {
	return &InsightHandler{log: log.With("handler", "InsightHandler"), insightService: insightService}
}

// GET /api/events/:slug/insight
func (ih *InsightHandler) GetForEvent(c *gin.Context) {
	insight, err := ih.insightService.GetOrRefreshBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.RespondError(c, ih.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insight": insight})
}
