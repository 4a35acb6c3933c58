package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prismnews/prism-backend/internal/bias"
	"github.com/prismnews/prism-backend/internal/http/response"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
	"github.com/prismnews/prism-backend/internal/services"
)

type EventHandler struct {
	log          *logger.Logger
	eventService services.EventService
}

func NewEventHandler(log *logger.Logger, eventService services.EventService) *EventHandler {
	return &EventHandler{log: log.With("handler", "EventHandler"), eventService: eventService}
}

// articleView decorates an article with its source's bias indicator so
// clients never recompute leaning thresholds.
type articleView struct {
	*services.ArticleWithSource
	BiasIndicator *bias.Indicator `json:"bias_indicator,omitempty"`
}

// GET /api/events/:slug
func (eh *EventHandler) GetBySlug(c *gin.Context) {
	detail, err := eh.eventService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.RespondError(c, eh.log, err)
		return
	}

	articles := make([]*articleView, 0, len(detail.Articles))
	for _, a := range detail.Articles {
		view := &articleView{ArticleWithSource: a}
		if a.Source != nil {
			ind := bias.IndicatorFor(a.Source.BaseBias)
			view.BiasIndicator = &ind
		}
		articles = append(articles, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"event":    detail.Event,
		"articles": articles,
	})
}
