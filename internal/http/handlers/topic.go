package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prismnews/prism-backend/internal/http/response"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
	"github.com/prismnews/prism-backend/internal/services"
)

type TopicHandler struct {
	log          *logger.Logger
	topicService services.TopicService
}

func NewTopicHandler(log *logger.Logger, topicService services.TopicService) *TopicHandler {
	return &TopicHandler{log: log.With("handler", "TopicHandler"), topicService: topicService}
}

// GET /api/topics
func (th *TopicHandler) List(c *gin.Context) {
	topics, err := th.topicService.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, th.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}
