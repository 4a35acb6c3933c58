package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prismnews/prism-backend/internal/http/response"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
	"github.com/prismnews/prism-backend/internal/services"
)

type FeedHandler struct {
	log         *logger.Logger
	feedService services.FeedService
}

func NewFeedHandler(log *logger.Logger, feedService services.FeedService) *FeedHandler {
	return &FeedHandler{log: log.With("handler", "FeedHandler"), feedService: feedService}
}

// GET /api/feed?cursor=...&page_size=20&topic_id=...
func (fh *FeedHandler) List(c *gin.Context) {
	pageSize := 0
	if raw := c.Query("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondBadRequest(c, "invalid_page_size", "page_size must be a non-negative integer")
			return
		}
		pageSize = n
	}

	var topicID *uuid.UUID
	if raw := c.Query("topic_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondBadRequest(c, "invalid_topic_id", "topic_id must be a UUID")
			return
		}
		topicID = &id
	}

	page, err := fh.feedService.ListPublished(c.Request.Context(), c.Query("cursor"), pageSize, topicID)
	if err != nil {
		response.RespondError(c, fh.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
