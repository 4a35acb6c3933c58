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

// IngestHandler is the internal surface the ingestion pipeline drives. It is
// never exposed publicly; the router mounts it behind the internal token.
type IngestHandler struct {
	log            *logger.Logger
	clusterService services.ClusterService
	insightService services.InsightService
}

func NewIngestHandler(log *logger.Logger, clusterService services.ClusterService, insightService services.InsightService) *IngestHandler {
	return &IngestHandler{
		log:            log.With("handler", "IngestHandler"),
		clusterService: clusterService,
		insightService: insightService,
	}
}

// POST /internal/articles
func (ih *IngestHandler) IngestArticle(c *gin.Context) {
	var input services.IngestArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondBadRequest(c, "invalid_request", err.Error())
		return
	}

	article, inserted, err := ih.clusterService.IngestArticle(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, ih.log, err)
		return
	}
	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"article": article, "inserted": inserted})
}

// POST /internal/events
func (ih *IngestHandler) CreateEvent(c *gin.Context) {
	var input services.CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondBadRequest(c, "invalid_request", err.Error())
		return
	}

	event, err := ih.clusterService.CreateEvent(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, ih.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// POST /internal/articles/:id/assign
// body: { "event_id": "..." }
func (ih *IngestHandler) AssignArticle(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		EventID uuid.UUID `json:"event_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, "invalid_request", err.Error())
		return
	}

	if err := ih.clusterService.AssignArticle(c.Request.Context(), articleID, req.EventID); err != nil {
		response.RespondError(c, ih.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /internal/articles/:id/discard
func (ih *IngestHandler) DiscardArticle(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ih.clusterService.DiscardArticle(c.Request.Context(), articleID); err != nil {
		response.RespondError(c, ih.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /internal/articles/:id/nearest-events?k=5
func (ih *IngestHandler) NearestEvents(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	k := 0
	if raw := c.Query("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondBadRequest(c, "invalid_k", "k must be a positive integer")
			return
		}
		k = n
	}

	events, err := ih.clusterService.NearestEvents(c.Request.Context(), articleID, k)
	if err != nil {
		response.RespondError(c, ih.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// POST /internal/events/:id/publish
func (ih *IngestHandler) PublishEvent(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ih.clusterService.PublishEvent(c.Request.Context(), eventID); err != nil {
		response.RespondError(c, ih.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /internal/events/:id/refresh-summaries
func (ih *IngestHandler) RefreshSummaries(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ih.clusterService.RefreshSummaries(c.Request.Context(), eventID); err != nil {
		response.RespondError(c, ih.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /internal/insights/purge-expired
func (ih *IngestHandler) PurgeExpiredInsights(c *gin.Context) {
	deleted, err := ih.insightService.PurgeExpired(c.Request.Context())
	if err != nil {
		response.RespondError(c, ih.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondBadRequest(c, "invalid_id", name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
