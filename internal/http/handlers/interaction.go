package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prismnews/prism-backend/internal/http/response"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
	"github.com/prismnews/prism-backend/internal/services"
)

type InteractionHandler struct {
	log                *logger.Logger
	interactionService services.InteractionService
}

func NewInteractionHandler(log *logger.Logger, interactionService services.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		log:                log.With("handler", "InteractionHandler"),
		interactionService: interactionService,
	}
}

// POST /api/interactions
func (ih *InteractionHandler) Record(c *gin.Context) {
	var input services.RecordInteractionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondBadRequest(c, "invalid_request", err.Error())
		return
	}

	row, err := ih.interactionService.Record(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, ih.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"interaction": row})
}

// GET /api/interactions?limit=50
func (ih *InteractionHandler) ListMine(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondBadRequest(c, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	rows, err := ih.interactionService.ListMine(c.Request.Context(), limit)
	if err != nil {
		response.RespondError(c, ih.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interactions": rows})
}
