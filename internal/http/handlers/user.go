package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/prismnews/prism-backend/internal/domain"
	"github.com/prismnews/prism-backend/internal/http/response"
	"github.com/prismnews/prism-backend/internal/pkg/logger"
	"github.com/prismnews/prism-backend/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), userService: userService}
}

// POST /api/users/bootstrap
// Materializes the user row for the verified identity; idempotent.
func (uh *UserHandler) Bootstrap(c *gin.Context) {
	user, err := uh.userService.GetOrCreate(c.Request.Context())
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"me": me})
}

// PATCH /api/me/profile
// body: any subset of profile fields; absent fields are left untouched.
func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	var patch types.Profile
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondBadRequest(c, "invalid_request", err.Error())
		return
	}

	user, err := uh.userService.UpdateProfile(c.Request.Context(), patch)
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// PUT /api/me/private-context
// body: the full private context object; replaces the stored one.
func (uh *UserHandler) UpdatePrivateContext(c *gin.Context) {
	var pc types.PrivateContext
	if err := c.ShouldBindJSON(&pc); err != nil {
		response.RespondBadRequest(c, "invalid_request", err.Error())
		return
	}

	user, err := uh.userService.UpdatePrivateContext(c.Request.Context(), pc)
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
