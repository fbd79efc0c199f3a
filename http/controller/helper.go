package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-drive-service/service"
	"github.com/tnqbao/gau-drive-service/utils"
)

// currentUserID reads the authenticated principal injected by the auth
// middleware. A missing or malformed id has already been rejected there, so
// failures here respond 401 and return false.
func (ctrl *Controller) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	ctx := c.Request.Context()
	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, nil, "[Drive] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Drive] Invalid user_id format: %v", err)
		utils.JSON400(c, "Invalid user_id format")
		return uuid.Nil, false
	}
	return userID, true
}

func pathEntryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid entry id")
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var backendErr *service.StorageBackendError
	switch {
	case errors.Is(err, service.ErrValidation):
		utils.JSON400(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.JSON404(c, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		utils.JSON403(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		utils.JSON409(c, err.Error())
	case errors.As(err, &backendErr):
		utils.JSON502(c, "Storage backend error")
	default:
		utils.JSON500(c, "Internal server error")
	}
}
