package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-drive-service/utils"
)

func (ctrl *Controller) ToggleShare(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := pathEntryID(c)
	if !ok {
		return
	}

	entry, shareURL, err := ctrl.Drive.ToggleShare(ctx, userID, entryID)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Share] Toggle for %s failed: %v", entryID, err)
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, gin.H{"entry": entry, "share_url": shareURL})
}

// ResolveSharedEntry is the unauthenticated capability lookup. The token is
// the whole credential; nothing about the owner is checked.
func (ctrl *Controller) ResolveSharedEntry(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.Param("token")

	shared, err := ctrl.Drive.ResolveSharedEntry(ctx, token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, shared)
}
