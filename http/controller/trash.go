package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-drive-service/service"
	"github.com/tnqbao/gau-drive-service/utils"
)

func (ctrl *Controller) SoftDeleteEntry(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := pathEntryID(c)
	if !ok {
		return
	}

	if err := ctrl.Drive.SoftDelete(ctx, userID, entryID); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Trash] Soft delete of %s failed: %v", entryID, err)
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, gin.H{"deleted": true})
}

func (ctrl *Controller) RestoreEntry(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := pathEntryID(c)
	if !ok {
		return
	}

	entry, err := ctrl.Drive.Restore(ctx, userID, entryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, entry)
}

func (ctrl *Controller) PermanentDeleteEntry(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := pathEntryID(c)
	if !ok {
		return
	}

	err := ctrl.Drive.PermanentDelete(ctx, userID, entryID)
	if err != nil {
		var partial *service.PartialFailure
		if errors.As(err, &partial) {
			// Metadata removal completed; only blob cleanup is outstanding
			// and queued for the worker.
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Trash] Permanent delete of %s finished with %d outstanding blobs", entryID, len(partial.Items))
			utils.JSON200(c, gin.H{"deleted": true, "partial": partial.Items})
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Trash] Permanent delete of %s failed", entryID)
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, gin.H{"deleted": true})
}
