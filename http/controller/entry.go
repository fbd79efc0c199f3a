package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-drive-service/repository"
	"github.com/tnqbao/gau-drive-service/utils"
)

func (ctrl *Controller) ListEntries(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	query := repository.EntryListQuery{
		View:   c.Query("view"),
		Search: c.Query("search"),
		Type:   c.Query("type"),
		Sort:   c.Query("sort"),
	}
	if raw := c.Query("parent_id"); raw != "" {
		parentID, err := uuid.Parse(raw)
		if err != nil {
			utils.JSON400(c, "Invalid parent_id format")
			return
		}
		query.ParentID = &parentID
	}

	entries, err := ctrl.Drive.ListEntries(ctx, userID, query)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Entry] Failed to list entries for %s", userID)
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, entries)
}

func (ctrl *Controller) GetDownloadRef(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := pathEntryID(c)
	if !ok {
		return
	}

	ref, err := ctrl.Drive.GetDownloadRef(ctx, userID, entryID)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Entry] Download ref for %s failed: %v", entryID, err)
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, ref)
}

func (ctrl *Controller) ToggleStar(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := pathEntryID(c)
	if !ok {
		return
	}

	entry, err := ctrl.Drive.ToggleStar(ctx, userID, entryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, entry)
}
