package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-drive-service/http/controller/dto"
	"github.com/tnqbao/gau-drive-service/utils"
)

func (ctrl *Controller) CreateFolder(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "name is required")
		return
	}

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		id, err := uuid.Parse(*req.ParentID)
		if err != nil {
			utils.JSON400(c, "Invalid parent_id format")
			return
		}
		parentID = &id
	}

	folder, err := ctrl.Drive.CreateFolder(ctx, userID, req.Name, parentID)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Folder] Create %q failed: %v", req.Name, err)
		respondServiceError(c, err)
		return
	}

	utils.JSON201(c, folder)
}

func (ctrl *Controller) ExportFolderArchive(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := pathEntryID(c)
	if !ok {
		return
	}

	filename := c.DefaultQuery("filename", "archive")

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".zip"))

	err := ctrl.Drive.ExportFolderArchive(ctx, userID, entryID, c.Writer)
	if err != nil {
		// Once bytes are on the wire only a truncated stream can signal
		// failure; structured errors are possible before the first write.
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Type")
			c.Writer.Header().Del("Content-Disposition")
			respondServiceError(c, err)
			return
		}
		if !errors.Is(err, context.Canceled) {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Folder] Archive export of %s aborted mid-stream", entryID)
		}
		c.Abort()
		return
	}
}
