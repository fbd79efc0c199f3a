package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-drive-service/utils"
)

func (ctrl *Controller) UploadFile(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := ctrl.currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to get file from form data")
		utils.JSON400(c, "Failed to get file: "+err.Error())
		return
	}

	var parentID *uuid.UUID
	if raw := c.PostForm("parent_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.JSON400(c, "Invalid parent_id format")
			return
		}
		parentID = &id
	}

	src, err := fileHeader.Open()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to open uploaded file")
		utils.JSON400(c, "Failed to read file")
		return
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	entry, err := ctrl.Drive.UploadFile(ctx, userID, fileHeader.Filename, parentID, src, fileHeader.Size, contentType)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Upload of %q failed", fileHeader.Filename)
		respondServiceError(c, err)
		return
	}

	utils.JSON201(c, entry)
}
