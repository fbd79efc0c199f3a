package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-drive-service/utils"
)

func (ctrl *Controller) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	sqlDB, err := ctrl.Infra.Postgres.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Health] Postgres ping failed")
		utils.JSON500(c, "database unavailable")
		return
	}

	if err := ctrl.Infra.Minio.HealthCheck(ctx); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Health] Storage probe failed")
		utils.JSON502(c, "storage backend unavailable")
		return
	}

	utils.JSON200(c, gin.H{"healthy": true})
}
