package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-drive-service/http/controller"
	middlewares "github.com/tnqbao/gau-drive-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	r.GET("/healthz", ctrl.HealthCheck)

	// Share resolution is unauthenticated: the token is the capability.
	r.GET("/public/shared/:token", ctrl.ResolveSharedEntry)

	apiRoutes := r.Group("/api/v1/drive")
	{
		apiRoutes.Use(middles.AuthMiddleware)

		entryRoutes := apiRoutes.Group("/entries")
		{
			entryRoutes.GET("/", ctrl.ListEntries)
			entryRoutes.GET("/:id/download", ctrl.GetDownloadRef)
			entryRoutes.PATCH("/:id/star", ctrl.ToggleStar)
			entryRoutes.PATCH("/:id/share", ctrl.ToggleShare)
			entryRoutes.PATCH("/:id/restore", ctrl.RestoreEntry)
			entryRoutes.DELETE("/:id", ctrl.SoftDeleteEntry)
			entryRoutes.DELETE("/:id/permanent", ctrl.PermanentDeleteEntry)
		}

		folderRoutes := apiRoutes.Group("/folders")
		{
			folderRoutes.POST("/", ctrl.CreateFolder)
			folderRoutes.GET("/:id/archive", ctrl.ExportFolderArchive)
		}

		apiRoutes.POST("/files", ctrl.UploadFile)
	}
	return r
}
