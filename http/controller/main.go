package controller

import (
	"github.com/tnqbao/gau-drive-service/config"
	"github.com/tnqbao/gau-drive-service/infra"
	"github.com/tnqbao/gau-drive-service/repository"
	"github.com/tnqbao/gau-drive-service/service"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Drive      *service.DriveService
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository, drive *service.DriveService) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	if drive == nil {
		panic("Failed to initialize Drive service")
	}
	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		Drive:      drive,
	}
}
