package repository

import (
	"github.com/tnqbao/gau-drive-service/infra"
	"gorm.io/gorm"
)

type Repository struct {
	EntryRepo       *EntryRepository
	CleanupTaskRepo *CleanupTaskRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = &Repository{
		EntryRepo:       NewEntryRepository(infra.Postgres.DB),
		CleanupTaskRepo: NewCleanupTaskRepository(infra.Postgres.DB),
	}
	return repository
}

// NewRepository builds a repository over an arbitrary gorm handle, used by
// tests running on an in-memory database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		EntryRepo:       NewEntryRepository(db),
		CleanupTaskRepo: NewCleanupTaskRepository(db),
	}
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}
