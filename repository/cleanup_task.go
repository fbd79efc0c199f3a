package repository

import (
	"github.com/google/uuid"
	"github.com/tnqbao/gau-drive-service/entity"
	"gorm.io/gorm"
)

type CleanupTaskRepository struct {
	db *gorm.DB
}

func NewCleanupTaskRepository(db *gorm.DB) *CleanupTaskRepository {
	return &CleanupTaskRepository{db: db}
}

func (r *CleanupTaskRepository) Create(task *entity.CleanupTask) error {
	return r.db.Create(task).Error
}

func (r *CleanupTaskRepository) FindByID(id uuid.UUID) (*entity.CleanupTask, error) {
	var task entity.CleanupTask
	err := r.db.Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *CleanupTaskRepository) FindPending() ([]entity.CleanupTask, error) {
	var tasks []entity.CleanupTask
	err := r.db.Where("status = ?", entity.CleanupStatusPending).Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *CleanupTaskRepository) MarkDone(id uuid.UUID, attempts int) error {
	return r.db.Model(&entity.CleanupTask{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":   entity.CleanupStatusDone,
		"attempts": attempts,
	}).Error
}

func (r *CleanupTaskRepository) MarkFailed(id uuid.UUID, attempts int, lastError string) error {
	return r.db.Model(&entity.CleanupTask{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     entity.CleanupStatusFailed,
		"attempts":   attempts,
		"last_error": lastError,
	}).Error
}

func (r *CleanupTaskRepository) RecordAttempt(id uuid.UUID, attempts int, lastError string) error {
	return r.db.Model(&entity.CleanupTask{}).Where("id = ?", id).Updates(map[string]interface{}{
		"attempts":   attempts,
		"last_error": lastError,
	}).Error
}
