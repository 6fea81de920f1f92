package repository

import (
	"context"
	"strings"

	"trainer_dashboard/internal/models"

	"gorm.io/gorm"
)

type TaskTypeRepository interface {
	Create(ctx context.Context, taskType *models.TaskType) error
	GetAll(ctx context.Context) ([]models.TaskType, error)
	GetByID(ctx context.Context, id uint) (*models.TaskType, error)
	// ExistsByName compares names ignoring case, skipping excludeID when non-zero.
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	Rename(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) error
}

type taskTypeRepository struct {
	db *gorm.DB
}

func NewTaskTypeRepository(db *gorm.DB) TaskTypeRepository {
	return &taskTypeRepository{db: db}
}

func (r *taskTypeRepository) Create(ctx context.Context, taskType *models.TaskType) error {
	return r.db.WithContext(ctx).Create(taskType).Error
}

func (r *taskTypeRepository) GetAll(ctx context.Context) ([]models.TaskType, error) {
	var types []models.TaskType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *taskTypeRepository) GetByID(ctx context.Context, id uint) (*models.TaskType, error) {
	var taskType models.TaskType
	err := r.db.WithContext(ctx).First(&taskType, id).Error
	if err != nil {
		return nil, err
	}
	return &taskType, nil
}

func (r *taskTypeRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.TaskType{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *taskTypeRepository) Rename(ctx context.Context, id uint, name string) error {
	res := r.db.WithContext(ctx).Model(&models.TaskType{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taskTypeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.TaskType{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
