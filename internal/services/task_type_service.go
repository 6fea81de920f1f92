package services

import (
	"context"
	"strings"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/models"
	"trainer_dashboard/internal/performance"
	"trainer_dashboard/internal/repository"
)

// IsSystemTaskType reports whether name drives classification and must stay in the taxonomy.
func IsSystemTaskType(name string) bool {
	switch name {
	case performance.TypeLeave, performance.TypeHoliday, performance.TypeHalfDay, performance.TypeOthers:
		return true
	}
	return false
}

type TaskTypeService interface {
	List(ctx context.Context) ([]models.TaskType, error)
	Add(ctx context.Context, actorID uint, name string) (*models.TaskType, error)
	Update(ctx context.Context, actorID, id uint, name string) error
	Delete(ctx context.Context, actorID, id uint) error
}

type taskTypeService struct {
	typeRepo repository.TaskTypeRepository
	audit    AuditLogger
}

func NewTaskTypeService(typeRepo repository.TaskTypeRepository, audit AuditLogger) TaskTypeService {
	return &taskTypeService{typeRepo: typeRepo, audit: audit}
}

func (s *taskTypeService) List(ctx context.Context) ([]models.TaskType, error) {
	types, err := s.typeRepo.GetAll(ctx)
	if err != nil {
		return nil, storeErr(err, "Task type")
	}
	if types == nil {
		types = []models.TaskType{}
	}
	return types, nil
}

func (s *taskTypeService) Add(ctx context.Context, actorID uint, name string) (*models.TaskType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if err := s.ensureUnique(ctx, name, 0); err != nil {
		return nil, err
	}

	taskType := &models.TaskType{Name: name}
	if err := s.typeRepo.Create(ctx, taskType); err != nil {
		return nil, storeErr(err, "Task type")
	}
	s.audit.Log(ctx, actorID, "ADD_TASK_TYPE", map[string]interface{}{"name": name})
	return taskType, nil
}

func (s *taskTypeService) Update(ctx context.Context, actorID, id uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("name is required")
	}
	existing, err := s.typeRepo.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, "Task type")
	}
	if IsSystemTaskType(existing.Name) && existing.Name != name {
		return apperr.Validation("%s is a system task type and cannot be renamed", existing.Name)
	}
	if err := s.ensureUnique(ctx, name, id); err != nil {
		return err
	}

	if err := s.typeRepo.Rename(ctx, id, name); err != nil {
		return storeErr(err, "Task type")
	}
	s.audit.Log(ctx, actorID, "UPDATE_TASK_TYPE", map[string]interface{}{"id": id, "name": name})
	return nil
}

func (s *taskTypeService) Delete(ctx context.Context, actorID, id uint) error {
	existing, err := s.typeRepo.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, "Task type")
	}
	if IsSystemTaskType(existing.Name) {
		return apperr.Validation("%s is a system task type and cannot be deleted", existing.Name)
	}

	if err := s.typeRepo.Delete(ctx, id); err != nil {
		return storeErr(err, "Task type")
	}
	s.audit.Log(ctx, actorID, "DELETE_TASK_TYPE", map[string]interface{}{"id": id})
	return nil
}

func (s *taskTypeService) ensureUnique(ctx context.Context, name string, excludeID uint) error {
	exists, err := s.typeRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return storeErr(err, "Task type")
	}
	if exists {
		return apperr.Conflict("Task type already exists")
	}
	return nil
}
