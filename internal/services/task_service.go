package services

import (
	"context"
	"math"
	"strings"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/cache"
	"trainer_dashboard/internal/daterange"
	"trainer_dashboard/internal/logger"
	"trainer_dashboard/internal/models"
	"trainer_dashboard/internal/performance"
	"trainer_dashboard/internal/repository"
)

// CollaboratorInput credits another user on a task. Without explicit Hours, or
// with FullHours set, the collaborator gets the task's hours.
type CollaboratorInput struct {
	UserID    uint     `json:"userId" validate:"required"`
	Hours     *float64 `json:"hours" validate:"omitempty,gte=0,lte=24"`
	FullHours bool     `json:"fullHours"`
}

type TaskInput struct {
	TaskType       string              `json:"taskType" validate:"required"`
	CustomTaskName string              `json:"customTaskName"`
	Hours          *float64            `json:"hours" validate:"omitempty,gte=0,lte=24"`
	Date           string              `json:"date" validate:"required"`
	StartTime      string              `json:"startTime"`
	EndTime        string              `json:"endTime"`
	Remarks        string              `json:"remarks"`
	Collaborators  []CollaboratorInput `json:"collaborators" validate:"dive"`
}

type TaskService interface {
	Create(ctx context.Context, ownerID uint, in TaskInput) (uint, error)
	// Update is owner-only and never touches secondary ledger rows.
	Update(ctx context.Context, taskID, requesterID uint, in TaskInput) error
	Delete(ctx context.Context, taskID, requesterID uint) error
	RaiseQuery(ctx context.Context, actorID, taskID uint, query string) error
	RespondQuery(ctx context.Context, taskID, requesterID uint, response string) error
	UserTasks(ctx context.Context, userID uint, date string) ([]repository.UserTaskRow, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	audit    AuditLogger
	cache    cache.Cache
	logger   logger.Interface
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	audit AuditLogger,
	c cache.Cache,
	log logger.Interface,
) TaskService {
	return &taskService{taskRepo: taskRepo, userRepo: userRepo, audit: audit, cache: c, logger: log}
}

func (s *taskService) Create(ctx context.Context, ownerID uint, in TaskInput) (uint, error) {
	task, err := buildTask(ownerID, in)
	if err != nil {
		return 0, err
	}

	if _, err := s.userRepo.GetByID(ctx, ownerID); err != nil {
		return 0, storeErr(err, "User")
	}

	var collaborators []CollaboratorInput
	if !performance.IsPersonalType(task.TaskType) {
		collaborators = in.Collaborators
	}
	if err := s.checkCollaborators(ctx, ownerID, collaborators); err != nil {
		return 0, err
	}

	if err := s.checkExclusive(ctx, ownerID, task.Date, task.TaskType, 0); err != nil {
		return 0, err
	}

	ledger := make([]models.TaskCollaborator, 0, len(collaborators)+1)
	ledger = append(ledger, models.TaskCollaborator{
		UserID:           ownerID,
		Hours:            task.Hours,
		CollaboratorType: string(models.CollaboratorPrimary),
	})
	for _, c := range collaborators {
		hours := task.Hours
		if c.Hours != nil && !c.FullHours {
			hours = *c.Hours
		}
		ledger = append(ledger, models.TaskCollaborator{
			UserID:           c.UserID,
			Hours:            hours,
			CollaboratorType: string(models.CollaboratorSecondary),
		})
	}

	if err := s.taskRepo.Create(ctx, task, ledger); err != nil {
		return 0, storeErr(err, "Task")
	}

	s.audit.Log(ctx, ownerID, "ADD_TASK", map[string]interface{}{
		"task_type":           task.TaskType,
		"hours":               task.Hours,
		"date":                task.Date,
		"remarks":             task.Remarks,
		"collaborators_count": len(collaborators),
	})
	bumpGeneration(ctx, s.cache, s.logger)
	return task.ID, nil
}

func (s *taskService) Update(ctx context.Context, taskID, requesterID uint, in TaskInput) error {
	existing, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return storeErr(err, "Task")
	}
	if existing.UserID != requesterID {
		return apperr.Authorization("Unauthorized")
	}

	updated, err := buildTask(existing.UserID, in)
	if err != nil {
		return err
	}

	if performance.IsPersonalType(updated.TaskType) {
		ledger, err := s.taskRepo.GetCollaborators(ctx, taskID)
		if err != nil {
			return storeErr(err, "Task")
		}
		if hasSecondary(ledger) {
			return apperr.Validation("A task with collaborators cannot become %s", updated.TaskType)
		}
	}

	if err := s.checkExclusive(ctx, existing.UserID, updated.Date, updated.TaskType, taskID); err != nil {
		return err
	}

	updated.ID = existing.ID
	if err := s.taskRepo.Update(ctx, updated); err != nil {
		return storeErr(err, "Task")
	}

	s.audit.Log(ctx, requesterID, "UPDATE_TASK", map[string]interface{}{
		"taskId":    taskID,
		"task_type": updated.TaskType,
		"hours":     updated.Hours,
		"date":      updated.Date,
		"remarks":   updated.Remarks,
	})
	bumpGeneration(ctx, s.cache, s.logger)
	return nil
}

func (s *taskService) Delete(ctx context.Context, taskID, requesterID uint) error {
	existing, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return storeErr(err, "Task")
	}
	if existing.UserID != requesterID {
		return apperr.Authorization("Unauthorized")
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return storeErr(err, "Task")
	}

	s.audit.Log(ctx, requesterID, "DELETE_TASK", map[string]interface{}{"taskId": taskID})
	bumpGeneration(ctx, s.cache, s.logger)
	return nil
}

func (s *taskService) RaiseQuery(ctx context.Context, actorID, taskID uint, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return apperr.Validation("query is required")
	}
	if err := s.taskRepo.SetQuery(ctx, taskID, query); err != nil {
		return storeErr(err, "Task")
	}
	s.audit.Log(ctx, actorID, "RAISE_QUERY", map[string]interface{}{"taskId": taskID, "query": query})
	return nil
}

func (s *taskService) RespondQuery(ctx context.Context, taskID, requesterID uint, response string) error {
	response = strings.TrimSpace(response)
	if response == "" {
		return apperr.Validation("response is required")
	}
	existing, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return storeErr(err, "Task")
	}
	if existing.UserID != requesterID {
		return apperr.Authorization("Unauthorized")
	}
	if err := s.taskRepo.SetResponse(ctx, taskID, response); err != nil {
		return storeErr(err, "Task")
	}
	s.audit.Log(ctx, requesterID, "RESPOND_QUERY", map[string]interface{}{"taskId": taskID})
	return nil
}

func (s *taskService) UserTasks(ctx context.Context, userID uint, date string) ([]repository.UserTaskRow, error) {
	if date != "" {
		if err := daterange.Validate(date); err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
	}
	rows, err := s.taskRepo.GetContributorTasks(ctx, userID, date)
	if err != nil {
		return nil, storeErr(err, "Task")
	}
	if rows == nil {
		rows = []repository.UserTaskRow{}
	}
	return rows, nil
}

// checkExclusive enforces that Leave and Holiday are the only task of the
// owner's day. excludeID skips the task being updated.
func (s *taskService) checkExclusive(ctx context.Context, ownerID uint, date, taskType string, excludeID uint) error {
	existing, err := s.taskRepo.GetByOwnerAndDate(ctx, ownerID, date)
	if err != nil {
		return storeErr(err, "Task")
	}

	var others []models.Task
	for _, t := range existing {
		if t.ID != excludeID {
			others = append(others, t)
		}
	}
	if len(others) == 0 {
		return nil
	}

	if performance.IsExclusiveType(taskType) {
		return apperr.Conflict("Cannot add %s: other tasks already exist for %s", taskType, date)
	}
	for _, t := range others {
		if performance.IsExclusiveType(t.TaskType) {
			return apperr.Conflict("A %s task already exists for %s", t.TaskType, date)
		}
	}
	return nil
}

func (s *taskService) checkCollaborators(ctx context.Context, ownerID uint, collaborators []CollaboratorInput) error {
	if len(collaborators) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(collaborators))
	seen := make(map[uint]bool, len(collaborators))
	for _, c := range collaborators {
		if c.UserID == ownerID {
			return apperr.Validation("The task owner cannot also be a collaborator")
		}
		if seen[c.UserID] {
			return apperr.Validation("Collaborator %d is listed more than once", c.UserID)
		}
		seen[c.UserID] = true
		ids = append(ids, c.UserID)
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return storeErr(err, "User")
	}
	if len(users) != len(ids) {
		return apperr.NotFound("Collaborator not found")
	}
	return nil
}

// buildTask validates the input and returns the row to store. Personal types
// are forced to zero hours.
func buildTask(ownerID uint, in TaskInput) (*models.Task, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	taskType := strings.TrimSpace(in.TaskType)
	if err := daterange.Validate(in.Date); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	customName := optionalString(in.CustomTaskName)
	if taskType == performance.TypeOthers && customName == nil {
		return nil, apperr.Validation("Custom task name is required for Others")
	}

	var hours float64
	if !performance.IsPersonalType(taskType) {
		if in.Hours == nil {
			return nil, apperr.Validation("hours is required")
		}
		hours = *in.Hours
	}

	start, err := parseClock("startTime", in.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock("endTime", in.EndTime)
	if err != nil {
		return nil, err
	}
	if start != nil && end == nil {
		derived := addMinutes(*start, int(math.Floor(math.Mod(hours*60, minutesPerDay))))
		end = &derived
	}

	return &models.Task{
		UserID:         ownerID,
		TaskType:       taskType,
		CustomTaskName: customName,
		Hours:          hours,
		Date:           in.Date,
		StartTime:      start,
		EndTime:        end,
		Remarks:        optionalString(in.Remarks),
		QueryStatus:    string(models.QueryResolved),
	}, nil
}

func hasSecondary(ledger []models.TaskCollaborator) bool {
	for _, row := range ledger {
		if row.CollaboratorType == string(models.CollaboratorSecondary) {
			return true
		}
	}
	return false
}
