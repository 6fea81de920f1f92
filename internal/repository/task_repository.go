package repository

import (
	"context"
	"time"

	"trainer_dashboard/internal/models"

	"gorm.io/gorm"
)

// UserTaskRow is a task as seen by one contributor: Hours and CollaboratorType
// come from that contributor's ledger row.
type UserTaskRow struct {
	ID               uint      `json:"id"`
	OwnerID          uint      `json:"owner_id"`
	TaskType         string    `json:"task_type"`
	CustomTaskName   *string   `json:"custom_task_name"`
	Date             string    `json:"date"`
	StartTime        *string   `json:"start_time"`
	EndTime          *string   `json:"end_time"`
	Remarks          *string   `json:"remarks"`
	AdminQuery       *string   `json:"admin_query"`
	QueryStatus      string    `json:"query_status"`
	TrainerResponse  *string   `json:"trainer_response"`
	Hours            float64   `json:"hours"`
	CollaboratorType string    `json:"collaborator_type"`
	CreatedAt        time.Time `json:"created_at"`
}

type TaskRepository interface {
	// Create writes the task, then the ledger rows with their TaskID filled in,
	// in one transaction.
	Create(ctx context.Context, task *models.Task, collaborators []models.TaskCollaborator) error
	GetByID(ctx context.Context, id uint) (*models.Task, error)
	GetByOwnerAndDate(ctx context.Context, ownerID uint, date string) ([]models.Task, error)
	// Update saves the task fields and syncs the owner's primary ledger row.
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uint) error
	GetCollaborators(ctx context.Context, taskID uint) ([]models.TaskCollaborator, error)
	GetContributorTasks(ctx context.Context, userID uint, date string) ([]UserTaskRow, error)
	SetQuery(ctx context.Context, id uint, query string) error
	SetResponse(ctx context.Context, id uint, response string) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task, collaborators []models.TaskCollaborator) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Collaborators").Create(task).Error; err != nil {
			return err
		}
		if len(collaborators) == 0 {
			return nil
		}
		for i := range collaborators {
			collaborators[i].TaskID = task.ID
		}
		if err := tx.Omit("User").Create(&collaborators).Error; err != nil {
			return err
		}
		task.Collaborators = collaborators
		return nil
	})
}

func (r *taskRepository) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) GetByOwnerAndDate(ctx context.Context, ownerID uint, date string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", ownerID, date).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Updates(map[string]interface{}{
			"task_type":        task.TaskType,
			"custom_task_name": task.CustomTaskName,
			"hours":            task.Hours,
			"date":             task.Date,
			"start_time":       task.StartTime,
			"end_time":         task.EndTime,
			"remarks":          task.Remarks,
		}).Error
		if err != nil {
			return err
		}

		// Secondary rows are left alone on purpose.
		return tx.Model(&models.TaskCollaborator{}).
			Where("task_id = ? AND user_id = ? AND collaborator_type = ?",
				task.ID, task.UserID, string(models.CollaboratorPrimary)).
			Update("hours", task.Hours).Error
	})
}

func (r *taskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskCollaborator{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *taskRepository) GetCollaborators(ctx context.Context, taskID uint) ([]models.TaskCollaborator, error) {
	var collaborators []models.TaskCollaborator
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("id ASC").
		Find(&collaborators).Error
	return collaborators, err
}

func (r *taskRepository) GetContributorTasks(ctx context.Context, userID uint, date string) ([]UserTaskRow, error) {
	query := r.db.WithContext(ctx).
		Table("tasks AS t").
		Select(`t.id, t.user_id AS owner_id, t.task_type, t.custom_task_name,
			t.date, t.start_time, t.end_time, t.remarks, t.admin_query, t.query_status,
			t.trainer_response, t.created_at, tc.hours, tc.collaborator_type`).
		Joins("JOIN task_collaborators AS tc ON t.id = tc.task_id").
		Where("tc.user_id = ?", userID)
	if date != "" {
		query = query.Where("t.date = ?", date)
	}

	var rows []UserTaskRow
	err := query.Order("t.created_at DESC").Order("t.id DESC").Scan(&rows).Error
	return rows, err
}

func (r *taskRepository) SetQuery(ctx context.Context, id uint, query string) error {
	res := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"admin_query":  query,
		"query_status": string(models.QueryPending),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taskRepository) SetResponse(ctx context.Context, id uint, response string) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"trainer_response": response,
		"query_status":     string(models.QueryResolved),
	}).Error
}
