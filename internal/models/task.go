package models

import (
	"time"
)

// Task is one logged activity of its owner on a calendar date.
type Task struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"not null;index:idx_tasks_user_date"`
	TaskType        string    `json:"task_type" gorm:"not null"`
	CustomTaskName  *string   `json:"custom_task_name"`
	Hours           float64   `json:"hours" gorm:"not null;default:0"`
	Date            string    `json:"date" gorm:"type:varchar(10);not null;index:idx_tasks_user_date;index"` // YYYY-MM-DD
	StartTime       *string   `json:"start_time" gorm:"type:varchar(5)"`                                     // HH:MM
	EndTime         *string   `json:"end_time" gorm:"type:varchar(5)"`
	Remarks         *string   `json:"remarks" gorm:"type:text"`
	AdminQuery      *string   `json:"admin_query" gorm:"type:text"`
	QueryStatus     string    `json:"query_status" gorm:"default:'resolved'"` // pending, resolved
	TrainerResponse *string   `json:"trainer_response" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at"`

	User          *User              `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Collaborators []TaskCollaborator `json:"collaborators,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

type QueryStatus string

const (
	QueryPending  QueryStatus = "pending"
	QueryResolved QueryStatus = "resolved"
)

// TaskCollaborator attributes hours of a task to one contributing user.
// Every task has exactly one primary row (its owner).
type TaskCollaborator struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	TaskID           uint    `json:"task_id" gorm:"not null;uniqueIndex:idx_collaborator_task_user"`
	UserID           uint    `json:"user_id" gorm:"not null;uniqueIndex:idx_collaborator_task_user;index"`
	Hours            float64 `json:"hours" gorm:"not null;default:0"`
	CollaboratorType string  `json:"collaborator_type" gorm:"not null"` // primary, secondary

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type CollaboratorType string

const (
	CollaboratorPrimary   CollaboratorType = "primary"
	CollaboratorSecondary CollaboratorType = "secondary"
)

// TaskType is an entry of the managed task-type taxonomy.
type TaskType struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:191;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}
