package repository

import (
	"context"
	"database/sql"
	"time"

	"trainer_dashboard/internal/daterange"

	"gorm.io/gorm"
)

// Two aggregation bases live here and are kept apart on purpose:
//   - Ledger*: sums task_collaborators.hours per contributor, so every
//     collaborator is credited with their own hours.
//   - Task*: sums tasks.hours per owner, so a shared task counts once.

// TrainerDayRow is one trainer's ledger aggregate for a date.
type TrainerDayRow struct {
	ID         uint
	Name       string
	JSID       string `gorm:"column:js_id"`
	TotalHours sql.NullFloat64
	IsLeave    int
	IsHoliday  int
	IsHalfDay  int
}

type TrendRow struct {
	Date           string  `json:"date"`
	TotalHours     float64 `json:"total_hours"`
	ActiveTrainers int64   `json:"active_trainers"`
}

type OwnerTotalRow struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	TotalHours float64 `json:"total_hours"`
	TasksCount int64   `json:"tasks_count"`
}

// ReportRow is a ledger-joined task row for one contributor.
type ReportRow struct {
	TaskID           uint      `json:"task_id"`
	TaskType         string    `json:"task_type"`
	CustomTaskName   *string   `json:"custom_task_name"`
	Hours            float64   `json:"hours"`
	CollaboratorType string    `json:"collaborator_type"`
	Date             string    `json:"date"`
	StartTime        *string   `json:"start_time"`
	EndTime          *string   `json:"end_time"`
	Remarks          *string   `json:"remarks"`
	AdminQuery       *string   `json:"admin_query"`
	QueryStatus      string    `json:"query_status"`
	TrainerResponse  *string   `json:"trainer_response"`
	CreatedAt        time.Time `json:"created_at"`
}

type ExportRow struct {
	Date           string  `json:"date"`
	TrainerName    string  `json:"trainer_name"`
	JSID           string  `json:"js_id" gorm:"column:js_id"`
	TaskType       string  `json:"task_type"`
	CustomTaskName *string `json:"custom_task_name"`
	Hours          float64 `json:"hours"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
}

type AggregateRepository interface {
	LedgerHoursForUser(ctx context.Context, userID uint, date string) (float64, error)
	LedgerTrainerDays(ctx context.Context, date string) ([]TrainerDayRow, error)
	LedgerRowsForUser(ctx context.Context, userID uint, r daterange.Range) ([]ReportRow, error)
	TaskHoursTrend(ctx context.Context, from string) ([]TrendRow, error)
	TaskHoursByOwner(ctx context.Context, from string) ([]OwnerTotalRow, error)
	TaskExportRows(ctx context.Context, r daterange.Range) ([]ExportRow, error)
}

type aggregateRepository struct {
	db *gorm.DB
}

func NewAggregateRepository(db *gorm.DB) AggregateRepository {
	return &aggregateRepository{db: db}
}

func (r *aggregateRepository) LedgerHoursForUser(ctx context.Context, userID uint, date string) (float64, error) {
	var total sql.NullFloat64
	err := r.db.WithContext(ctx).Raw(`
		SELECT SUM(tc.hours)
		FROM task_collaborators tc
		JOIN tasks t ON t.id = tc.task_id
		WHERE tc.user_id = ? AND t.date = ?`, userID, date).
		Row().Scan(&total)
	if err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Float64, nil
}

func (r *aggregateRepository) LedgerTrainerDays(ctx context.Context, date string) ([]TrainerDayRow, error) {
	var rows []TrainerDayRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			u.id,
			u.name,
			u.js_id,
			stats.total_hours,
			COALESCE(stats.is_leave, 0) AS is_leave,
			COALESCE(stats.is_holiday, 0) AS is_holiday,
			COALESCE(stats.is_half_day, 0) AS is_half_day
		FROM users u
		LEFT JOIN (
			SELECT
				tc.user_id,
				SUM(tc.hours) AS total_hours,
				MAX(CASE WHEN t.task_type = 'Leave' THEN 1 ELSE 0 END) AS is_leave,
				MAX(CASE WHEN t.task_type = 'Holiday' THEN 1 ELSE 0 END) AS is_holiday,
				MAX(CASE WHEN t.task_type = 'Half Day' THEN 1 ELSE 0 END) AS is_half_day
			FROM task_collaborators tc
			JOIN tasks t ON tc.task_id = t.id
			WHERE t.date = ?
			GROUP BY tc.user_id
		) stats ON u.id = stats.user_id
		WHERE u.role = 'trainer'
		ORDER BY u.name ASC, u.id ASC`, date).
		Scan(&rows).Error
	return rows, err
}

func (r *aggregateRepository) LedgerRowsForUser(ctx context.Context, userID uint, dr daterange.Range) ([]ReportRow, error) {
	query := r.db.WithContext(ctx).
		Table("tasks AS t").
		Select(`t.id AS task_id, t.task_type, t.custom_task_name, tc.hours, tc.collaborator_type,
			t.date, t.start_time, t.end_time, t.remarks, t.admin_query, t.query_status,
			t.trainer_response, t.created_at`).
		Joins("JOIN task_collaborators AS tc ON t.id = tc.task_id").
		Where("tc.user_id = ?", userID).
		Where("t.date >= ?", dr.From)
	if dr.To != "" {
		query = query.Where("t.date <= ?", dr.To)
	}

	var rows []ReportRow
	err := query.Order("t.date DESC").Order("t.created_at DESC").Order("t.id DESC").Scan(&rows).Error
	return rows, err
}

func (r *aggregateRepository) TaskHoursTrend(ctx context.Context, from string) ([]TrendRow, error) {
	var rows []TrendRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			date,
			SUM(hours) AS total_hours,
			COUNT(DISTINCT user_id) AS active_trainers
		FROM tasks
		WHERE date >= ?
		GROUP BY date
		ORDER BY date ASC`, from).
		Scan(&rows).Error
	return rows, err
}

func (r *aggregateRepository) TaskHoursByOwner(ctx context.Context, from string) ([]OwnerTotalRow, error) {
	var rows []OwnerTotalRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			u.id,
			u.name,
			SUM(t.hours) AS total_hours,
			COUNT(t.id) AS tasks_count
		FROM tasks t
		JOIN users u ON t.user_id = u.id
		WHERE t.date >= ?
		GROUP BY u.id, u.name`, from).
		Scan(&rows).Error
	return rows, err
}

func (r *aggregateRepository) TaskExportRows(ctx context.Context, dr daterange.Range) ([]ExportRow, error) {
	query := r.db.WithContext(ctx).
		Table("tasks AS t").
		Select(`t.date, u.name AS trainer_name, u.js_id, t.task_type, t.custom_task_name,
			t.hours, t.start_time, t.end_time`).
		Joins("JOIN users AS u ON t.user_id = u.id").
		Where("t.date >= ?", dr.From)
	if dr.To != "" {
		query = query.Where("t.date <= ?", dr.To)
	}

	var rows []ExportRow
	err := query.Order("t.date DESC").Order("u.name ASC").Order("t.id ASC").Scan(&rows).Error
	return rows, err
}
