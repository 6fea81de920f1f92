package repository

import (
	"context"
	"time"

	"trainer_dashboard/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEntry is an audit row joined with the acting user, when that user still exists.
type AuditEntry struct {
	ID        uint           `json:"id"`
	UserID    *uint          `json:"user_id"`
	Action    string         `json:"action"`
	Details   datatypes.JSON `json:"details"`
	IPAddress *string        `json:"ip_address"`
	CreatedAt time.Time      `json:"created_at"`
	UserName  *string        `json:"user_name"`
	JSID      *string        `json:"js_id" gorm:"column:js_id"`
}

type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	Recent(ctx context.Context, limit int) ([]AuditEntry, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Omit("User").Create(entry).Error
}

func (r *auditRepository) Recent(ctx context.Context, limit int) ([]AuditEntry, error) {
	var entries []AuditEntry
	err := r.db.WithContext(ctx).
		Table("audit_logs AS a").
		Select("a.id, a.user_id, a.action, a.details, a.ip_address, a.created_at, u.name AS user_name, u.js_id").
		Joins("LEFT JOIN users AS u ON a.user_id = u.id").
		Order("a.created_at DESC").
		Order("a.id DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

func (r *auditRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return res.RowsAffected, res.Error
}
