package services

import (
	"context"
	"encoding/json"
	"time"

	"trainer_dashboard/internal/logger"
	"trainer_dashboard/internal/models"
	"trainer_dashboard/internal/repository"

	"gorm.io/datatypes"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

type contextKey string

const clientIPKey contextKey = "client_ip"

// WithClientIP attaches the caller's address for audit entries.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// AuditLogger records who did what. Log never fails the caller.
type AuditLogger interface {
	Log(ctx context.Context, actorID uint, action string, details interface{})
}

type AuditService interface {
	AuditLogger
	Recent(ctx context.Context, limit int) ([]repository.AuditEntry, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
	logger    logger.Interface
	now       func() time.Time
}

func NewAuditService(auditRepo repository.AuditRepository, log logger.Interface) AuditService {
	return &auditService{auditRepo: auditRepo, logger: log, now: time.Now}
}

func (s *auditService) Log(ctx context.Context, actorID uint, action string, details interface{}) {
	payload, err := json.Marshal(details)
	if err != nil {
		s.logger.Error("failed to encode audit details for "+action, err)
		payload = []byte("null")
	}

	entry := &models.AuditLog{
		Action:    action,
		Details:   datatypes.JSON(payload),
		IPAddress: optionalString(ClientIP(ctx)),
	}
	if actorID != 0 {
		entry.UserID = &actorID
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to write audit log "+action, err)
	}
}

func (s *auditService) Recent(ctx context.Context, limit int) ([]repository.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	entries, err := s.auditRepo.Recent(ctx, limit)
	if err != nil {
		return nil, storeErr(err, "Audit log")
	}
	if entries == nil {
		entries = []repository.AuditEntry{}
	}
	return entries, nil
}

// Prune deletes audit rows older than the retention window.
func (s *auditService) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	deleted, err := s.auditRepo.DeleteBefore(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, storeErr(err, "Audit log")
	}
	return deleted, nil
}
