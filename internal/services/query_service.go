package services

import (
	"context"
	"strings"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/models"
	"trainer_dashboard/internal/repository"
)

// QueryService carries general questions from admins to trainers, outside any task.
type QueryService interface {
	Send(ctx context.Context, adminID, userID uint, text string) (*models.UserQuery, error)
	ForUser(ctx context.Context, userID uint) ([]models.UserQuery, error)
	// Dismiss marks a query resolved. Only the addressed user may dismiss it.
	Dismiss(ctx context.Context, queryID, userID uint) error
}

type queryService struct {
	queryRepo repository.QueryRepository
	userRepo  repository.UserRepository
	audit     AuditLogger
}

func NewQueryService(queryRepo repository.QueryRepository, userRepo repository.UserRepository, audit AuditLogger) QueryService {
	return &queryService{queryRepo: queryRepo, userRepo: userRepo, audit: audit}
}

func (s *queryService) Send(ctx context.Context, adminID, userID uint, text string) (*models.UserQuery, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("query is required")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, storeErr(err, "User")
	}

	query := &models.UserQuery{UserID: userID, AdminID: adminID, QueryText: text}
	if err := s.queryRepo.Create(ctx, query); err != nil {
		return nil, storeErr(err, "Query")
	}
	s.audit.Log(ctx, adminID, "SEND_QUERY", map[string]interface{}{"userId": userID})
	return query, nil
}

func (s *queryService) ForUser(ctx context.Context, userID uint) ([]models.UserQuery, error) {
	queries, err := s.queryRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "Query")
	}
	if queries == nil {
		queries = []models.UserQuery{}
	}
	return queries, nil
}

func (s *queryService) Dismiss(ctx context.Context, queryID, userID uint) error {
	query, err := s.queryRepo.GetByID(ctx, queryID)
	if err != nil {
		return storeErr(err, "Query")
	}
	if query.UserID != userID {
		return apperr.Authorization("Unauthorized")
	}
	if err := s.queryRepo.MarkResolved(ctx, queryID); err != nil {
		return storeErr(err, "Query")
	}
	return nil
}
