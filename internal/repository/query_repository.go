package repository

import (
	"context"

	"trainer_dashboard/internal/models"

	"gorm.io/gorm"
)

type QueryRepository interface {
	Create(ctx context.Context, query *models.UserQuery) error
	GetByID(ctx context.Context, id uint) (*models.UserQuery, error)
	GetByUser(ctx context.Context, userID uint) ([]models.UserQuery, error)
	MarkResolved(ctx context.Context, id uint) error
}

type queryRepository struct {
	db *gorm.DB
}

func NewQueryRepository(db *gorm.DB) QueryRepository {
	return &queryRepository{db: db}
}

func (r *queryRepository) Create(ctx context.Context, query *models.UserQuery) error {
	return r.db.WithContext(ctx).Omit("User").Create(query).Error
}

func (r *queryRepository) GetByID(ctx context.Context, id uint) (*models.UserQuery, error) {
	var query models.UserQuery
	err := r.db.WithContext(ctx).First(&query, id).Error
	if err != nil {
		return nil, err
	}
	return &query, nil
}

func (r *queryRepository) GetByUser(ctx context.Context, userID uint) ([]models.UserQuery, error) {
	var queries []models.UserQuery
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&queries).Error
	return queries, err
}

func (r *queryRepository) MarkResolved(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.UserQuery{}).Where("id = ?", id).Update("is_resolved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
