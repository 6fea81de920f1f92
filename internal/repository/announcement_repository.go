package repository

import (
	"context"

	"trainer_dashboard/internal/models"

	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	// Create writes the announcement and its recipient rows in one transaction.
	Create(ctx context.Context, announcement *models.Announcement, recipientIDs []uint) error
	// ListForUser returns global announcements plus those addressed to userID.
	ListForUser(ctx context.Context, userID uint, limit int) ([]models.Announcement, error)
	ListRecent(ctx context.Context, limit int) ([]models.Announcement, error)
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement, recipientIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Recipients").Create(announcement).Error; err != nil {
			return err
		}
		if len(recipientIDs) == 0 {
			return nil
		}
		recipients := make([]models.AnnouncementRecipient, 0, len(recipientIDs))
		for _, id := range recipientIDs {
			recipients = append(recipients, models.AnnouncementRecipient{
				AnnouncementID: announcement.ID,
				UserID:         id,
			})
		}
		return tx.Omit("User").Create(&recipients).Error
	})
}

func (r *announcementRepository) ListForUser(ctx context.Context, userID uint, limit int) ([]models.Announcement, error) {
	var announcements []models.Announcement
	recipient := r.db.Model(&models.AnnouncementRecipient{}).
		Select("announcement_id").
		Where("user_id = ?", userID)
	err := r.db.WithContext(ctx).
		Where("is_global = ? OR id IN (?)", true, recipient).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&announcements).Error
	return announcements, err
}

func (r *announcementRepository) ListRecent(ctx context.Context, limit int) ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&announcements).Error
	return announcements, err
}
