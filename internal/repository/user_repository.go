package repository

import (
	"context"

	"trainer_dashboard/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByJSID(ctx context.Context, jsID string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	GetByRole(ctx context.Context, role string) ([]models.User, error)
	UpdateProfile(ctx context.Context, id uint, name, jsID string) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string, mustChange bool) error
	// Delete removes the user together with everything that references them.
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByJSID(ctx context.Context, jsID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("js_id_key = ?", models.NormalizeJSID(jsID)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) GetByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("name ASC").Order("id ASC").Find(&users).Error
	return users, err
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint, name, jsID string) error {
	// Map updates skip the BeforeSave hook, so the key is set here.
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":      name,
		"js_id":     jsID,
		"js_id_key": models.NormalizeJSID(jsID),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string, mustChange bool) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash":        passwordHash,
		"must_change_password": mustChange,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []uint
		if err := tx.Model(&models.Task{}).Where("user_id = ?", id).Pluck("id", &owned).Error; err != nil {
			return err
		}
		if len(owned) > 0 {
			if err := tx.Where("task_id IN ?", owned).Delete(&models.TaskCollaborator{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.TaskCollaborator{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.AnnouncementRecipient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserQuery{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.AuditLog{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
