package services

import (
	"context"
	"errors"
	"strings"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/auth"
	"trainer_dashboard/internal/cache"
	"trainer_dashboard/internal/logger"
	"trainer_dashboard/internal/models"
	"trainer_dashboard/internal/repository"

	"gorm.io/gorm"
)

type ProfileInput struct {
	Name string `json:"name" validate:"required,max=255"`
	JSID string `json:"jsId" validate:"required,max=64"`
}

type UserService interface {
	ListTrainers(ctx context.Context) ([]models.User, error)
	AddTrainer(ctx context.Context, actorID uint, in ProfileInput) (*models.User, error)
	UpdateUser(ctx context.Context, actorID, userID uint, in ProfileInput) error
	DeleteUser(ctx context.Context, actorID, userID uint) error
	ResetPassword(ctx context.Context, actorID, userID uint) error
}

type userService struct {
	userRepo        repository.UserRepository
	audit           AuditLogger
	cache           cache.Cache
	logger          logger.Interface
	defaultPassword string
}

func NewUserService(
	userRepo repository.UserRepository,
	audit AuditLogger,
	c cache.Cache,
	log logger.Interface,
	defaultPassword string,
) UserService {
	return &userService{
		userRepo:        userRepo,
		audit:           audit,
		cache:           c,
		logger:          log,
		defaultPassword: defaultPassword,
	}
}

func (s *userService) ListTrainers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetByRole(ctx, string(models.RoleTrainer))
	if err != nil {
		return nil, storeErr(err, "User")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *userService) AddTrainer(ctx context.Context, actorID uint, in ProfileInput) (*models.User, error) {
	in = trimProfile(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.ensureJSIDFree(ctx, in.JSID, 0); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(s.defaultPassword)
	if err != nil {
		return nil, apperr.Store("failed to hash password", err)
	}

	user := &models.User{
		Name:               in.Name,
		JSID:               in.JSID,
		PasswordHash:       hash,
		Role:               string(models.RoleTrainer),
		MustChangePassword: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("JS ID already exists")
		}
		return nil, storeErr(err, "User")
	}

	s.audit.Log(ctx, actorID, "ADD_TRAINER", map[string]interface{}{"name": in.Name, "jsId": in.JSID})
	bumpGeneration(ctx, s.cache, s.logger)
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, actorID, userID uint, in ProfileInput) error {
	in = trimProfile(in)
	if err := validateStruct(in); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return storeErr(err, "User")
	}
	if err := s.ensureJSIDFree(ctx, in.JSID, userID); err != nil {
		return err
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, in.Name, in.JSID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("JS ID already exists")
		}
		return storeErr(err, "User")
	}

	s.audit.Log(ctx, actorID, "UPDATE_TRAINER", map[string]interface{}{
		"userId": userID,
		"name":   in.Name,
		"jsId":   in.JSID,
	})
	bumpGeneration(ctx, s.cache, s.logger)
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID, userID uint) error {
	if actorID == userID {
		return apperr.Validation("You cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return storeErr(err, "User")
	}

	s.audit.Log(ctx, actorID, "DELETE_TRAINER", map[string]interface{}{"userId": userID})
	bumpGeneration(ctx, s.cache, s.logger)
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, actorID, userID uint) error {
	hash, err := auth.HashPassword(s.defaultPassword)
	if err != nil {
		return apperr.Store("failed to hash password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash, true); err != nil {
		return storeErr(err, "User")
	}

	s.audit.Log(ctx, actorID, "RESET_PASSWORD", map[string]interface{}{"userId": userID})
	return nil
}

// ensureJSIDFree rejects a js id already held by a user other than ownerID, ignoring case.
func (s *userService) ensureJSIDFree(ctx context.Context, jsID string, ownerID uint) error {
	existing, err := s.userRepo.GetByJSID(ctx, jsID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return storeErr(err, "User")
	}
	if existing.ID != ownerID {
		return apperr.Conflict("JS ID already exists")
	}
	return nil
}

func trimProfile(in ProfileInput) ProfileInput {
	return ProfileInput{Name: strings.TrimSpace(in.Name), JSID: strings.TrimSpace(in.JSID)}
}
