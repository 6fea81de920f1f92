package services

import (
	"context"
	"errors"
	"strings"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/auth"
	"trainer_dashboard/internal/models"
	"trainer_dashboard/internal/repository"

	"gorm.io/gorm"
)

const minPasswordLength = 6

// SessionUser is the login payload: the user without secrets, plus a bearer token.
type SessionUser struct {
	models.User
	Token string `json:"token"`
}

type AuthService interface {
	Login(ctx context.Context, jsID, password string) (*SessionUser, error)
	ChangePassword(ctx context.Context, userID uint, newPassword string) error
	VerifyToken(token string) (*auth.Claims, error)
}

type authService struct {
	userRepo repository.UserRepository
	issuer   *auth.Issuer
	audit    AuditLogger
}

func NewAuthService(userRepo repository.UserRepository, issuer *auth.Issuer, audit AuditLogger) AuthService {
	return &authService{userRepo: userRepo, issuer: issuer, audit: audit}
}

func (s *authService) Login(ctx context.Context, jsID, password string) (*SessionUser, error) {
	if strings.TrimSpace(jsID) == "" || password == "" {
		return nil, apperr.Validation("jsId and password are required")
	}

	user, err := s.userRepo.GetByJSID(ctx, jsID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authorization("Invalid credentials")
		}
		return nil, storeErr(err, "User")
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Authorization("Invalid credentials")
	}

	token, err := s.issuer.Issue(user.ID, user.Role, user.Name)
	if err != nil {
		return nil, apperr.Store("failed to issue token", err)
	}
	return &SessionUser{User: *user, Token: token}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperr.Validation("Password must be at least %d characters", minPasswordLength)
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperr.Store("failed to hash password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash, false); err != nil {
		return storeErr(err, "User")
	}
	s.audit.Log(ctx, userID, "CHANGE_PASSWORD", "User changed their own password")
	return nil
}

func (s *authService) VerifyToken(token string) (*auth.Claims, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, apperr.Authorization("Unauthorized: Invalid or missing token")
	}
	return claims, nil
}
