package services

import (
	"context"
	"strconv"
	"strings"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/models"
	"trainer_dashboard/internal/repository"
)

const (
	userFeedLimit   = 5
	adminFeedLimit  = 20
	allRecipientsID = "all"
)

type AnnouncementInput struct {
	Message      string   `json:"message" validate:"required"`
	IsUrgent     bool     `json:"isUrgent"`
	RecipientIDs []string `json:"recipientIds"`
}

type AnnouncementService interface {
	// List returns the feed of userID, or the latest announcements overall when userID is nil.
	List(ctx context.Context, userID *uint) ([]models.Announcement, error)
	Create(ctx context.Context, actorID uint, in AnnouncementInput) (*models.Announcement, error)
}

type announcementService struct {
	announcementRepo repository.AnnouncementRepository
	userRepo         repository.UserRepository
	audit            AuditLogger
}

func NewAnnouncementService(
	announcementRepo repository.AnnouncementRepository,
	userRepo repository.UserRepository,
	audit AuditLogger,
) AnnouncementService {
	return &announcementService{announcementRepo: announcementRepo, userRepo: userRepo, audit: audit}
}

func (s *announcementService) List(ctx context.Context, userID *uint) ([]models.Announcement, error) {
	var (
		announcements []models.Announcement
		err           error
	)
	if userID != nil {
		announcements, err = s.announcementRepo.ListForUser(ctx, *userID, userFeedLimit)
	} else {
		announcements, err = s.announcementRepo.ListRecent(ctx, adminFeedLimit)
	}
	if err != nil {
		return nil, storeErr(err, "Announcement")
	}
	if announcements == nil {
		announcements = []models.Announcement{}
	}
	return announcements, nil
}

func (s *announcementService) Create(ctx context.Context, actorID uint, in AnnouncementInput) (*models.Announcement, error) {
	in.Message = strings.TrimSpace(in.Message)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	recipients, global, err := parseRecipients(in.RecipientIDs)
	if err != nil {
		return nil, err
	}
	if !global {
		users, err := s.userRepo.GetByIDs(ctx, recipients)
		if err != nil {
			return nil, storeErr(err, "User")
		}
		if len(users) != len(recipients) {
			return nil, apperr.NotFound("Recipient not found")
		}
	}

	announcement := &models.Announcement{
		Message:  in.Message,
		IsUrgent: in.IsUrgent,
		IsGlobal: global,
	}
	if err := s.announcementRepo.Create(ctx, announcement, recipients); err != nil {
		return nil, storeErr(err, "Announcement")
	}

	s.audit.Log(ctx, actorID, "CREATE_ANNOUNCEMENT", map[string]interface{}{
		"message":    in.Message,
		"is_urgent":  in.IsUrgent,
		"is_global":  global,
		"recipients": len(recipients),
	})
	return announcement, nil
}

// parseRecipients returns distinct user ids, or global when the list is empty or names "all".
func parseRecipients(raw []string) ([]uint, bool, error) {
	if len(raw) == 0 {
		return nil, true, nil
	}
	seen := make(map[uint]bool, len(raw))
	ids := make([]uint, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if strings.EqualFold(r, allRecipientsID) {
			return nil, true, nil
		}
		id, err := strconv.ParseUint(r, 10, 64)
		if err != nil || id == 0 {
			return nil, false, apperr.Validation("Invalid recipient id %q", r)
		}
		if !seen[uint(id)] {
			seen[uint(id)] = true
			ids = append(ids, uint(id))
		}
	}
	return ids, false, nil
}
