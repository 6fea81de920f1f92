package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"trainer_dashboard/internal/auth"
	"trainer_dashboard/internal/services"

	"github.com/gin-gonic/gin"
)

// recipientList accepts ids as JSON numbers or strings, plus the literal "all".
type recipientList []string

func (r *recipientList) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		switch value := v.(type) {
		case string:
			out = append(out, value)
		case float64:
			out = append(out, strconv.FormatFloat(value, 'f', -1, 64))
		default:
			return fmt.Errorf("invalid recipient %v", v)
		}
	}
	*r = out
	return nil
}

type listAnnouncementsRequest struct {
	UserID *uint `json:"userId"`
}

type createAnnouncementRequest struct {
	Message      string        `json:"message"`
	IsUrgent     bool          `json:"isUrgent"`
	RecipientIDs recipientList `json:"recipientIds"`
}

func (h *APIHandler) announcementActions() actionTable {
	return actionTable{
		"get":    {access: accessUser, handle: h.listAnnouncements},
		"create": {access: accessAdmin, handle: h.createAnnouncement},
	}
}

// listAnnouncements gives trainers their own feed. Admins get a user's feed
// when userId is sent, the latest announcements otherwise.
func (h *APIHandler) listAnnouncements(c *gin.Context, user *auth.Claims, body []byte) (gin.H, error) {
	var req listAnnouncementsRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	feedFor := req.UserID
	if !user.IsAdmin() {
		feedFor = &user.UserID
	}
	announcements, err := h.svc.Announcements.List(c.Request.Context(), feedFor)
	if err != nil {
		return nil, err
	}
	return gin.H{"announcements": announcements}, nil
}

func (h *APIHandler) createAnnouncement(c *gin.Context, admin *auth.Claims, body []byte) (gin.H, error) {
	var req createAnnouncementRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	announcement, err := h.svc.Announcements.Create(c.Request.Context(), admin.UserID, services.AnnouncementInput{
		Message:      req.Message,
		IsUrgent:     req.IsUrgent,
		RecipientIDs: req.RecipientIDs,
	})
	if err != nil {
		return nil, err
	}
	return gin.H{"announcement": announcement}, nil
}
