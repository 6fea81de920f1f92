package handlers

import (
	"trainer_dashboard/internal/auth"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	JSID     string `json:"jsId"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *APIHandler) authActions() actionTable {
	return actionTable{
		"login":           {access: accessPublic, handle: h.login},
		"change-password": {access: accessUser, handle: h.changePassword},
	}
}

func (h *APIHandler) login(c *gin.Context, _ *auth.Claims, body []byte) (gin.H, error) {
	var req loginRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	session, err := h.svc.Auth.Login(c.Request.Context(), req.JSID, req.Password)
	if err != nil {
		return nil, err
	}
	return gin.H{"user": session}, nil
}

// changePassword always applies to the caller's own account.
func (h *APIHandler) changePassword(c *gin.Context, user *auth.Claims, body []byte) (gin.H, error) {
	var req changePasswordRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if err := h.svc.Auth.ChangePassword(c.Request.Context(), user.UserID, req.NewPassword); err != nil {
		return nil, err
	}
	return gin.H{}, nil
}
