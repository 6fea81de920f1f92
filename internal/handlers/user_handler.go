package handlers

import (
	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/auth"
	"trainer_dashboard/internal/services"

	"github.com/gin-gonic/gin"
)

type addUserRequest struct {
	services.ProfileInput
}

type updateUserRequest struct {
	UserID uint `json:"userId"`
	services.ProfileInput
}

type userIDRequest struct {
	UserID uint `json:"userId"`
}

func (h *APIHandler) userActions() actionTable {
	return actionTable{
		"get-all":        {access: accessAdmin, handle: h.listTrainers},
		"add":            {access: accessAdmin, handle: h.addUser},
		"update":         {access: accessAdmin, handle: h.updateUser},
		"delete":         {access: accessAdmin, handle: h.deleteUser},
		"reset-password": {access: accessAdmin, handle: h.resetPassword},
	}
}

func (h *APIHandler) listTrainers(c *gin.Context, _ *auth.Claims, _ []byte) (gin.H, error) {
	trainers, err := h.svc.Users.ListTrainers(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return gin.H{"trainers": trainers}, nil
}

func (h *APIHandler) addUser(c *gin.Context, admin *auth.Claims, body []byte) (gin.H, error) {
	var req addUserRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	user, err := h.svc.Users.AddTrainer(c.Request.Context(), admin.UserID, req.ProfileInput)
	if err != nil {
		return nil, err
	}
	return gin.H{"user": user}, nil
}

func (h *APIHandler) updateUser(c *gin.Context, admin *auth.Claims, body []byte) (gin.H, error) {
	var req updateUserRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.UserID == 0 {
		return nil, apperr.Validation("userId is required")
	}
	if err := h.svc.Users.UpdateUser(c.Request.Context(), admin.UserID, req.UserID, req.ProfileInput); err != nil {
		return nil, err
	}
	return gin.H{}, nil
}

func (h *APIHandler) deleteUser(c *gin.Context, admin *auth.Claims, body []byte) (gin.H, error) {
	var req userIDRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.UserID == 0 {
		return nil, apperr.Validation("userId is required")
	}
	if err := h.svc.Users.DeleteUser(c.Request.Context(), admin.UserID, req.UserID); err != nil {
		return nil, err
	}
	return gin.H{}, nil
}

func (h *APIHandler) resetPassword(c *gin.Context, admin *auth.Claims, body []byte) (gin.H, error) {
	var req userIDRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.UserID == 0 {
		return nil, apperr.Validation("userId is required")
	}
	if err := h.svc.Users.ResetPassword(c.Request.Context(), admin.UserID, req.UserID); err != nil {
		return nil, err
	}
	return gin.H{}, nil
}
