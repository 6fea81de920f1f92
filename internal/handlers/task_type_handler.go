package handlers

import (
	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/auth"

	"github.com/gin-gonic/gin"
)

type taskTypeRequest struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (h *APIHandler) taskTypeActions() actionTable {
	return actionTable{
		"get":    {access: accessUser, handle: h.listTaskTypes},
		"add":    {access: accessAdmin, handle: h.addTaskType},
		"update": {access: accessAdmin, handle: h.updateTaskType},
		"delete": {access: accessAdmin, handle: h.deleteTaskType},
	}
}

func (h *APIHandler) listTaskTypes(c *gin.Context, _ *auth.Claims, _ []byte) (gin.H, error) {
	types, err := h.svc.TaskTypes.List(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return gin.H{"types": types}, nil
}

func (h *APIHandler) addTaskType(c *gin.Context, admin *auth.Claims, body []byte) (gin.H, error) {
	var req taskTypeRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	taskType, err := h.svc.TaskTypes.Add(c.Request.Context(), admin.UserID, req.Name)
	if err != nil {
		return nil, err
	}
	return gin.H{"type": taskType}, nil
}

func (h *APIHandler) updateTaskType(c *gin.Context, admin *auth.Claims, body []byte) (gin.H, error) {
	var req taskTypeRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.ID == 0 {
		return nil, apperr.Validation("id is required")
	}
	if err := h.svc.TaskTypes.Update(c.Request.Context(), admin.UserID, req.ID, req.Name); err != nil {
		return nil, err
	}
	return gin.H{}, nil
}

func (h *APIHandler) deleteTaskType(c *gin.Context, admin *auth.Claims, body []byte) (gin.H, error) {
	var req taskTypeRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.ID == 0 {
		return nil, apperr.Validation("id is required")
	}
	if err := h.svc.TaskTypes.Delete(c.Request.Context(), admin.UserID, req.ID); err != nil {
		return nil, err
	}
	return gin.H{}, nil
}
