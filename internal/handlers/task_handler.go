package handlers

import (
	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/auth"
	"trainer_dashboard/internal/daterange"
	"trainer_dashboard/internal/services"

	"github.com/gin-gonic/gin"
)

type userTasksRequest struct {
	UserID *uint  `json:"userId"`
	Date   string `json:"date"`
}

type addTaskRequest struct {
	services.TaskInput
}

type updateTaskRequest struct {
	TaskID uint `json:"taskId"`
	services.TaskInput
}

type taskIDRequest struct {
	TaskID uint `json:"taskId"`
}

type todayHoursRequest struct {
	UserID           *uint  `json:"userId"`
	Date             string `json:"date"`
	UTCOffsetMinutes *int   `json:"utcOffsetMinutes"`
}

type raiseQueryRequest struct {
	TaskID uint   `json:"taskId"`
	Query  string `json:"query"`
}

type respondQueryRequest struct {
	TaskID   uint   `json:"taskId"`
	Response string `json:"response"`
}

func (h *APIHandler) taskActions() actionTable {
	return actionTable{
		"get-user-tasks":  {access: accessUser, handle: h.getUserTasks},
		"add":             {access: accessUser, handle: h.addTask},
		"update":          {access: accessUser, handle: h.updateTask},
		"delete":          {access: accessUser, handle: h.deleteTask},
		"get-today-hours": {access: accessUser, handle: h.getTodayHours},
		"raise-query":     {access: accessAdmin, handle: h.raiseQuery},
		"respond-query":   {access: accessUser, handle: h.respondQuery},
	}
}

func (h *APIHandler) getUserTasks(c *gin.Context, user *auth.Claims, body []byte) (gin.H, error) {
	var req userTasksRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	userID, err := targetUser(user, req.UserID)
	if err != nil {
		return nil, err
	}
	tasks, err := h.svc.Tasks.UserTasks(c.Request.Context(), userID, req.Date)
	if err != nil {
		return nil, err
	}
	return gin.H{"tasks": tasks}, nil
}

// addTask always creates the task for the caller.
func (h *APIHandler) addTask(c *gin.Context, user *auth.Claims, body []byte) (gin.H, error) {
	var req addTaskRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	taskID, err := h.svc.Tasks.Create(c.Request.Context(), user.UserID, req.TaskInput)
	if err != nil {
		return nil, err
	}
	return gin.H{"taskId": taskID}, nil
}

func (h *APIHandler) updateTask(c *gin.Context, user *auth.Claims, body []byte) (gin.H, error) {
	var req updateTaskRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.TaskID == 0 {
		return nil, apperr.Validation("taskId is required")
	}
	if err := h.svc.Tasks.Update(c.Request.Context(), req.TaskID, user.UserID, req.TaskInput); err != nil {
		return nil, err
	}
	return gin.H{}, nil
}

func (h *APIHandler) deleteTask(c *gin.Context, user *auth.Claims, body []byte) (gin.H, error) {
	var req taskIDRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.TaskID == 0 {
		return nil, apperr.Validation("taskId is required")
	}
	if err := h.svc.Tasks.Delete(c.Request.Context(), req.TaskID, user.UserID); err != nil {
		return nil, err
	}
	return gin.H{}, nil
}

func (h *APIHandler) getTodayHours(c *gin.Context, user *auth.Claims, body []byte) (gin.H, error) {
	var req todayHoursRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	userID, err := targetUser(user, req.UserID)
	if err != nil {
		return nil, err
	}
	date := req.Date
	if date == "" {
		date = daterange.Today(h.callerNow(req.UTCOffsetMinutes))
	}
	hours, err := h.svc.Aggregates.DailyHoursForUser(c.Request.Context(), userID, date)
	if err != nil {
		return nil, err
	}
	status, err := h.svc.Aggregates.DailyStatusForUser(c.Request.Context(), userID, date)
	if err != nil {
		return nil, err
	}
	return gin.H{"hours": hours, "date": date, "status": status}, nil
}

func (h *APIHandler) raiseQuery(c *gin.Context, user *auth.Claims, body []byte) (gin.H, error) {
	var req raiseQueryRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.TaskID == 0 {
		return nil, apperr.Validation("taskId is required")
	}
	if err := h.svc.Tasks.RaiseQuery(c.Request.Context(), user.UserID, req.TaskID, req.Query); err != nil {
		return nil, err
	}
	return gin.H{}, nil
}

func (h *APIHandler) respondQuery(c *gin.Context, user *auth.Claims, body []byte) (gin.H, error) {
	var req respondQueryRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.TaskID == 0 {
		return nil, apperr.Validation("taskId is required")
	}
	if err := h.svc.Tasks.RespondQuery(c.Request.Context(), req.TaskID, user.UserID, req.Response); err != nil {
		return nil, err
	}
	return gin.H{}, nil
}
