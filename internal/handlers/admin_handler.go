package handlers

import (
	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/auth"
	"trainer_dashboard/internal/daterange"

	"github.com/gin-gonic/gin"
)

type teamPerformanceRequest struct {
	Date             string `json:"date"`
	UTCOffsetMinutes *int   `json:"utcOffsetMinutes"`
}

type teamTrendsRequest struct {
	Days             *int `json:"days"`
	UTCOffsetMinutes *int `json:"utcOffsetMinutes"`
}

type topPerformersRequest struct {
	Period           string `json:"period"`
	UTCOffsetMinutes *int   `json:"utcOffsetMinutes"`
}

type auditLogsRequest struct {
	Limit int `json:"limit"`
}

type sendQueryRequest struct {
	UserID uint   `json:"userId"`
	Query  string `json:"query"`
}

type userQueriesRequest struct {
	UserID *uint `json:"userId"`
}

type dismissQueryRequest struct {
	QueryID uint `json:"queryId"`
}

func (h *APIHandler) adminActions() actionTable {
	return actionTable{
		"team-performance":   {access: accessAdmin, handle: h.teamPerformance},
		"team-trends":        {access: accessAdmin, handle: h.teamTrends},
		"top-performers":     {access: accessAdmin, handle: h.topPerformers},
		"audit-logs":         {access: accessAdmin, handle: h.auditLogs},
		"send-query":         {access: accessAdmin, handle: h.sendQuery},
		"get-user-queries":   {access: accessUser, handle: h.userQueries},
		"dismiss-user-query": {access: accessUser, handle: h.dismissQuery},
	}
}

func (h *APIHandler) teamPerformance(c *gin.Context, _ *auth.Claims, body []byte) (gin.H, error) {
	var req teamPerformanceRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	date := req.Date
	if date == "" {
		date = daterange.Today(h.callerNow(req.UTCOffsetMinutes))
	}
	result, err := h.svc.Aggregates.TeamPerformance(c.Request.Context(), date)
	if err != nil {
		return nil, err
	}
	return gin.H{"performance": result.Performance, "trainers": result.Trainers, "date": date}, nil
}

func (h *APIHandler) teamTrends(c *gin.Context, _ *auth.Claims, body []byte) (gin.H, error) {
	var req teamTrendsRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	trends, err := h.svc.Aggregates.TeamTrends(c.Request.Context(), req.Days, h.callerNow(req.UTCOffsetMinutes))
	if err != nil {
		return nil, err
	}
	return gin.H{"trends": trends}, nil
}

func (h *APIHandler) topPerformers(c *gin.Context, _ *auth.Claims, body []byte) (gin.H, error) {
	var req topPerformersRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	performers, err := h.svc.Aggregates.TopPerformers(c.Request.Context(), req.Period, h.callerNow(req.UTCOffsetMinutes))
	if err != nil {
		return nil, err
	}
	return gin.H{"performers": performers}, nil
}

func (h *APIHandler) auditLogs(c *gin.Context, _ *auth.Claims, body []byte) (gin.H, error) {
	var req auditLogsRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	logs, err := h.svc.Audit.Recent(c.Request.Context(), req.Limit)
	if err != nil {
		return nil, err
	}
	return gin.H{"logs": logs}, nil
}

func (h *APIHandler) sendQuery(c *gin.Context, admin *auth.Claims, body []byte) (gin.H, error) {
	var req sendQueryRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.UserID == 0 {
		return nil, apperr.Validation("userId is required")
	}
	query, err := h.svc.Queries.Send(c.Request.Context(), admin.UserID, req.UserID, req.Query)
	if err != nil {
		return nil, err
	}
	return gin.H{"query": query}, nil
}

func (h *APIHandler) userQueries(c *gin.Context, user *auth.Claims, body []byte) (gin.H, error) {
	var req userQueriesRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	userID, err := targetUser(user, req.UserID)
	if err != nil {
		return nil, err
	}
	queries, err := h.svc.Queries.ForUser(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}
	return gin.H{"queries": queries}, nil
}

func (h *APIHandler) dismissQuery(c *gin.Context, user *auth.Claims, body []byte) (gin.H, error) {
	var req dismissQueryRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.QueryID == 0 {
		return nil, apperr.Validation("queryId is required")
	}
	if err := h.svc.Queries.Dismiss(c.Request.Context(), req.QueryID, user.UserID); err != nil {
		return nil, err
	}
	return gin.H{}, nil
}
