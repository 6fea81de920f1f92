package handlers

import (
	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/auth"

	"github.com/gin-gonic/gin"
)

type trainerTasksRequest struct {
	TrainerID        uint   `json:"trainerId"`
	DateRange        string `json:"dateRange"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	UTCOffsetMinutes *int   `json:"utcOffsetMinutes"`
}

func (h *APIHandler) reportActions() actionTable {
	return actionTable{
		"trainer-tasks": {access: accessAdmin, handle: h.trainerTasks},
	}
}

func (h *APIHandler) trainerTasks(c *gin.Context, _ *auth.Claims, body []byte) (gin.H, error) {
	var req trainerTasksRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.TrainerID == 0 {
		return nil, apperr.Validation("trainerId is required")
	}
	report, err := h.svc.Aggregates.TrainerReport(
		c.Request.Context(),
		req.TrainerID,
		req.DateRange,
		req.StartDate,
		req.EndDate,
		h.callerNow(req.UTCOffsetMinutes),
	)
	if err != nil {
		return nil, err
	}
	return gin.H{"tasks": report.Tasks, "stats": report.Stats, "range": report.Range}, nil
}
