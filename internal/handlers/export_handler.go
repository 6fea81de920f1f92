package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/auth"
	"trainer_dashboard/internal/export"
	"trainer_dashboard/internal/services"

	"github.com/gin-gonic/gin"
)

type exportRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Format    string `json:"format"`
}

func (h *APIHandler) exportActions() actionTable {
	return actionTable{
		"export": {access: accessAdmin, handle: h.exportTasks},
	}
}

func (h *APIHandler) exportTasks(c *gin.Context, _ *auth.Claims, body []byte) (gin.H, error) {
	var req exportRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	format := strings.ToLower(req.Format)
	if format == "" {
		format = services.FormatJSON
	}
	if format != services.FormatJSON && format != services.FormatCSV && format != services.FormatXLSX {
		return nil, apperr.Validation("format must be one of json, csv, xlsx")
	}

	rows, err := h.svc.Export.Rows(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if format == services.FormatJSON {
		return gin.H{"data": rows}, nil
	}

	var buf bytes.Buffer
	contentType := export.ContentTypeCSV
	if format == services.FormatCSV {
		err = export.WriteCSV(&buf, rows)
	} else {
		contentType = export.ContentTypeXLSX
		err = export.WriteXLSX(&buf, rows)
	}
	if err != nil {
		return nil, apperr.Store("failed to render export", err)
	}

	filename := services.ExportFileName(req.StartDate, req.EndDate, format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
	return nil, nil
}
