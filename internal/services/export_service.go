package services

import (
	"context"
	"fmt"
	"time"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/daterange"
	"trainer_dashboard/internal/repository"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

type ExportService interface {
	// Rows returns task-level rows between start and end inclusive. Both are required.
	Rows(ctx context.Context, start, end string) ([]repository.ExportRow, error)
}

type exportService struct {
	aggRepo repository.AggregateRepository
}

func NewExportService(aggRepo repository.AggregateRepository) ExportService {
	return &exportService{aggRepo: aggRepo}
}

func (s *exportService) Rows(ctx context.Context, start, end string) ([]repository.ExportRow, error) {
	dr, err := daterange.Resolve(daterange.KindCustom, start, end, time.Time{})
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	rows, err := s.aggRepo.TaskExportRows(ctx, dr)
	if err != nil {
		return nil, storeErr(err, "Task")
	}
	if rows == nil {
		rows = []repository.ExportRow{}
	}
	return rows, nil
}

// ExportFileName names the download for a date range.
func ExportFileName(start, end, format string) string {
	return fmt.Sprintf("tasks_%s_%s.%s", start, end, format)
}
