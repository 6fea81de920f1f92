// Package export renders task rows as downloadable spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"trainer_dashboard/internal/repository"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName       = "Tasks"
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Headers are the column names of every export, in order.
var Headers = []string{
	"date", "trainer_name", "js_id", "task_type", "custom_task_name", "hours", "start_time", "end_time",
}

func record(row repository.ExportRow) []string {
	return []string{
		row.Date,
		cell(row.TrainerName),
		cell(row.JSID),
		cell(row.TaskType),
		cell(deref(row.CustomTaskName)),
		strconv.FormatFloat(row.Hours, 'f', -1, 64),
		deref(row.StartTime),
		deref(row.EndTime),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// cell quotes free text that a spreadsheet would otherwise evaluate as a formula.
func cell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// WriteCSV writes a header row followed by one record per row.
func WriteCSV(w io.Writer, rows []repository.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(record(row)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, rows []repository.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}

	for i, header := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(SheetName, 1, 1, headerStyle)
	}

	for rowIndex, row := range rows {
		values := []interface{}{
			row.Date,
			cell(row.TrainerName),
			cell(row.JSID),
			cell(row.TaskType),
			cell(deref(row.CustomTaskName)),
			row.Hours,
			deref(row.StartTime),
			deref(row.EndTime),
		}
		for colIndex, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			f.SetCellValue(SheetName, cell, value)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(Headers))
	f.SetColWidth(SheetName, "A", lastCol, 18)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing Excel file: %w", err)
	}
	return nil
}
