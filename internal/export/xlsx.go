// Package export renders backend log exports into spreadsheet downloads.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"admin-dashboard/internal/models"
)

const LogsSheet = "Logs"

var logHeaders = []string{"id", "created_at", "level", "module", "function", "message"}

// WriteLogsXLSX writes one header row and one row per entry to w.
func WriteLogsXLSX(w io.Writer, logs []models.LogEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LogsSheet); err != nil {
		return err
	}

	for i, h := range logHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(LogsSheet, cell, h); err != nil {
			return err
		}
	}

	for r, entry := range logs {
		row := []any{entry.ID, entry.CreatedAt, entry.Level, entry.Module, entry.Function, entry.Message}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(LogsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := f.SetPanes(LogsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	if err := f.SetColWidth(LogsSheet, "F", "F", 80); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}
