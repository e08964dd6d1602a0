package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/xuri/excelize/v2"
)

var operationLogColumns = []string{
	"ID", "Time", "Operator", "Role", "Module", "Action", "Description",
	"Method", "URL", "IP", "Client", "Status", "Error", "Duration (ms)",
}

// ExportService renders operation logs as spreadsheets
type ExportService struct {
	logs *OperationLogService
}

func NewExportService(logs *OperationLogService) *ExportService {
	return &ExportService{logs: logs}
}

// OperationLogsXLSX writes the entries matching q to a single-sheet workbook
func (s *ExportService) OperationLogsXLSX(ctx context.Context, q LogSearch) ([]byte, string, error) {
	entries, err := s.logs.exportRows(ctx, q)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Operation Log"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, title := range operationLogColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(operationLogColumns), 1)
	_ = f.SetCellStyle(sheet, "A1", lastHeader, headerStyle)

	for r, e := range entries {
		status := "success"
		if !e.Succeeded() {
			status = "failure"
		}
		row := []any{
			e.ID, e.CreatedAt.Format(time.DateTime), e.OperatorName, e.Role, e.Module, e.Action, e.Description,
			e.RequestMethod, e.RequestURL, e.IPAddress, models.ClientSummary(e.UserAgent), status, e.ErrorMsg, e.Duration,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, "", fmt.Errorf("write row %d: %w", r+2, err)
		}
	}
	_ = f.SetColWidth(sheet, "B", "B", 20)
	_ = f.SetColWidth(sheet, "G", "G", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("operation_log_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
