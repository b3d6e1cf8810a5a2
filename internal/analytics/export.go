package analytics

import (
	"context"
	"fmt"
	"io"

	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/xuri/excelize/v2"
)

const (
	registerSheet = "Leave Register"
	XLSXMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var registerHeader = []interface{}{
	"Request ID", "Employee ID", "Employee", "Department", "Category",
	"Start Date", "End Date", "Days", "LOP Days", "Status",
	"Approver", "Applied On", "Comments",
}

// ExportRegister writes every request starting in year as an XLSX workbook.
func (s *Service) ExportRegister(ctx context.Context, year int, w io.Writer) error {
	year, err := s.resolveYear(year)
	if err != nil {
		return err
	}
	from, to := leave.YearBounds(year)

	rows, err := s.repo.Register(ctx, from, to)
	if err != nil {
		s.logger.Error("failed to load leave register", "year", year, "error", err)
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), registerSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(registerSheet, "A1", &registerHeader); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(registerHeader))
	if err := f.SetCellStyle(registerSheet, "A1", lastCol+"1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(registerSheet, "A", lastCol, 16); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.RequestID,
			row.EmployeeID,
			row.EmployeeName,
			row.Department,
			row.CategoryName,
			row.StartDate.Format(leave.DateLayout),
			row.EndDate.Format(leave.DateLayout),
			row.Days,
			row.LOPDays,
			row.Status,
			row.ApproverName,
			row.AppliedDate.Format(leave.DateLayout),
			row.Comments,
		}
		if err := f.SetSheetRow(registerSheet, cell, &values); err != nil {
			return fmt.Errorf("write register row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("leave register exported", "year", year, "rows", len(rows))
	return nil
}
