package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const payrollSheet = "Payroll"

var payrollHeader = []interface{}{
	"Worker", "Role", "Payment type", "Commission rate (%)", "Services performed", "Month earnings", "Lifetime earnings",
}

// ReportService renders spreadsheets for the back office
type ReportService struct {
	payroll *PayrollService
	log     *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(payroll *PayrollService, log *zap.Logger) *ReportService {
	return &ReportService{payroll: payroll, log: log}
}

// Report is a rendered file ready to download
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportPayroll builds a workbook of every worker's earnings for the
// calendar month containing month, with a total row.
func (s *ReportService) ExportPayroll(ctx context.Context, month time.Time) (*Report, error) {
	summary, err := s.payroll.MonthlySummary(ctx, month)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.log.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	data, err := writePayrollSheet(f, summary)
	if err != nil {
		s.log.Error("Failed to render payroll workbook", zap.String("month", summary.Month), zap.Error(err))
		return nil, apperror.Wrap(err, "Failed to render payroll report")
	}

	return &Report{
		Filename:    fmt.Sprintf("payroll-%s.xlsx", summary.Month),
		ContentType: xlsxContentType,
		Data:        data,
	}, nil
}

func writePayrollSheet(f *excelize.File, summary *PayrollSummary) ([]byte, error) {
	if err := f.SetSheetName("Sheet1", payrollSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}

	if err := f.SetCellValue(payrollSheet, "A1", "Payroll "+summary.Month); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(payrollSheet, "A3", &payrollHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(payrollSheet, "A1", "G3", bold); err != nil {
		return nil, err
	}

	row := 4
	for _, w := range summary.Workers {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			w.Worker.Name,
			w.Worker.Role,
			string(w.Worker.PaymentType),
			w.Worker.CommissionRate,
			w.ServicesPerformed,
			w.CurrentMonthEarnings,
			w.TotalEarnings,
		}
		if err := f.SetSheetRow(payrollSheet, cell, &values); err != nil {
			return nil, err
		}
		row++
	}

	totalLabel, _ := excelize.CoordinatesToCellName(1, row)
	totalCell, _ := excelize.CoordinatesToCellName(6, row)
	if err := f.SetCellValue(payrollSheet, totalLabel, "Total"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(payrollSheet, totalCell, summary.TotalPayroll); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(payrollSheet, totalLabel, totalCell, bold); err != nil {
		return nil, err
	}

	lastAmount, _ := excelize.CoordinatesToCellName(7, row)
	if err := f.SetCellStyle(payrollSheet, "F4", lastAmount, amount); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(payrollSheet, "A", "A", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(payrollSheet, "B", "G", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
