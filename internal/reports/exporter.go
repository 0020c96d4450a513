package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Exporter renders report rows as downloadable files.
type Exporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type exporter struct{}

func NewExporter() Exporter {
	return &exporter{}
}

func (e *exporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case ReportTypeLinesByGroup:
		return e.exportLinesByGroup(format, timestamp, data.LinesByGroup)
	case ReportTypeExpiringGroups:
		return e.exportExpiringGroups(format, timestamp, data.ExpiringGroups)
	case ReportTypeWorkerDelays:
		return e.exportWorkerDelays(format, timestamp, data.WorkerDelays)
	case ReportTypeAssignmentHistory:
		return e.exportAssignmentHistory(format, timestamp, data.AssignmentHistory)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

// ============================
// Lines by group
// ============================

func (e *exporter) exportLinesByGroup(format, timestamp string, rows []LinesByGroupRow) ([]byte, string, string, error) {
	headers := []string{"Group ID", "Group Name", "Operator", "Type", "Lines", "Capacity"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.FormatUint(uint64(r.GroupID), 10),
			r.GroupName,
			r.OperatorName,
			r.GroupType,
			strconv.Itoa(r.LinesCount),
			strconv.Itoa(r.MaxLinesCount),
		})
	}
	widths := []float64{20, 55, 40, 35, 20, 20}
	return e.render(format, "lines_by_group_report_"+timestamp, "Lines By Group", headers, records, widths)
}

// ============================
// Expiring groups
// ============================

func (e *exporter) exportExpiringGroups(format, timestamp string, rows []ExpiringGroupRow) ([]byte, string, string, error) {
	headers := []string{"Group ID", "Group Name", "Operator", "Validity Date", "Days Remaining"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.FormatUint(uint64(r.GroupID), 10),
			r.GroupName,
			r.OperatorName,
			r.ValidityDate.Format("2006-01-02"),
			strconv.Itoa(r.DaysRemaining),
		})
	}
	widths := []float64{20, 60, 40, 35, 30}
	return e.render(format, "expiring_groups_report_"+timestamp, "Expiring Groups", headers, records, widths)
}

// ============================
// Worker delays
// ============================

func (e *exporter) exportWorkerDelays(format, timestamp string, rows []WorkerDelayRow) ([]byte, string, string, error) {
	headers := []string{"Worker ID", "Worker Name", "Overdue Lines", "Oldest Expected", "Max Days Overdue"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		oldest := ""
		if r.OldestExpected != nil {
			oldest = r.OldestExpected.Format("2006-01-02")
		}
		records = append(records, []string{
			strconv.FormatUint(uint64(r.WorkerID), 10),
			r.WorkerName,
			strconv.Itoa(r.OverdueCount),
			oldest,
			strconv.Itoa(r.MaxDaysOverdue),
		})
	}
	widths := []float64{22, 60, 30, 35, 35}
	return e.render(format, "worker_delays_report_"+timestamp, "Worker Delays", headers, records, widths)
}

// ============================
// Assignment history
// ============================

func (e *exporter) exportAssignmentHistory(format, timestamp string, rows []AssignmentHistoryRow) ([]byte, string, string, error) {
	headers := []string{"ID", "Phone", "Group", "Worker", "Assigned At", "Expected Return", "Returned At", "Status"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		expected := ""
		if r.ExpectedReturnDate != nil {
			expected = r.ExpectedReturnDate.Format("2006-01-02")
		}
		returned := ""
		if r.ReturnedAt != nil {
			returned = r.ReturnedAt.Format("2006-01-02 15:04:05")
		}
		records = append(records, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.PhoneNumber,
			r.GroupName,
			r.WorkerName,
			r.AssignedAt.Format("2006-01-02 15:04:05"),
			expected,
			returned,
			r.Status,
		})
	}
	widths := []float64{15, 32, 42, 42, 38, 32, 38, 24}
	return e.render(format, "assignment_history_report_"+timestamp, "Assignment History", headers, records, widths)
}

// ============================
// Format renderers
// ============================

func (e *exporter) render(format, basename, title string, headers []string, records [][]string, pdfWidths []float64) ([]byte, string, string, error) {
	switch format {
	case FormatCSV, "":
		data, err := renderCSV(headers, records)
		if err != nil {
			return nil, "", "", err
		}
		return data, basename + ".csv", "text/csv", nil

	case FormatExcel:
		data, err := renderExcel(title, headers, records)
		if err != nil {
			return nil, "", "", err
		}
		return data, basename + ".xlsx", excelContentType, nil

	case FormatPDF:
		data, err := renderPDF(title, headers, records, pdfWidths)
		if err != nil {
			return nil, "", "", err
		}
		return data, basename + ".pdf", "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

func renderCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, err
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderExcel(sheet string, headers []string, records [][]string) ([]byte, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, record := range records {
		for cIdx, value := range record {
			cell, err := excelize.CoordinatesToCellName(cIdx+1, rIdx+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(title string, headers []string, records [][]string, widths []float64) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, title+" Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, record := range records {
		for i, value := range record {
			pdf.CellFormat(widths[i], 6, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
