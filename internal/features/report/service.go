package report

import (
	"context"
	"fmt"
	"time"

	"go-reqdesk/internal/features/request"
	"go-reqdesk/internal/features/vehicle"

	"github.com/xuri/excelize/v2"
)

// ReportService renders the request register as a spreadsheet for the monthly
// operations review.
type ReportService interface {
	ExportItemRequests(ctx context.Context, status string) ([]byte, string, error)
	ExportVehicleRequests(ctx context.Context, status string) ([]byte, string, error)
}

type ReportServiceImpl struct {
	Requests request.RequestRepository
	Vehicles vehicle.VehicleRepository
}

func NewReportService(requests request.RequestRepository, vehicles vehicle.VehicleRepository) ReportService {
	return &ReportServiceImpl{Requests: requests, Vehicles: vehicles}
}

const exportPageSize = 10000

func (s *ReportServiceImpl) ExportItemRequests(ctx context.Context, status string) ([]byte, string, error) {
	filter := map[string]interface{}{}
	if status != "" {
		filter["status"] = status
	}
	rows, _, err := s.Requests.List(ctx, filter, 1, exportPageSize)
	if err != nil {
		return nil, "", err
	}

	columns := []string{"Reference", "Status", "Priority", "Reason", "Items", "Submitted", "Created"}
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		data = append(data, []interface{}{
			r.ReferenceCode,
			r.Status,
			r.Priority,
			r.Reason,
			len(r.Items),
			formatTime(r.SubmittedAt),
			r.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return buildSheet("Item Requests", columns, data)
}

func (s *ReportServiceImpl) ExportVehicleRequests(ctx context.Context, status string) ([]byte, string, error) {
	filter := map[string]interface{}{}
	if status != "" {
		filter["status"] = status
	}
	rows, _, err := s.Vehicles.List(ctx, filter, 1, exportPageSize)
	if err != nil {
		return nil, "", err
	}

	columns := []string{"Reference", "Status", "Type", "Purpose", "Passengers", "Travel From", "Driver", "Vehicle", "Verification", "Submitted"}
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		data = append(data, []interface{}{
			r.ReferenceCode,
			r.Status,
			string(r.RequestType),
			r.Purpose,
			len(r.Passengers),
			formatTime(r.TravelDateFrom),
			r.AssignedDriver,
			r.AssignedVehicle,
			r.VerificationStatus,
			formatTime(r.SubmittedAt),
		})
	}
	return buildSheet("Vehicle Requests", columns, data)
}

func buildSheet(sheetName string, columns []string, data [][]interface{}) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range data {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("%s_%s.xlsx", sheetName, time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
