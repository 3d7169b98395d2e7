package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ORDER REPORTS

const (
	orderSheet  = "Order"
	ordersSheet = "Orders"
)

var orderHeaders = []string{
	"ID", "Reference", "User ID", "Name", "Email", "Pages",
	"Project Notes", "Additional Notes", "Status", "Created At",
}

type Exporter struct {
	dir string
}

func NewExporter(dir string) *Exporter {
	if dir == "" {
		dir = "reports"
	}
	return &Exporter{dir: dir}
}

// ExportOrder writes a one-order workbook and returns its path.
func (e *Exporter) ExportOrder(order Order) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(orderSheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	rows := [][2]any{
		{"Order ID", order.ID},
		{"Reference", order.Reference},
		{"User ID", order.UserID},
		{"Created At", order.CreatedAt.Format("2006-01-02 15:04")},
		{"Name", order.Name},
		{"Email", order.Email},
		{"Pages", order.PageCount},
		{"Project Notes", order.ProjectNotes},
		{"Additional Notes", order.AdditionalNotes},
		{"Status", order.Status},
	}
	for i, row := range rows {
		if err := f.SetCellValue(orderSheet, fmt.Sprintf("A%d", i+1), row[0]); err != nil {
			return "", fmt.Errorf("failed to write label: %w", err)
		}
		if err := f.SetCellValue(orderSheet, fmt.Sprintf("B%d", i+1), row[1]); err != nil {
			return "", fmt.Errorf("failed to write value: %w", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		_ = f.SetCellStyle(orderSheet, "A1", fmt.Sprintf("A%d", len(rows)), style)
	}

	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	// unsaved orders all have ID 0, the reference stays unique
	key := order.Reference
	if key == "" {
		key = fmt.Sprint(order.ID)
	}
	name := fmt.Sprintf("order_%s_%s.xlsx",
		key,
		order.CreatedAt.Format("20060102_1504"))
	return e.save(f, name)
}

// ExportOrders writes all orders into a single workbook named name.xlsx.
func (e *Exporter) ExportOrders(orders []Order, name string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ordersSheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	for col, header := range orderHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(ordersSheet, cell, header); err != nil {
			return "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, order := range orders {
		data := []any{
			order.ID,
			order.Reference,
			order.UserID,
			order.Name,
			order.Email,
			order.PageCount,
			order.ProjectNotes,
			order.AdditionalNotes,
			order.Status,
			order.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(ordersSheet, cell, value); err != nil {
				return "", fmt.Errorf("failed to write row %d: %w", row+1, err)
			}
		}
	}

	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	return e.save(f, name+".xlsx")
}

func (e *Exporter) save(f *excelize.File, name string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	path := filepath.Join(e.dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return path, nil
}
