package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"urbanlink/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// BookingsToExcel writes the user's bookings to an .xlsx file under dir and
// returns the file path.
func BookingsToExcel(dir string, user models.User, bookings []models.Booking, logger *zerolog.Logger) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bookings for %s (%s)", user.Name, user.Email))

	headers := []string{"ID", "Professional", "Service", "Location", "Date", "Status", "Hourly Rate"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	firstHeader, _ := excelize.CoordinatesToCellName(1, 2)
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 2)
	_ = f.SetCellStyle(sheetName, firstHeader, lastHeader, headerStyle)

	for row, b := range bookings {
		values := []interface{}{
			b.ID,
			b.Worker.Name,
			b.Worker.Service,
			b.Worker.Location,
			b.Date.Format("2006-01-02 15:04"),
			b.Status,
			b.Worker.HourlyRate,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 16)
	_ = f.SetColWidth(sheetName, "B", "G", 22)
	_ = f.MergeCell(sheetName, "A1", lastHeader[:1]+"1")
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%d_%s.xlsx", user.ID, time.Now().Format("2006-01-02"))
	filePath := filepath.Join(dir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}
