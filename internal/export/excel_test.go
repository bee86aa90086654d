package export

import (
	"io"
	"testing"
	"time"

	"urbanlink/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBookingsToExcel(t *testing.T) {
	logger := zerolog.New(io.Discard)
	user := models.User{ID: 42, Name: "Asha Verma", Email: "asha@example.com"}
	bookings := []models.Booking{
		{
			ID:     1,
			UserID: 42,
			Worker: models.Worker{ID: 7, Name: "Rajesh Kumar", Service: "Plumber", Location: "Mumbai", HourlyRate: 500},
			Date:   time.Date(2026, 9, 12, 10, 30, 0, 0, time.UTC),
			Status: models.StatusUpcoming,
		},
		{
			ID:     2,
			UserID: 42,
			Worker: models.Worker{ID: 8, Name: "Priya Sharma", Service: "Electrician", Location: "Delhi", HourlyRate: 400},
			Date:   time.Date(2026, 8, 1, 14, 0, 0, 0, time.UTC),
			Status: models.StatusCancelled,
		},
	}

	t.Run("WritesReadableWorkbook", func(t *testing.T) {
		dir := t.TempDir()

		path, err := BookingsToExcel(dir, user, bookings, &logger)
		require.NoError(t, err)
		assert.FileExists(t, path)
		assert.Contains(t, path, "bookings_42_")

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()

		title, err := f.GetCellValue("Bookings", "A1")
		require.NoError(t, err)
		assert.Contains(t, title, "Asha Verma")
		assert.Contains(t, title, "asha@example.com")

		header, err := f.GetCellValue("Bookings", "B2")
		require.NoError(t, err)
		assert.Equal(t, "Professional", header)

		name, err := f.GetCellValue("Bookings", "B3")
		require.NoError(t, err)
		assert.Equal(t, "Rajesh Kumar", name)

		status, err := f.GetCellValue("Bookings", "F4")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, status)

		date, err := f.GetCellValue("Bookings", "E3")
		require.NoError(t, err)
		assert.Equal(t, "2026-09-12 10:30", date)
	})

	t.Run("EmptyListStillWritesHeaders", func(t *testing.T) {
		dir := t.TempDir()

		path, err := BookingsToExcel(dir, user, nil, &logger)
		require.NoError(t, err)

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()

		header, err := f.GetCellValue("Bookings", "A2")
		require.NoError(t, err)
		assert.Equal(t, "ID", header)
	})

	t.Run("CreatesMissingDirectory", func(t *testing.T) {
		dir := t.TempDir() + "/nested/exports"

		path, err := BookingsToExcel(dir, user, bookings, &logger)
		require.NoError(t, err)
		assert.FileExists(t, path)
	})
}
