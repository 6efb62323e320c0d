package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookwithbea/internal/database"
	"bookwithbea/internal/domain"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:", database.Options{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, Models()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedSlots(t *testing.T, db *gorm.DB, date string, times ...string) {
	t.Helper()
	slots := make([]domain.Slot, len(times))
	for i, tm := range times {
		slots[i] = domain.Slot{Date: date, Time: tm, IsAvailable: true}
	}
	_, err := NewSlotRepository(db).CreateIfAbsent(context.Background(), slots)
	require.NoError(t, err)
}

func newBooking(id string, customerID int64, date, tm string) *domain.Booking {
	now := time.Now().UTC()
	return &domain.Booking{
		ID:                   id,
		CustomerID:           customerID,
		CustomerName:         "Bea",
		CustomerEmail:        "bea@example.com",
		CustomerPhone:        "555-0100",
		Date:                 date,
		Time:                 tm,
		ServiceName:          "Gel Manicure",
		Services:             []domain.ServiceSnapshot{{Name: "Gel Manicure", Price: 45, DurationMinutes: 45}},
		TotalPrice:           45,
		TotalDurationMinutes: 45,
		BookingType:          domain.BookingSingle,
		Status:               domain.BookingConfirmed,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}
