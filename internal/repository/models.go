package repository

import (
	"time"

	"gorm.io/datatypes"

	"bookwithbea/internal/domain"
)

type customerModel struct {
	ID               int64                       `gorm:"column:id;primaryKey;autoIncrement"`
	Email            string                      `gorm:"column:email;size:100;not null;uniqueIndex:idx_customer_email"`
	Name             string                      `gorm:"column:name;size:100;not null"`
	Phone            string                      `gorm:"column:phone;size:20"`
	FavoriteServices datatypes.JSONSlice[string] `gorm:"column:favorite_services"`
	CreatedAt        time.Time                   `gorm:"column:created_at"`
	UpdatedAt        time.Time                   `gorm:"column:updated_at"`
}

func (customerModel) TableName() string { return "customers" }

// The partial unique index keeps one live booking per (date, time); a cancelled
// booking does not block a new one once its slot has been released.
type bookingModel struct {
	ID                 string                                      `gorm:"column:id;primaryKey;size:36"`
	CustomerID         int64                                       `gorm:"column:customer_id;not null;index"`
	CustomerName       string                                      `gorm:"column:customer_name;size:100"`
	CustomerEmail      string                                      `gorm:"column:customer_email;size:100"`
	CustomerPhone      string                                      `gorm:"column:customer_phone;size:20"`
	BookingDate        string                                      `gorm:"column:booking_date;size:10;not null;uniqueIndex:idx_booking_date_time,where:status <> 'cancelled'"`
	BookingTime        string                                      `gorm:"column:booking_time;size:8;not null;uniqueIndex:idx_booking_date_time,where:status <> 'cancelled'"`
	ServiceName        string                                      `gorm:"column:service_name;size:500"`
	ServicesData       datatypes.JSONSlice[domain.ServiceSnapshot] `gorm:"column:services_data"`
	TotalPrice         float64                                     `gorm:"column:total_price;not null"`
	TotalDuration      int                                         `gorm:"column:total_duration;not null"`
	IsMultipleServices bool                                        `gorm:"column:is_multiple_services;not null"`
	TargetAudience     string                                      `gorm:"column:target_audience;size:50"`
	BookingType        string                                      `gorm:"column:booking_type;size:20;not null"`
	Status             string                                      `gorm:"column:status;size:20;not null;index"`
	CreatedAt          time.Time                                   `gorm:"column:created_at"`
	UpdatedAt          time.Time                                   `gorm:"column:updated_at"`
	CancelledAt        *time.Time                                  `gorm:"column:cancelled_at"`
	CompletedAt        *time.Time                                  `gorm:"column:completed_at"`
}

func (bookingModel) TableName() string { return "bookings" }

type individualServiceModel struct {
	ID              int64   `gorm:"column:id;primaryKey;autoIncrement"`
	MainBookingID   string  `gorm:"column:main_booking_id;size:36;not null;index"`
	ServiceName     string  `gorm:"column:service_name;size:100;not null"`
	ServicePrice    float64 `gorm:"column:service_price;not null"`
	ServiceDuration int     `gorm:"column:service_duration;not null"`
	BookingDate     string  `gorm:"column:booking_date;size:10;not null;index:idx_isb_date_time"`
	BookingTime     string  `gorm:"column:booking_time;size:8;not null;index:idx_isb_date_time"`
	ServiceOrder    int     `gorm:"column:service_order;not null"`
}

func (individualServiceModel) TableName() string { return "individual_service_bookings" }

type slotModel struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	SlotDate    string  `gorm:"column:slot_date;size:10;not null;uniqueIndex:idx_slot_date_time"`
	SlotTime    string  `gorm:"column:slot_time;size:8;not null;uniqueIndex:idx_slot_date_time"`
	IsAvailable bool    `gorm:"column:is_available;not null;index"`
	BookingID   *string `gorm:"column:booking_id;size:36;index"`
}

func (slotModel) TableName() string { return "time_slots" }

type blockedDateModel struct {
	BlockedDate string    `gorm:"column:blocked_date;primaryKey;size:10"`
	Reason      string    `gorm:"column:reason;size:255"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (blockedDateModel) TableName() string { return "blocked_dates" }

// Models lists every table for migration.
func Models() []any {
	return []any{
		&customerModel{},
		&bookingModel{},
		&individualServiceModel{},
		&slotModel{},
		&blockedDateModel{},
	}
}
