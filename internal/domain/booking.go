package domain

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type BookingType string

const (
	BookingSingle     BookingType = "single"
	BookingBackToBack BookingType = "back_to_back"
	BookingIndividual BookingType = "individual"
)

func (t BookingType) Valid() bool {
	switch t {
	case BookingSingle, BookingBackToBack, BookingIndividual:
		return true
	}
	return false
}

// Booking dates are YYYY-MM-DD and times are 24-hour HH:MM:SS.
type Booking struct {
	ID                   string            `json:"id"`
	CustomerID           int64             `json:"customer_id"`
	CustomerName         string            `json:"customer_name"`
	CustomerEmail        string            `json:"customer_email"`
	CustomerPhone        string            `json:"customer_phone"`
	Date                 string            `json:"date"`
	Time                 string            `json:"time"`
	ServiceName          string            `json:"service_name"`
	Services             []ServiceSnapshot `json:"services"`
	TotalPrice           float64           `json:"total_price"`
	TotalDurationMinutes int               `json:"total_duration_minutes"`
	IsMultipleServices   bool              `json:"is_multiple_services"`
	TargetAudience       string            `json:"target_audience,omitempty"`
	BookingType          BookingType       `json:"booking_type"`
	Status               BookingStatus     `json:"status"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
	CancelledAt          *time.Time        `json:"cancelled_at,omitempty"`
	CompletedAt          *time.Time        `json:"completed_at,omitempty"`

	// Set only for individual bookings, ordered by ServiceOrder.
	IndividualServices []IndividualServiceBooking `json:"individual_services,omitempty"`
}

type IndividualServiceBooking struct {
	ID              int64   `json:"id"`
	MainBookingID   string  `json:"main_booking_id"`
	ServiceName     string  `json:"service_name"`
	ServicePrice    float64 `json:"service_price"`
	ServiceDuration int     `json:"service_duration"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	ServiceOrder    int     `json:"service_order"`
}
