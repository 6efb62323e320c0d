package domain

import "time"

// Slot is one bookable (date, time) unit. Blocked and booked slots share
// IsAvailable=false; only a booked slot carries a BookingID.
type Slot struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	IsAvailable bool    `json:"is_available"`
	BookingID   *string `json:"booking_id,omitempty"`
}

type BlockedDate struct {
	Date      string    `json:"date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
