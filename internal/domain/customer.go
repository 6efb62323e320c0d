package domain

import "time"

type Customer struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	FavoriteServices []string  `json:"favorite_services"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CustomerStats aggregates confirmed bookings of one customer.
type CustomerStats struct {
	Customer
	TotalBookings int64   `json:"total_bookings"`
	TotalSpent    float64 `json:"total_spent"`
	FirstVisit    string  `json:"first_visit,omitempty"`
	LastVisit     string  `json:"last_visit,omitempty"`
}
