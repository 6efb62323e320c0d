package booking

import (
	"fmt"
	"time"

	"bookwithbea/internal/domain"
	"bookwithbea/internal/pkg/timefmt"
)

// CreateBookingRequest is the submitted booking form. Times use the 12-hour
// display form ("2:00 PM"); 24-hour input is accepted too.
type CreateBookingRequest struct {
	CustomerName       string                     `json:"customer_name"`
	CustomerEmail      string                     `json:"customer_email"`
	CustomerPhone      string                     `json:"customer_phone"`
	BookingType        string                     `json:"booking_type"`
	Date               string                     `json:"date"`
	Time               string                     `json:"time"`
	Services           []string                   `json:"services"`
	IndividualServices []IndividualServiceRequest `json:"individual_services"`
}

type IndividualServiceRequest struct {
	Service string `json:"service"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

type ServiceResponse struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Duration string  `json:"duration"`
	Category string  `json:"category,omitempty"`
}

type IndividualServiceResponse struct {
	Order    int     `json:"service_order"`
	Service  string  `json:"service_name"`
	Price    float64 `json:"service_price"`
	Duration string  `json:"duration"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
}

type BookingResponse struct {
	ID                 string                      `json:"id"`
	CustomerName       string                      `json:"customer_name"`
	CustomerEmail      string                      `json:"customer_email"`
	CustomerPhone      string                      `json:"customer_phone"`
	Date               string                      `json:"date"`
	Time               string                      `json:"time"`
	ServiceName        string                      `json:"service_name"`
	Services           []ServiceResponse           `json:"services"`
	TotalPrice         float64                     `json:"total_price"`
	Duration           string                      `json:"duration"`
	IsMultipleServices bool                        `json:"is_multiple_services"`
	TargetAudience     string                      `json:"target_audience,omitempty"`
	BookingType        domain.BookingType          `json:"booking_type"`
	Status             domain.BookingStatus        `json:"status"`
	CreatedAt          time.Time                   `json:"created_at"`
	CancelledAt        *time.Time                  `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time                  `json:"completed_at,omitempty"`
	IndividualServices []IndividualServiceResponse `json:"individual_services,omitempty"`
}

func minutes(n int) string {
	return fmt.Sprintf("%d min", n)
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	out := BookingResponse{
		ID:                 b.ID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		Date:               b.Date,
		Time:               timefmt.MustTo12Hour(b.Time),
		ServiceName:        b.ServiceName,
		Services:           make([]ServiceResponse, 0, len(b.Services)),
		TotalPrice:         b.TotalPrice,
		Duration:           minutes(b.TotalDurationMinutes),
		IsMultipleServices: b.IsMultipleServices,
		TargetAudience:     b.TargetAudience,
		BookingType:        b.BookingType,
		Status:             b.Status,
		CreatedAt:          b.CreatedAt,
		CancelledAt:        b.CancelledAt,
		CompletedAt:        b.CompletedAt,
	}
	for _, s := range b.Services {
		out.Services = append(out.Services, ServiceResponse{
			Name:     s.Name,
			Price:    s.Price,
			Duration: minutes(s.DurationMinutes),
			Category: s.Category,
		})
	}
	for _, is := range b.IndividualServices {
		out.IndividualServices = append(out.IndividualServices, IndividualServiceResponse{
			Order:    is.ServiceOrder,
			Service:  is.ServiceName,
			Price:    is.ServicePrice,
			Duration: minutes(is.ServiceDuration),
			Date:     is.Date,
			Time:     timefmt.MustTo12Hour(is.Time),
		})
	}
	return out
}

type CustomerProfileResponse struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	FavoriteServices []string `json:"favorite_services"`
	TotalBookings    int64    `json:"total_bookings"`
	TotalSpent       float64  `json:"total_spent"`
	FirstVisit       string   `json:"first_visit,omitempty"`
	LastVisit        string   `json:"last_visit,omitempty"`
}

func toCustomerProfile(s *domain.CustomerStats) CustomerProfileResponse {
	favs := s.FavoriteServices
	if favs == nil {
		favs = []string{}
	}
	return CustomerProfileResponse{
		Name:             s.Name,
		Email:            s.Email,
		Phone:            s.Phone,
		FavoriteServices: favs,
		TotalBookings:    s.TotalBookings,
		TotalSpent:       s.TotalSpent,
		FirstVisit:       s.FirstVisit,
		LastVisit:        s.LastVisit,
	}
}
