package domain

// AudienceAll is the catalog filter wildcard. It is never stored on a service.
const AudienceAll = "all"

// Service is a catalog entry. Values are immutable for the lifetime of the process.
type Service struct {
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Category        string  `json:"category"`
	TargetAudience  string  `json:"target_audience"`
}

// ServiceSnapshot is the copy of a service frozen into a booking.
type ServiceSnapshot struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Category        string  `json:"category,omitempty"`
	TargetAudience  string  `json:"target_audience,omitempty"`
}

func (s Service) Snapshot() ServiceSnapshot {
	return ServiceSnapshot{
		Name:            s.Name,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		Category:        s.Category,
		TargetAudience:  s.TargetAudience,
	}
}
