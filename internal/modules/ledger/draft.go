package ledger

import (
	"bookwithbea/internal/domain"
)

// DraftBooking collects a customer's selections before submission.
// It is a value: every method returns a new draft and leaves the receiver untouched.
type DraftBooking struct {
	services []domain.Service
	schedule Schedule
}

func NewDraft() DraftBooking {
	return DraftBooking{}
}

// WithService appends s unless a service with the same name is already selected.
func (d DraftBooking) WithService(s domain.Service) DraftBooking {
	for _, existing := range d.services {
		if existing.Name == s.Name {
			return d.clone()
		}
	}
	next := d.clone()
	next.services = append(next.services, s)
	return next
}

func (d DraftBooking) WithoutService(name string) DraftBooking {
	next := DraftBooking{schedule: d.schedule}
	for _, s := range d.services {
		if s.Name != name {
			next.services = append(next.services, s)
		}
	}
	return next
}

func (d DraftBooking) ScheduleSingle(date, tm string) DraftBooking {
	next := d.clone()
	next.schedule = Single{Date: date, Time: tm}
	return next
}

func (d DraftBooking) ScheduleBackToBack(date, tm string) DraftBooking {
	next := d.clone()
	next.schedule = BackToBack{Date: date, Time: tm}
	return next
}

func (d DraftBooking) ScheduleIndividual(entries ...ScheduledService) DraftBooking {
	next := d.clone()
	next.schedule = Individual{Entries: append([]ScheduledService(nil), entries...)}
	return next
}

func (d DraftBooking) Services() []domain.Service {
	return append([]domain.Service(nil), d.services...)
}

func (d DraftBooking) Schedule() Schedule {
	return d.schedule
}

// Total is the running price of the selected services.
func (d DraftBooking) Total() float64 {
	var sum float64
	for _, s := range d.services {
		sum += s.Price
	}
	return roundCents(sum)
}

// Confirm attaches the customer and validates the result.
func (d DraftBooking) Confirm(customer CustomerInfo) (BookingRequest, error) {
	req := BookingRequest{
		Customer: customer,
		Services: d.Services(),
		Schedule: d.schedule,
	}
	return req.normalize()
}

func (d DraftBooking) clone() DraftBooking {
	return DraftBooking{
		services: append([]domain.Service(nil), d.services...),
		schedule: d.schedule,
	}
}
