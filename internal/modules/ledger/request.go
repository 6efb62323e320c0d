package ledger

import (
	"fmt"
	"math"
	"strings"

	"bookwithbea/internal/domain"
	"bookwithbea/internal/pkg/timefmt"
	"bookwithbea/internal/pkg/validator"
)

// Schedule is one of Single, BackToBack or Individual.
type Schedule interface {
	Type() domain.BookingType
	// slots lists every (date, time) the booking consumes, primary first, without duplicates.
	slots() []slotKey
}

// Single books one service at one slot.
type Single struct {
	Date string
	Time string
}

// BackToBack books several services consecutively from one shared start slot.
type BackToBack struct {
	Date string
	Time string
}

// Individual gives every service its own slot. Entries align with the
// request's services by position; the first entry is the primary slot.
type Individual struct {
	Entries []ScheduledService
}

type ScheduledService struct {
	Date string
	Time string
}

func (Single) Type() domain.BookingType     { return domain.BookingSingle }
func (BackToBack) Type() domain.BookingType { return domain.BookingBackToBack }
func (Individual) Type() domain.BookingType { return domain.BookingIndividual }

func (s Single) slots() []slotKey     { return []slotKey{{s.Date, s.Time}} }
func (s BackToBack) slots() []slotKey { return []slotKey{{s.Date, s.Time}} }

func (s Individual) slots() []slotKey {
	seen := make(map[slotKey]bool, len(s.Entries))
	out := make([]slotKey, 0, len(s.Entries))
	for _, e := range s.Entries {
		k := slotKey{e.Date, e.Time}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

type slotKey struct {
	Date string
	Time string
}

type CustomerInfo struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=100"`
	Phone string `json:"phone" validate:"required,max=20"`
}

type BookingRequest struct {
	Customer CustomerInfo
	Services []domain.Service
	Schedule Schedule
}

// normalize trims the request, converts times to HH:MM:SS and validates it.
// The returned request is a copy.
func (r BookingRequest) normalize() (BookingRequest, error) {
	out := BookingRequest{
		Customer: CustomerInfo{
			Name:  strings.TrimSpace(r.Customer.Name),
			Email: strings.ToLower(strings.TrimSpace(r.Customer.Email)),
			Phone: strings.TrimSpace(r.Customer.Phone),
		},
		Services: append([]domain.Service(nil), r.Services...),
	}

	errs := fieldErrors{}
	for field, msg := range validator.Validate(out.Customer) {
		errs.add("customer."+field, msg)
	}

	if len(out.Services) == 0 {
		errs.add("services", "at least one service is required")
	}
	for i, s := range out.Services {
		if strings.TrimSpace(s.Name) == "" {
			errs.add(fmt.Sprintf("services[%d].name", i), "is required")
		}
		if s.Price < 0 || math.IsNaN(s.Price) || math.IsInf(s.Price, 0) {
			errs.add(fmt.Sprintf("services[%d].price", i), "must be >= 0")
		}
		if s.DurationMinutes <= 0 {
			errs.add(fmt.Sprintf("services[%d].duration", i), "must be > 0")
		}
	}

	switch s := r.Schedule.(type) {
	case Single:
		d, t := normalizeSlot(errs, "", s.Date, s.Time)
		out.Schedule = Single{Date: d, Time: t}
		if len(out.Services) > 1 {
			errs.add("booking_type", "single bookings take exactly one service")
		}
	case BackToBack:
		d, t := normalizeSlot(errs, "", s.Date, s.Time)
		out.Schedule = BackToBack{Date: d, Time: t}
	case Individual:
		if len(s.Entries) != len(out.Services) {
			errs.add("individual_services", "one date and time is required per service")
		}
		entries := make([]ScheduledService, len(s.Entries))
		seen := make(map[slotKey]int, len(s.Entries))
		for i, e := range s.Entries {
			prefix := fmt.Sprintf("individual_services[%d].", i)
			d, t := normalizeSlot(errs, prefix, e.Date, e.Time)
			entries[i] = ScheduledService{Date: d, Time: t}
			if d == "" || t == "" {
				continue
			}
			if j, dup := seen[slotKey{d, t}]; dup {
				errs.add(prefix+"time", fmt.Sprintf("same slot as individual_services[%d]", j))
			}
			seen[slotKey{d, t}] = i
		}
		out.Schedule = Individual{Entries: entries}
	case nil:
		errs.add("booking_type", "is required")
	default:
		errs.add("booking_type", "is not supported")
	}

	if err := errs.err(); err != nil {
		return BookingRequest{}, err
	}
	return out, nil
}

func normalizeSlot(errs fieldErrors, prefix, date, tm string) (string, string) {
	date = strings.TrimSpace(date)
	switch {
	case date == "":
		errs.add(prefix+"date", "is required")
	case !timefmt.ValidDate(date):
		errs.add(prefix+"date", "must be a date in YYYY-MM-DD format")
		date = ""
	}

	if strings.TrimSpace(tm) == "" {
		errs.add(prefix+"time", "is required")
		return date, ""
	}
	t24, err := timefmt.To24Hour(tm)
	if err != nil {
		errs.add(prefix+"time", "must be a time like 2:00 PM or 14:00")
		return date, ""
	}
	return date, t24
}

// primary returns the (date, time) stored on the booking row.
func primary(s Schedule) slotKey {
	return s.slots()[0]
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
