package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookwithbea/internal/domain"
	"bookwithbea/internal/modules/catalog"
	"bookwithbea/internal/modules/ledger"
	"bookwithbea/internal/pkg/timefmt"
)

type Service struct {
	ledger   Ledger
	catalog  Catalog
	notifier Notifier
}

func NewService(l Ledger, c Catalog, n Notifier) *Service {
	return &Service{ledger: l, catalog: c, notifier: n}
}

// CreateBooking resolves the submitted services against the catalog, books
// them and hands the committed booking to the notifier.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	br, err := s.toLedgerRequest(req)
	if err != nil {
		return nil, err
	}

	b, err := s.ledger.CreateBooking(ctx, br)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Dispatch(b)
	}
	return b, nil
}

func (s *Service) toLedgerRequest(req CreateBookingRequest) (ledger.BookingRequest, error) {
	kind := domain.BookingType(strings.ToLower(strings.TrimSpace(req.BookingType)))
	names := req.Services
	if kind == domain.BookingIndividual {
		names = make([]string, len(req.IndividualServices))
		for i, is := range req.IndividualServices {
			names[i] = is.Service
		}
	}
	if kind == "" {
		kind = domain.BookingSingle
		if len(names) > 1 {
			kind = domain.BookingBackToBack
		}
	}
	if !kind.Valid() {
		return ledger.BookingRequest{}, &ledger.ValidationError{Fields: map[string]string{
			"booking_type": "must be one of: single back_to_back individual",
		}}
	}

	services, err := s.catalog.Resolve(names)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownService) {
			return ledger.BookingRequest{}, &ledger.ValidationError{Fields: map[string]string{
				"services": err.Error(),
			}}
		}
		return ledger.BookingRequest{}, fmt.Errorf("resolve services: %w", err)
	}

	// the draft keeps one entry per service name, like the selection list
	draft := ledger.NewDraft()
	for _, svc := range services {
		draft = draft.WithService(svc)
	}

	switch kind {
	case domain.BookingSingle:
		draft = draft.ScheduleSingle(req.Date, req.Time)
	case domain.BookingBackToBack:
		draft = draft.ScheduleBackToBack(req.Date, req.Time)
	case domain.BookingIndividual:
		entries := make([]ledger.ScheduledService, len(req.IndividualServices))
		for i, is := range req.IndividualServices {
			entries[i] = ledger.ScheduledService{Date: is.Date, Time: is.Time}
		}
		draft = draft.ScheduleIndividual(entries...)
	}

	return draft.Confirm(ledger.CustomerInfo{
		Name:  req.CustomerName,
		Email: req.CustomerEmail,
		Phone: req.CustomerPhone,
	})
}

// AvailableSlots returns the free times of date in 12-hour display form.
func (s *Service) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	times, err := s.ledger.ListAvailableSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(times))
	for _, t := range times {
		t12, err := timefmt.To12Hour(t)
		if err != nil {
			return nil, fmt.Errorf("format slot %q: %w", t, err)
		}
		out = append(out, t12)
	}
	return out, nil
}

func (s *Service) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.ledger.GetBooking(ctx, id)
}

func (s *Service) ListBookings(ctx context.Context, date string) ([]domain.Booking, error) {
	return s.ledger.ListBookings(ctx, date)
}

// CancelBooking returns ledger.ErrNotFound for unknown ids.
func (s *Service) CancelBooking(ctx context.Context, id string) error {
	ok, err := s.ledger.CancelBooking(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("booking %s: %w", id, ledger.ErrNotFound)
	}
	return nil
}

func (s *Service) CompleteBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.ledger.CompleteBooking(ctx, id)
}

func (s *Service) CustomerProfile(ctx context.Context, email string) (*domain.CustomerStats, error) {
	return s.ledger.CustomerStats(ctx, email)
}
