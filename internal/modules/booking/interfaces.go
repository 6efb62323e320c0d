package booking

import (
	"context"

	"bookwithbea/internal/domain"
	"bookwithbea/internal/modules/ledger"
)

// Ledger is the part of *ledger.Ledger the booking endpoints use.
type Ledger interface {
	ListAvailableSlots(ctx context.Context, date string) ([]string, error)
	CreateBooking(ctx context.Context, req ledger.BookingRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context, date string) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, id string) (bool, error)
	CompleteBooking(ctx context.Context, id string) (*domain.Booking, error)
	CustomerStats(ctx context.Context, email string) (*domain.CustomerStats, error)
}

type Catalog interface {
	Resolve(names []string) ([]domain.Service, error)
}

// Notifier receives bookings after they have committed.
type Notifier interface {
	Dispatch(b *domain.Booking)
}
