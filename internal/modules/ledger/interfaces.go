package ledger

import (
	"context"
	"time"

	"bookwithbea/internal/domain"
)

// Repository methods return ErrNotFound for missing rows and wrap driver
// failures with ErrStorage.

type CustomerRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	// FindOrCreate returns the existing customer for c.Email, or inserts c.
	FindOrCreate(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	GetStats(ctx context.Context, email string) (*domain.CustomerStats, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	CreateIndividual(ctx context.Context, items []domain.IndividualServiceBooking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, date string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, at time.Time) error
	// ListClaims returns every (date, time) held by a booking or sub-booking on or after from.
	ListClaims(ctx context.Context, from string) ([]SlotClaim, error)
}

type SlotRepository interface {
	Get(ctx context.Context, date, tm string) (*domain.Slot, error)
	GetForUpdate(ctx context.Context, date, tm string) (*domain.Slot, error)
	// ListAvailable returns available times of date strictly after `after` (empty: no bound).
	ListAvailable(ctx context.Context, date, after string) ([]string, error)
	// Claim flips an available slot to booked. Returns rows affected.
	Claim(ctx context.Context, date, tm, bookingID string) (int64, error)
	Assign(ctx context.Context, date, tm, bookingID string) (int64, error)
	Release(ctx context.Context, date, tm string) (int64, error)
	BlockDate(ctx context.Context, date string) (int64, error)
	RestoreUnbooked(ctx context.Context, date string) (int64, error)
	ResetFrom(ctx context.Context, from string) (int64, error)
	CreateIfAbsent(ctx context.Context, slots []domain.Slot) (int64, error)
}

type BlockedDateRepository interface {
	Upsert(ctx context.Context, d domain.BlockedDate) error
	Delete(ctx context.Context, date string) (bool, error)
	IsBlocked(ctx context.Context, date string) (bool, error)
	List(ctx context.Context) ([]domain.BlockedDate, error)
	ListBetween(ctx context.Context, from, to string) ([]domain.BlockedDate, error)
}

type Repositories interface {
	Customers() CustomerRepository
	Bookings() BookingRepository
	Slots() SlotRepository
	BlockedDates() BlockedDateRepository
}

// Store runs fn inside one transaction. Repositories handed to fn are bound
// to that transaction; a non-nil error from fn rolls everything back.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}

// SlotClaim is one (date, time) held by a booking, with the booking's status
// and creation time.
type SlotClaim struct {
	Date      string
	Time      string
	BookingID string
	Status    domain.BookingStatus
	CreatedAt time.Time
}
