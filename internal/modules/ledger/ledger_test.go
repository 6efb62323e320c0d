package ledger_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookwithbea/internal/database"
	"bookwithbea/internal/domain"
	"bookwithbea/internal/modules/ledger"
	"bookwithbea/internal/pkg/timefmt"
	"bookwithbea/internal/repository"
)

var (
	gelManicure = domain.Service{Name: "Gel Manicure", Price: 30, DurationMinutes: 30, Category: "Manicure", TargetAudience: "women"}
	pedicure    = domain.Service{Name: "Spa Pedicure", Price: 45, DurationMinutes: 45, Category: "Pedicure", TargetAudience: "women"}
	bea         = ledger.CustomerInfo{Name: "Bea Smith", Email: "bea@example.com", Phone: "416-555-0100"}
)

type fixture struct {
	store  *repository.Store
	ledger *ledger.Ledger
	clock  *time.Time
}

func toronto(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Toronto")
	require.NoError(t, err)
	return loc
}

// newFixture opens an in-memory database whose clock reads 2024-06-10 15:00 in Toronto.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Connect(":memory:", database.Options{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, repository.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	loc := toronto(t)
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, loc)
	f := &fixture{store: repository.NewStore(db), clock: &now}

	sched, err := ledger.NewSlotSchedule("10:00", "19:00", 30*time.Minute, "sunday")
	require.NoError(t, err)

	f.ledger = ledger.New(f.store, loc, sched,
		ledger.WithClock(func() time.Time { return *f.clock }),
		ledger.WithLogger(zap.NewNop()),
	)
	return f
}

func (f *fixture) generate(t *testing.T, start, end string) {
	t.Helper()
	_, err := f.ledger.GenerateSlots(context.Background(), start, end)
	require.NoError(t, err)
}

func (f *fixture) slot(t *testing.T, date, tm string) *domain.Slot {
	t.Helper()
	s, err := f.store.Slots().Get(context.Background(), date, tm)
	require.NoError(t, err)
	return s
}

func singleRequest(date, tm string, services ...domain.Service) ledger.BookingRequest {
	return ledger.BookingRequest{
		Customer: bea,
		Services: services,
		Schedule: ledger.Single{Date: date, Time: tm},
	}
}

func TestIsSlotAvailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-11")

	ok, err := f.ledger.IsSlotAvailable(ctx, "2024-06-11", "2:00 PM")
	require.NoError(t, err)
	assert.True(t, ok)

	// outside business hours: no row, fail closed
	ok, err = f.ledger.IsSlotAvailable(ctx, "2024-06-11", "21:00")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.ledger.IsSlotAvailable(ctx, "2024-06-11", "later")
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestListAvailableSlots_ExcludesPastTimesToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-10", "2024-06-11")

	today, err := f.ledger.ListAvailableSlots(ctx, "2024-06-10")
	require.NoError(t, err)
	assert.NotContains(t, today, "14:30:00")
	assert.NotContains(t, today, "15:00:00")
	assert.Equal(t, "15:30:00", today[0])
	assert.Equal(t, "18:30:00", today[len(today)-1])

	tomorrow, err := f.ledger.ListAvailableSlots(ctx, "2024-06-11")
	require.NoError(t, err)
	assert.Len(t, tomorrow, 18)
	assert.Equal(t, "10:00:00", tomorrow[0])
}

func TestListAvailableSlots_UsesOperatingTimezone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-10", "2024-06-11")

	// 01:30 UTC on the 11th is still 21:30 on the 10th in Toronto.
	utc := time.Date(2024, 6, 11, 1, 30, 0, 0, time.UTC)
	*f.clock = utc

	today, err := f.ledger.ListAvailableSlots(ctx, "2024-06-10")
	require.NoError(t, err)
	assert.Empty(t, today)

	tomorrow, err := f.ledger.ListAvailableSlots(ctx, "2024-06-11")
	require.NoError(t, err)
	assert.Len(t, tomorrow, 18)
}

func TestListAvailableSlots_PastDateIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.generate(t, "2024-06-08", "2024-06-08")

	slots, err := f.ledger.ListAvailableSlots(context.Background(), "2024-06-08")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestCreateBooking_Single(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-11")

	b, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-11", "2:00 PM", gelManicure))
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "14:00:00", b.Time)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
	assert.Equal(t, domain.BookingSingle, b.BookingType)
	assert.Equal(t, 30.0, b.TotalPrice)
	assert.False(t, b.IsMultipleServices)

	slot := f.slot(t, "2024-06-11", "14:00:00")
	assert.False(t, slot.IsAvailable)
	require.NotNil(t, slot.BookingID)
	assert.Equal(t, b.ID, *slot.BookingID)

	stored, err := f.ledger.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "bea@example.com", stored.CustomerEmail)
}

func TestCreateBooking_SnapshotIsFrozen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-11")

	svc := gelManicure
	b, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-11", "10:00", svc))
	require.NoError(t, err)

	svc.Price = 99
	stored, err := f.ledger.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, stored.Services[0].Price)
}

func TestCreateBooking_NoDoubleBookingUnderConcurrency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-11")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := singleRequest("2024-06-11", "2:00 PM", gelManicure)
			req.Customer.Email = fmt.Sprintf("client%d@example.com", i)
			_, errs[i] = f.ledger.CreateBooking(ctx, req)
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ledger.ErrSlotConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)

	bookings, err := f.ledger.ListBookings(ctx, "2024-06-11")
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

type faultyStore struct{ ledger.Store }

func (s faultyStore) WithinTx(ctx context.Context, fn func(ledger.Repositories) error) error {
	return s.Store.WithinTx(ctx, func(r ledger.Repositories) error {
		return fn(faultyRepos{r})
	})
}

type faultyRepos struct{ ledger.Repositories }

func (r faultyRepos) Slots() ledger.SlotRepository { return faultySlots{r.Repositories.Slots()} }

type faultySlots struct{ ledger.SlotRepository }

func (faultySlots) Claim(context.Context, string, string, string) (int64, error) {
	return 0, fmt.Errorf("claim slot: %w: disk I/O error", ledger.ErrStorage)
}

func TestCreateBooking_AtomicOnSlotFlipFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-11")

	sched, err := ledger.NewSlotSchedule("10:00", "19:00", 30*time.Minute, "sunday")
	require.NoError(t, err)
	broken := ledger.New(faultyStore{f.store}, toronto(t), sched,
		ledger.WithClock(func() time.Time { return *f.clock }),
		ledger.WithLogger(zap.NewNop()),
	)

	_, err = broken.CreateBooking(ctx, singleRequest("2024-06-11", "2:00 PM", gelManicure))
	require.ErrorIs(t, err, ledger.ErrStorage)

	_, err = f.store.Customers().GetByEmail(ctx, bea.Email)
	assert.ErrorIs(t, err, ledger.ErrNotFound, "customer must be rolled back")

	bookings, err := f.ledger.ListBookings(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, bookings)

	slot := f.slot(t, "2024-06-11", "14:00:00")
	assert.True(t, slot.IsAvailable)
	assert.Nil(t, slot.BookingID)
}

func TestCreateBooking_BackToBackTotalsAndSingleSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-11")

	b, err := f.ledger.CreateBooking(ctx, ledger.BookingRequest{
		Customer: bea,
		Services: []domain.Service{gelManicure, pedicure},
		Schedule: ledger.BackToBack{Date: "2024-06-11", Time: "2:00 PM"},
	})
	require.NoError(t, err)

	assert.Equal(t, 75.0, b.TotalPrice)
	assert.Equal(t, 75, b.TotalDurationMinutes)
	assert.True(t, b.IsMultipleServices)
	assert.Equal(t, domain.BookingBackToBack, b.BookingType)
	assert.Equal(t, "Gel Manicure, Spa Pedicure", b.ServiceName)
	assert.Len(t, b.Services, 2)

	assert.False(t, f.slot(t, "2024-06-11", "14:00:00").IsAvailable)
	assert.True(t, f.slot(t, "2024-06-11", "14:30:00").IsAvailable)
	assert.True(t, f.slot(t, "2024-06-11", "15:00:00").IsAvailable)
}

func TestCreateBooking_Individual(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-13")

	b, err := f.ledger.CreateBooking(ctx, ledger.BookingRequest{
		Customer: bea,
		Services: []domain.Service{gelManicure, pedicure},
		Schedule: ledger.Individual{Entries: []ledger.ScheduledService{
			{Date: "2024-06-11", Time: "10:00 AM"},
			{Date: "2024-06-13", Time: "3:30 PM"},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-06-11", b.Date)
	assert.Equal(t, "10:00:00", b.Time)
	assert.Equal(t, 75.0, b.TotalPrice)
	assert.Equal(t, 30, b.TotalDurationMinutes)

	stored, err := f.ledger.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, stored.IndividualServices, 2)
	assert.Equal(t, "Spa Pedicure", stored.IndividualServices[1].ServiceName)
	assert.Equal(t, "15:30:00", stored.IndividualServices[1].Time)
	assert.Equal(t, 2, stored.IndividualServices[1].ServiceOrder)

	assert.False(t, f.slot(t, "2024-06-11", "10:00:00").IsAvailable)
	second := f.slot(t, "2024-06-13", "15:30:00")
	assert.False(t, second.IsAvailable)
	require.NotNil(t, second.BookingID)
	assert.Equal(t, b.ID, *second.BookingID)
}

func TestCreateBooking_IndividualSecondarySlotTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-13")

	_, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-13", "3:30 PM", pedicure))
	require.NoError(t, err)

	req := ledger.BookingRequest{
		Customer: ledger.CustomerInfo{Name: "Ann", Email: "ann@example.com", Phone: "1"},
		Services: []domain.Service{gelManicure, pedicure},
		Schedule: ledger.Individual{Entries: []ledger.ScheduledService{
			{Date: "2024-06-11", Time: "10:00 AM"},
			{Date: "2024-06-13", Time: "3:30 PM"},
		}},
	}
	_, err = f.ledger.CreateBooking(ctx, req)
	require.ErrorIs(t, err, ledger.ErrSlotConflict)

	assert.True(t, f.slot(t, "2024-06-11", "10:00:00").IsAvailable, "primary slot must not stay claimed")
	_, err = f.store.Customers().GetByEmail(ctx, "ann@example.com")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestCreateBooking_ValidationBeforeTransaction(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.CreateBooking(context.Background(), ledger.BookingRequest{
		Customer: ledger.CustomerInfo{Email: "broken"},
		Schedule: ledger.Single{Date: "2024-13-01", Time: "2:00 PM"},
	})
	require.ErrorIs(t, err, ledger.ErrValidation)

	var verr *ledger.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "customer.name")
	assert.Contains(t, verr.Fields, "customer.email")
	assert.Contains(t, verr.Fields, "customer.phone")
	assert.Contains(t, verr.Fields, "services")
	assert.Contains(t, verr.Fields, "date")
}

func TestCreateBooking_MissingSlotIsConflict(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.CreateBooking(context.Background(), singleRequest("2024-06-11", "2:00 PM", gelManicure))
	assert.ErrorIs(t, err, ledger.ErrSlotConflict)
}

func TestCreateBooking_ReusesCustomerByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-11")

	first, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-11", "10:00 AM", gelManicure))
	require.NoError(t, err)

	req := singleRequest("2024-06-11", "11:00 AM", gelManicure)
	req.Customer.Email = "  BEA@example.com "
	second, err := f.ledger.CreateBooking(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)
}

func TestBlockUnblock_RestoresOnlyUnbookedSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-11")

	_, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-11", "2:00 PM", gelManicure))
	require.NoError(t, err)

	require.NoError(t, f.ledger.BlockDate(ctx, "2024-06-11", "Staff training"))
	slots, err := f.ledger.ListAvailableSlots(ctx, "2024-06-11")
	require.NoError(t, err)
	assert.Empty(t, slots)

	blocked, err := f.ledger.ListBlockedDates(ctx)
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, "Staff training", blocked[0].Reason)

	existed, err := f.ledger.UnblockDate(ctx, "2024-06-11")
	require.NoError(t, err)
	assert.True(t, existed)

	slots, err = f.ledger.ListAvailableSlots(ctx, "2024-06-11")
	require.NoError(t, err)
	assert.Len(t, slots, 17)
	assert.NotContains(t, slots, "14:00:00")
	assert.False(t, f.slot(t, "2024-06-11", "14:00:00").IsAvailable)
}

func TestBlockDate_DefaultReasonAndUpsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.BlockDate(ctx, "2024-12-25", ""))
	require.NoError(t, f.ledger.BlockDate(ctx, "2024-12-25", "Christmas"))

	blocked, err := f.ledger.ListBlockedDates(ctx)
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, "Christmas", blocked[0].Reason)
}

func TestCancelBooking_KeepsSlotUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-11")

	b, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-11", "2:00 PM", gelManicure))
	require.NoError(t, err)

	ok, err := f.ledger.CancelBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	available, err := f.ledger.IsSlotAvailable(ctx, "2024-06-11", "2:00 PM")
	require.NoError(t, err)
	assert.False(t, available)

	stored, err := f.ledger.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, stored.Status)
	assert.NotNil(t, stored.CancelledAt)

	// cancelling again is a no-op
	ok, err = f.ledger.CancelBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCancelBooking_Unknown(t *testing.T) {
	f := newFixture(t)

	ok, err := f.ledger.CancelBooking(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompleteBooking_Transitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-11")

	b, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-11", "2:00 PM", gelManicure))
	require.NoError(t, err)

	done, err := f.ledger.CompleteBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	_, err = f.ledger.CancelBooking(ctx, b.ID)
	assert.ErrorIs(t, err, ledger.ErrInvalidStatusTransition)

	other, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-11", "3:00 PM", gelManicure))
	require.NoError(t, err)
	_, err = f.ledger.CancelBooking(ctx, other.ID)
	require.NoError(t, err)
	_, err = f.ledger.CompleteBooking(ctx, other.ID)
	assert.ErrorIs(t, err, ledger.ErrInvalidStatusTransition)

	_, err = f.ledger.CompleteBooking(ctx, "missing")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestGenerateSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.BlockDate(ctx, "2024-06-11", "Holiday"))

	// 2024-06-09 is a Sunday
	n, err := f.ledger.GenerateSlots(ctx, "2024-06-08", "2024-06-11")
	require.NoError(t, err)
	assert.Equal(t, int64(3*18), n)

	n, err = f.ledger.GenerateSlots(ctx, "2024-06-08", "2024-06-11")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.store.Slots().Get(ctx, "2024-06-09", "10:00:00")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	assert.False(t, f.slot(t, "2024-06-11", "10:00:00").IsAvailable)
	assert.True(t, f.slot(t, "2024-06-10", "18:30:00").IsAvailable)
	_, err = f.store.Slots().Get(ctx, "2024-06-10", "19:00:00")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestGenerateSlots_InvalidRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.GenerateSlots(context.Background(), "2024-06-11", "2024-06-10")
	assert.ErrorIs(t, err, ledger.ErrValidation)

	_, err = f.ledger.GenerateSlots(context.Background(), "2024-01-01", "2026-01-01")
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestGenerateHorizon(t *testing.T) {
	f := newFixture(t)

	n, err := f.ledger.GenerateHorizon(context.Background(), 6)
	require.NoError(t, err)
	// 2024-06-10 (Mon) .. 2024-06-16 (Sun): six open days
	assert.Equal(t, int64(6*18), n)
}

func TestReleaseSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-12")

	b, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-11", "2:00 PM", gelManicure))
	require.NoError(t, err)
	_, err = f.ledger.CancelBooking(ctx, b.ID)
	require.NoError(t, err)

	require.NoError(t, f.ledger.ReleaseSlot(ctx, "2024-06-11", "2:00 PM"))
	slot := f.slot(t, "2024-06-11", "14:00:00")
	assert.True(t, slot.IsAvailable)
	assert.Nil(t, slot.BookingID)

	_, err = f.ledger.CreateBooking(ctx, singleRequest("2024-06-11", "2:00 PM", gelManicure))
	assert.NoError(t, err)

	require.NoError(t, f.ledger.BlockDate(ctx, "2024-06-12", ""))
	err = f.ledger.ReleaseSlot(ctx, "2024-06-12", "10:00")
	assert.ErrorIs(t, err, ledger.ErrDateBlocked)

	err = f.ledger.ReleaseSlot(ctx, "2024-06-11", "21:00")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestResyncSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-13")

	b, err := f.ledger.CreateBooking(ctx, ledger.BookingRequest{
		Customer: bea,
		Services: []domain.Service{gelManicure, pedicure},
		Schedule: ledger.Individual{Entries: []ledger.ScheduledService{
			{Date: "2024-06-11", Time: "10:00 AM"},
			{Date: "2024-06-12", Time: "11:00 AM"},
		}},
	})
	require.NoError(t, err)
	require.NoError(t, f.ledger.BlockDate(ctx, "2024-06-13", ""))

	// drift: a stray unavailable slot and a lost claim
	_, err = f.store.Slots().BlockDate(ctx, "2024-06-11")
	require.NoError(t, err)
	_, err = f.store.Slots().Release(ctx, "2024-06-12", "11:00:00")
	require.NoError(t, err)

	report, err := f.ledger.ResyncSlots(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", report.From)
	assert.Equal(t, int64(2), report.SlotsBooked)
	assert.Equal(t, 1, report.DatesBlocked)

	assert.True(t, f.slot(t, "2024-06-11", "10:30:00").IsAvailable)
	assert.False(t, f.slot(t, "2024-06-11", "10:00:00").IsAvailable)
	restored := f.slot(t, "2024-06-12", "11:00:00")
	assert.False(t, restored.IsAvailable)
	require.NotNil(t, restored.BookingID)
	assert.Equal(t, b.ID, *restored.BookingID)
	assert.False(t, f.slot(t, "2024-06-13", "10:00:00").IsAvailable)
}

func TestResyncSlots_LiveBookingOwnsRebookedSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-12")

	old, err := f.ledger.CreateBooking(ctx, ledger.BookingRequest{
		Customer: bea,
		Services: []domain.Service{gelManicure, pedicure},
		Schedule: ledger.Individual{Entries: []ledger.ScheduledService{
			{Date: "2024-06-11", Time: "10:00 AM"},
			{Date: "2024-06-12", Time: "11:00 AM"},
		}},
	})
	require.NoError(t, err)
	cancelled, err := f.ledger.CancelBooking(ctx, old.ID)
	require.NoError(t, err)
	require.True(t, cancelled)
	require.NoError(t, f.ledger.ReleaseSlot(ctx, "2024-06-12", "11:00 AM"))

	rebooked, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-12", "11:00 AM", pedicure))
	require.NoError(t, err)

	_, err = f.ledger.ResyncSlots(ctx, "2024-06-10")
	require.NoError(t, err)

	slot := f.slot(t, "2024-06-12", "11:00:00")
	assert.False(t, slot.IsAvailable)
	require.NotNil(t, slot.BookingID)
	assert.Equal(t, rebooked.ID, *slot.BookingID)

	// the cancelled booking keeps its primary slot
	primary := f.slot(t, "2024-06-11", "10:00:00")
	assert.False(t, primary.IsAvailable)
	require.NotNil(t, primary.BookingID)
	assert.Equal(t, old.ID, *primary.BookingID)
}

func TestCreateBooking_RejectsPassedSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-10", "2024-06-11")

	for _, tm := range []string{"10:00 AM", "3:00 PM"} {
		_, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-10", tm, gelManicure))
		assert.ErrorIs(t, err, ledger.ErrSlotConflict, tm)
		assert.True(t, f.slot(t, "2024-06-10", mustClock(t, tm)).IsAvailable, tm)
	}

	_, err := f.ledger.CreateBooking(ctx, ledger.BookingRequest{
		Customer: bea,
		Services: []domain.Service{gelManicure, pedicure},
		Schedule: ledger.Individual{Entries: []ledger.ScheduledService{
			{Date: "2024-06-11", Time: "10:00 AM"},
			{Date: "2024-06-10", Time: "11:00 AM"},
		}},
	})
	assert.ErrorIs(t, err, ledger.ErrSlotConflict)
	assert.True(t, f.slot(t, "2024-06-11", "10:00:00").IsAvailable)

	b, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-10", "3:30 PM", gelManicure))
	require.NoError(t, err)
	assert.Equal(t, "15:30:00", b.Time)
}

func mustClock(t *testing.T, tm string) string {
	t.Helper()
	out, err := timefmt.To24Hour(tm)
	require.NoError(t, err)
	return out
}

func TestCustomerStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generate(t, "2024-06-11", "2024-06-12")

	_, err := f.ledger.CreateBooking(ctx, singleRequest("2024-06-11", "10:00 AM", gelManicure))
	require.NoError(t, err)
	_, err = f.ledger.CreateBooking(ctx, singleRequest("2024-06-12", "10:00 AM", pedicure))
	require.NoError(t, err)

	stats, err := f.ledger.CustomerStats(ctx, "BEA@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.InDelta(t, 75.0, stats.TotalSpent, 0.001)
	assert.Equal(t, "2024-06-11", stats.FirstVisit)
	assert.Equal(t, "2024-06-12", stats.LastVisit)

	_, err = f.ledger.CustomerStats(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
