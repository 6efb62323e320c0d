// Package ledger owns slot availability and the booking lifecycle.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookwithbea/internal/domain"
	"bookwithbea/internal/pkg/timefmt"
)

const (
	DefaultBlockReason = "Holiday/Closed"
	maxGenerateDays    = 366
)

type Ledger struct {
	store    Store
	loc      *time.Location
	schedule SlotSchedule
	now      func() time.Time
	newID    func() (string, error)
	log      *zap.Logger
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

func WithIDGenerator(fn func() (string, error)) Option {
	return func(l *Ledger) { l.newID = fn }
}

// New builds a ledger operating in loc. Booking ids are UUIDv7 by default.
func New(store Store, loc *time.Location, schedule SlotSchedule, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		loc:      loc,
		schedule: schedule,
		now:      time.Now,
		newID: func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
		log: zap.L(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Today is the current date in the operating timezone.
func (l *Ledger) Today() string {
	return l.now().In(l.loc).Format(timefmt.DateLayout)
}

// IsSlotAvailable reports whether (date, tm) exists and is free. A missing slot is unavailable.
func (l *Ledger) IsSlotAvailable(ctx context.Context, date, tm string) (bool, error) {
	if !timefmt.ValidDate(date) {
		return false, invalid("date", "must be a date in YYYY-MM-DD format")
	}
	t24, err := timefmt.To24Hour(tm)
	if err != nil {
		return false, invalid("time", "must be a time like 2:00 PM or 14:00")
	}

	slot, err := l.store.Slots().Get(ctx, date, t24)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return slot.IsAvailable, nil
}

// ListAvailableSlots returns the free HH:MM:SS times of date in ascending order.
// For today, times at or before the current minute in the operating timezone
// are dropped; past dates have no free slots.
func (l *Ledger) ListAvailableSlots(ctx context.Context, date string) ([]string, error) {
	if !timefmt.ValidDate(date) {
		return nil, invalid("date", "must be a date in YYYY-MM-DD format")
	}

	today, after := l.pastCutoff()
	if date < today {
		return []string{}, nil
	}
	if date != today {
		after = ""
	}

	times, err := l.store.Slots().ListAvailable(ctx, date, after)
	if err != nil {
		return nil, err
	}
	if times == nil {
		times = []string{}
	}
	return times, nil
}

// pastCutoff returns today's date in the operating timezone and the current
// minute as HH:MM:00. Slots on earlier dates, or today at or before the
// cutoff, have passed.
func (l *Ledger) pastCutoff() (today, after string) {
	now := l.now().In(l.loc)
	return now.Format(timefmt.DateLayout), now.Format("15:04") + ":00"
}

func (l *Ledger) hasPassed(k slotKey) bool {
	today, after := l.pastCutoff()
	return k.Date < today || (k.Date == today && k.Time <= after)
}

// CreateBooking validates req and, in one transaction, resolves the customer,
// re-checks every slot the booking touches, inserts the booking and claims the slots.
func (l *Ledger) CreateBooking(ctx context.Context, req BookingRequest) (*domain.Booking, error) {
	req, err := req.normalize()
	if err != nil {
		return nil, err
	}

	id, err := l.newID()
	if err != nil {
		return nil, fmt.Errorf("%w: booking id: %w", ErrStorage, err)
	}
	booking := buildBooking(id, req, l.now().UTC())
	keys := req.Schedule.slots()
	for _, k := range keys {
		if l.hasPassed(k) {
			l.log.Info("booking rejected: slot has passed",
				zap.String("date", k.Date), zap.String("time", k.Time))
			return nil, fmt.Errorf("%w: %s %s has passed", ErrSlotConflict, k.Date, k.Time)
		}
	}

	err = l.store.WithinTx(ctx, func(r Repositories) error {
		customer, err := r.Customers().FindOrCreate(ctx, &domain.Customer{
			Email:            req.Customer.Email,
			Name:             req.Customer.Name,
			Phone:            req.Customer.Phone,
			FavoriteServices: []string{},
		})
		if err != nil {
			return err
		}
		booking.CustomerID = customer.ID

		for _, k := range keys {
			slot, err := r.Slots().GetForUpdate(ctx, k.Date, k.Time)
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: %s %s", ErrSlotConflict, k.Date, k.Time)
			}
			if err != nil {
				return err
			}
			if !slot.IsAvailable {
				return fmt.Errorf("%w: %s %s", ErrSlotConflict, k.Date, k.Time)
			}
		}

		if err := r.Bookings().Create(ctx, booking); err != nil {
			return err
		}

		for _, k := range keys {
			n, err := r.Slots().Claim(ctx, k.Date, k.Time, booking.ID)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: %s %s", ErrSlotConflict, k.Date, k.Time)
			}
		}

		if len(booking.IndividualServices) > 0 {
			return r.Bookings().CreateIndividual(ctx, booking.IndividualServices)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			l.log.Info("booking rejected: slot taken",
				zap.String("date", booking.Date), zap.String("time", booking.Time))
		} else {
			l.log.Error("create booking failed", zap.Error(err))
		}
		return nil, err
	}

	l.log.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("type", string(booking.BookingType)),
		zap.String("date", booking.Date),
		zap.String("time", booking.Time),
	)
	return booking, nil
}

func buildBooking(id string, req BookingRequest, now time.Time) *domain.Booking {
	snapshots := make([]domain.ServiceSnapshot, 0, len(req.Services))
	names := make([]string, 0, len(req.Services))
	var total float64
	var duration int
	for _, s := range req.Services {
		snapshots = append(snapshots, s.Snapshot())
		names = append(names, s.Name)
		total += s.Price
		duration += s.DurationMinutes
	}

	p := primary(req.Schedule)
	b := &domain.Booking{
		ID:                   id,
		CustomerName:         req.Customer.Name,
		CustomerEmail:        req.Customer.Email,
		CustomerPhone:        req.Customer.Phone,
		Date:                 p.Date,
		Time:                 p.Time,
		ServiceName:          strings.Join(names, ", "),
		Services:             snapshots,
		TotalPrice:           roundCents(total),
		TotalDurationMinutes: duration,
		IsMultipleServices:   len(req.Services) > 1,
		TargetAudience:       commonAudience(req.Services),
		BookingType:          req.Schedule.Type(),
		Status:               domain.BookingConfirmed,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if ind, ok := req.Schedule.(Individual); ok {
		b.TotalDurationMinutes = req.Services[0].DurationMinutes
		b.IndividualServices = make([]domain.IndividualServiceBooking, len(ind.Entries))
		for i, e := range ind.Entries {
			s := req.Services[i]
			b.IndividualServices[i] = domain.IndividualServiceBooking{
				MainBookingID:   id,
				ServiceName:     s.Name,
				ServicePrice:    s.Price,
				ServiceDuration: s.DurationMinutes,
				Date:            e.Date,
				Time:            e.Time,
				ServiceOrder:    i + 1,
			}
		}
	}
	return b
}

func commonAudience(services []domain.Service) string {
	if len(services) == 0 {
		return ""
	}
	aud := services[0].TargetAudience
	for _, s := range services[1:] {
		if s.TargetAudience != aud {
			return ""
		}
	}
	return aud
}

// CancelBooking moves a confirmed booking to cancelled. It returns false when
// no booking has that id. The booked slot stays unavailable.
func (l *Ledger) CancelBooking(ctx context.Context, id string) (bool, error) {
	found := true
	err := l.store.WithinTx(ctx, func(r Repositories) error {
		b, err := r.Bookings().GetByIDForUpdate(ctx, id)
		if errors.Is(err, ErrNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}

		switch b.Status {
		case domain.BookingCancelled:
			return nil
		case domain.BookingCompleted:
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, b.Status, domain.BookingCancelled)
		}
		return r.Bookings().UpdateStatus(ctx, id, domain.BookingCancelled, l.now().UTC())
	})
	if err != nil {
		return false, err
	}
	if found {
		l.log.Info("booking cancelled", zap.String("booking_id", id))
	}
	return found, nil
}

// CompleteBooking moves a confirmed booking to completed.
func (l *Ledger) CompleteBooking(ctx context.Context, id string) (*domain.Booking, error) {
	err := l.store.WithinTx(ctx, func(r Repositories) error {
		b, err := r.Bookings().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		switch b.Status {
		case domain.BookingCompleted:
			return nil
		case domain.BookingCancelled:
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, b.Status, domain.BookingCompleted)
		}
		return r.Bookings().UpdateStatus(ctx, id, domain.BookingCompleted, l.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return l.store.Bookings().GetByID(ctx, id)
}

func (l *Ledger) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return l.store.Bookings().GetByID(ctx, id)
}

// ListBookings returns all bookings (newest slot first), or those of one date ordered by time.
func (l *Ledger) ListBookings(ctx context.Context, date string) ([]domain.Booking, error) {
	if date != "" && !timefmt.ValidDate(date) {
		return nil, invalid("date", "must be a date in YYYY-MM-DD format")
	}
	return l.store.Bookings().List(ctx, date)
}

func (l *Ledger) CustomerStats(ctx context.Context, email string) (*domain.CustomerStats, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, invalid("email", "is required")
	}
	return l.store.Customers().GetStats(ctx, email)
}

// BlockDate records date as closed and marks every slot of it unavailable.
func (l *Ledger) BlockDate(ctx context.Context, date, reason string) error {
	if !timefmt.ValidDate(date) {
		return invalid("date", "must be a date in YYYY-MM-DD format")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultBlockReason
	}

	var affected int64
	err := l.store.WithinTx(ctx, func(r Repositories) error {
		if err := r.BlockedDates().Upsert(ctx, domain.BlockedDate{
			Date:      date,
			Reason:    reason,
			CreatedAt: l.now().UTC(),
		}); err != nil {
			return err
		}
		n, err := r.Slots().BlockDate(ctx, date)
		affected = n
		return err
	})
	if err != nil {
		return err
	}
	l.log.Info("date blocked", zap.String("date", date), zap.Int64("slots", affected))
	return nil
}

// UnblockDate removes the block and frees the slots of date that no booking holds.
// It reports whether date was blocked.
func (l *Ledger) UnblockDate(ctx context.Context, date string) (bool, error) {
	if !timefmt.ValidDate(date) {
		return false, invalid("date", "must be a date in YYYY-MM-DD format")
	}

	var existed bool
	var restored int64
	err := l.store.WithinTx(ctx, func(r Repositories) error {
		var err error
		existed, err = r.BlockedDates().Delete(ctx, date)
		if err != nil {
			return err
		}
		restored, err = r.Slots().RestoreUnbooked(ctx, date)
		return err
	})
	if err != nil {
		return false, err
	}
	l.log.Info("date unblocked", zap.String("date", date), zap.Int64("slots_restored", restored))
	return existed, nil
}

func (l *Ledger) ListBlockedDates(ctx context.Context) ([]domain.BlockedDate, error) {
	return l.store.BlockedDates().List(ctx)
}

// GenerateSlots makes sure a slot exists for every business-hour increment of
// every open day in [start, end]. Existing slots are left alone; new slots on
// blocked dates start unavailable. Returns the number of slots created.
func (l *Ledger) GenerateSlots(ctx context.Context, start, end string) (int64, error) {
	errs := fieldErrors{}
	from, err := time.Parse(timefmt.DateLayout, start)
	if err != nil {
		errs.add("start_date", "must be a date in YYYY-MM-DD format")
	}
	to, err := time.Parse(timefmt.DateLayout, end)
	if err != nil {
		errs.add("end_date", "must be a date in YYYY-MM-DD format")
	}
	if len(errs) == 0 {
		switch {
		case to.Before(from):
			errs.add("end_date", "must not be before start_date")
		case to.Sub(from) > maxGenerateDays*24*time.Hour:
			errs.add("end_date", fmt.Sprintf("range must not exceed %d days", maxGenerateDays))
		}
	}
	if err := errs.err(); err != nil {
		return 0, err
	}

	times := l.schedule.Times()
	var created int64
	err = l.store.WithinTx(ctx, func(r Repositories) error {
		blocked, err := r.BlockedDates().ListBetween(ctx, start, end)
		if err != nil {
			return err
		}
		closed := make(map[string]bool, len(blocked))
		for _, b := range blocked {
			closed[b.Date] = true
		}

		var slots []domain.Slot
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if !l.schedule.OpenOn(d) {
				continue
			}
			date := d.Format(timefmt.DateLayout)
			for _, t := range times {
				slots = append(slots, domain.Slot{Date: date, Time: t, IsAvailable: !closed[date]})
			}
		}
		created, err = r.Slots().CreateIfAbsent(ctx, slots)
		return err
	})
	if err != nil {
		return 0, err
	}
	l.log.Info("slots generated",
		zap.String("start", start), zap.String("end", end), zap.Int64("created", created))
	return created, nil
}

// GenerateHorizon generates slots from today through today+days in the operating timezone.
func (l *Ledger) GenerateHorizon(ctx context.Context, days int) (int64, error) {
	today := l.now().In(l.loc)
	start := today.Format(timefmt.DateLayout)
	end := today.AddDate(0, 0, days).Format(timefmt.DateLayout)
	return l.GenerateSlots(ctx, start, end)
}

// ReleaseSlot makes a booked slot available again and unlinks it. Nothing
// calls this implicitly; cancellation keeps slots taken.
func (l *Ledger) ReleaseSlot(ctx context.Context, date, tm string) error {
	if !timefmt.ValidDate(date) {
		return invalid("date", "must be a date in YYYY-MM-DD format")
	}
	t24, err := timefmt.To24Hour(tm)
	if err != nil {
		return invalid("time", "must be a time like 2:00 PM or 14:00")
	}

	err = l.store.WithinTx(ctx, func(r Repositories) error {
		blocked, err := r.BlockedDates().IsBlocked(ctx, date)
		if err != nil {
			return err
		}
		if blocked {
			return fmt.Errorf("%w: %s", ErrDateBlocked, date)
		}
		if _, err := r.Slots().GetForUpdate(ctx, date, t24); err != nil {
			return err
		}
		_, err = r.Slots().Release(ctx, date, t24)
		return err
	})
	if err != nil {
		return err
	}
	l.log.Info("slot released", zap.String("date", date), zap.String("time", t24))
	return nil
}

type ResyncReport struct {
	From         string `json:"from"`
	SlotsReset   int64  `json:"slots_reset"`
	SlotsBooked  int64  `json:"slots_booked"`
	DatesBlocked int    `json:"dates_blocked"`
}

// ResyncSlots recomputes availability of slots on or after from (default today)
// from bookings of every status, individual sub-bookings and blocked dates.
func (l *Ledger) ResyncSlots(ctx context.Context, from string) (ResyncReport, error) {
	if from == "" {
		from = l.Today()
	}
	if !timefmt.ValidDate(from) {
		return ResyncReport{}, invalid("from", "must be a date in YYYY-MM-DD format")
	}

	report := ResyncReport{From: from}
	err := l.store.WithinTx(ctx, func(r Repositories) error {
		var err error
		if report.SlotsReset, err = r.Slots().ResetFrom(ctx, from); err != nil {
			return err
		}

		claims, err := r.Bookings().ListClaims(ctx, from)
		if err != nil {
			return err
		}
		owner := make(map[slotKey]SlotClaim, len(claims))
		var order []slotKey
		for _, c := range claims {
			k := slotKey{c.Date, c.Time}
			prev, ok := owner[k]
			if !ok {
				order = append(order, k)
			} else if !outranks(c, prev) {
				continue
			}
			owner[k] = c
		}
		for _, k := range order {
			n, err := r.Slots().Assign(ctx, k.Date, k.Time, owner[k].BookingID)
			if err != nil {
				return err
			}
			report.SlotsBooked += n
		}

		blocked, err := r.BlockedDates().ListBetween(ctx, from, "9999-12-31")
		if err != nil {
			return err
		}
		for _, b := range blocked {
			if _, err := r.Slots().BlockDate(ctx, b.Date); err != nil {
				return err
			}
		}
		report.DatesBlocked = len(blocked)
		return nil
	})
	if err != nil {
		return ResyncReport{}, err
	}
	l.log.Info("slots resynced",
		zap.String("from", from),
		zap.Int64("reset", report.SlotsReset),
		zap.Int64("booked", report.SlotsBooked),
		zap.Int("blocked_dates", report.DatesBlocked),
	)
	return report, nil
}

// outranks reports whether claim c takes a slot from prev. A live booking beats
// a cancelled one; otherwise the later claim wins.
func outranks(c, prev SlotClaim) bool {
	cLive := c.Status != domain.BookingCancelled
	prevLive := prev.Status != domain.BookingCancelled
	if cLive != prevLive {
		return cLive
	}
	return true
}
