// Package notification tells the salon about committed bookings. Delivery is
// best effort: failures are logged and never reach the booking caller.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"bookwithbea/internal/domain"
	"bookwithbea/internal/pkg/timefmt"
)

var ErrNotify = errors.New("notification failed")

type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// Message is the flattened, display-ready form of a booking.
type Message struct {
	BookingID     string    `json:"booking_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	ServiceName   string    `json:"service_name"`
	Services      string    `json:"services"`
	TotalPrice    float64   `json:"total_price"`
	Duration      string    `json:"duration"`
	BookingType   string    `json:"booking_type"`
	Schedule      []string  `json:"schedule,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewMessage(b *domain.Booking) Message {
	parts := make([]string, 0, len(b.Services))
	for _, s := range b.Services {
		parts = append(parts, fmt.Sprintf("%s ($%.2f)", s.Name, s.Price))
	}

	msg := Message{
		BookingID:     b.ID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Date:          b.Date,
		Time:          timefmt.MustTo12Hour(b.Time),
		ServiceName:   b.ServiceName,
		Services:      strings.Join(parts, ", "),
		TotalPrice:    b.TotalPrice,
		Duration:      fmt.Sprintf("%d min", b.TotalDurationMinutes),
		BookingType:   string(b.BookingType),
		CreatedAt:     b.CreatedAt,
	}
	for _, is := range b.IndividualServices {
		msg.Schedule = append(msg.Schedule,
			fmt.Sprintf("%d. %s on %s at %s", is.ServiceOrder, is.ServiceName, is.Date, timefmt.MustTo12Hour(is.Time)))
	}
	return msg
}

// Summary renders the message as plain text for the salon owner.
func (m Message) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New booking %s\n", m.BookingID)
	fmt.Fprintf(&sb, "Client: %s <%s> %s\n", m.CustomerName, m.CustomerEmail, m.CustomerPhone)
	fmt.Fprintf(&sb, "When: %s at %s (%s)\n", m.Date, m.Time, m.Duration)
	fmt.Fprintf(&sb, "Service(s): %s\n", m.Services)
	for _, line := range m.Schedule {
		fmt.Fprintf(&sb, "  %s\n", line)
	}
	fmt.Fprintf(&sb, "Total: $%.2f", m.TotalPrice)
	return sb.String()
}

// Dispatcher fans a committed booking out to every notifier on a background goroutine.
type Dispatcher struct {
	notifiers []Notifier
	timeout   time.Duration
	log       *zap.Logger
	wg        sync.WaitGroup
}

func NewDispatcher(timeout time.Duration, log *zap.Logger, notifiers ...Notifier) *Dispatcher {
	if log == nil {
		log = zap.L()
	}
	return &Dispatcher{notifiers: notifiers, timeout: timeout, log: log}
}

// Dispatch returns immediately. Call it only after the booking has committed.
func (d *Dispatcher) Dispatch(b *domain.Booking) {
	if len(d.notifiers) == 0 || b == nil {
		return
	}
	msg := NewMessage(b)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("notifier panicked", zap.String("booking_id", msg.BookingID), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		for _, n := range d.notifiers {
			if err := n.Notify(ctx, msg); err != nil {
				d.log.Warn("notification not delivered",
					zap.String("notifier", n.Name()),
					zap.String("booking_id", msg.BookingID),
					zap.Error(fmt.Errorf("%w: %s: %w", ErrNotify, n.Name(), err)),
				)
				continue
			}
			d.log.Debug("notification delivered",
				zap.String("notifier", n.Name()), zap.String("booking_id", msg.BookingID))
		}
	}()
}

// Wait blocks until in-flight dispatches finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
