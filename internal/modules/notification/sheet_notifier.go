package notification

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

var sheetHeader = []string{
	"Booking ID", "Customer Email", "Customer Name", "Phone", "Date", "Time",
	"Service", "Services", "Total", "Duration", "Created At",
}

// SheetNotifier appends one row per booking to a CSV booking log.
type SheetNotifier struct {
	path string
	mu   sync.Mutex
}

func NewSheetNotifier(path string) *SheetNotifier {
	return &SheetNotifier{path: path}
}

func (n *SheetNotifier) Name() string { return "sheet" }

func (n *SheetNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	f, err := os.OpenFile(n.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open booking log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat booking log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(sheetHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(sheetRow(msg)); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	return w.Error()
}

func sheetRow(m Message) []string {
	return []string{
		m.BookingID,
		m.CustomerEmail,
		m.CustomerName,
		m.CustomerPhone,
		m.Date,
		m.Time,
		m.ServiceName,
		m.Services,
		strconv.FormatFloat(m.TotalPrice, 'f', 2, 64),
		m.Duration,
		m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
