package ledger

import (
	"fmt"
	"strings"
	"time"

	"bookwithbea/internal/pkg/timefmt"
)

// SlotSchedule describes the fixed business hours slots are generated for.
// Slot start times run from Open up to, but not including, Close.
type SlotSchedule struct {
	Open      time.Duration
	Close     time.Duration
	Increment time.Duration
	// Closed is the weekly closed day; nil means open every day.
	Closed *time.Weekday
}

func NewSlotSchedule(open, closeAt string, increment time.Duration, closedWeekday string) (SlotSchedule, error) {
	o, err := sinceMidnight(open)
	if err != nil {
		return SlotSchedule{}, fmt.Errorf("open time: %w", err)
	}
	c, err := sinceMidnight(closeAt)
	if err != nil {
		return SlotSchedule{}, fmt.Errorf("close time: %w", err)
	}
	if c <= o {
		return SlotSchedule{}, fmt.Errorf("close time %s must be after open time %s", closeAt, open)
	}
	if increment <= 0 {
		return SlotSchedule{}, fmt.Errorf("slot increment must be positive")
	}

	s := SlotSchedule{Open: o, Close: c, Increment: increment}
	if wd := strings.ToLower(strings.TrimSpace(closedWeekday)); wd != "" && wd != "none" {
		day, ok := weekdays[wd]
		if !ok {
			return SlotSchedule{}, fmt.Errorf("unknown weekday %q", closedWeekday)
		}
		s.Closed = &day
	}
	return s, nil
}

// Times returns the HH:MM:SS start times of one business day.
func (s SlotSchedule) Times() []string {
	var out []string
	for t := s.Open; t < s.Close; t += s.Increment {
		out = append(out, fmt.Sprintf("%02d:%02d:00", int(t.Hours()), int(t.Minutes())%60))
	}
	return out
}

func (s SlotSchedule) OpenOn(day time.Time) bool {
	return s.Closed == nil || day.Weekday() != *s.Closed
}

func sinceMidnight(hhmm string) (time.Duration, error) {
	v, err := timefmt.Normalize24(hhmm)
	if err != nil {
		return 0, err
	}
	t, _ := time.Parse(timefmt.StorageLayout, v)
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}
