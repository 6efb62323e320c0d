// Package timefmt converts between the 24-hour storage form of slot times
// ("14:00:00") and the 12-hour display form ("2:00 PM").
package timefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	StorageLayout = "15:04:05"
	DisplayLayout = "3:04 PM"
)

var ErrInvalidTime = errors.New("invalid time")

// To12Hour formats a 24-hour time ("14:00" or "14:00:00") for display.
func To12Hour(t24 string) (string, error) {
	t, err := parse24(t24)
	if err != nil {
		return "", err
	}
	return t.Format(DisplayLayout), nil
}

// To24Hour parses a display time ("2:00 PM", "2:00pm") into storage form.
// Input already in 24-hour form is normalized and returned.
func To24Hour(s string) (string, error) {
	v := strings.ToUpper(strings.Join(strings.Fields(s), ""))
	if strings.HasSuffix(v, "AM") || strings.HasSuffix(v, "PM") {
		t, err := time.Parse("3:04PM", v)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		return t.Format(StorageLayout), nil
	}
	t, err := parse24(v)
	if err != nil {
		return "", err
	}
	return t.Format(StorageLayout), nil
}

// Normalize24 returns the HH:MM:SS form of a 24-hour time.
func Normalize24(t24 string) (string, error) {
	t, err := parse24(t24)
	if err != nil {
		return "", err
	}
	return t.Format(StorageLayout), nil
}

// MustTo12Hour is To12Hour for values read back from storage; malformed input is returned unchanged.
func MustTo12Hour(t24 string) string {
	out, err := To12Hour(t24)
	if err != nil {
		return t24
	}
	return out
}

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func parse24(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{StorageLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}
