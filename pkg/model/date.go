package model

import (
	"fmt"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// NormalizeDate drops the time of day and zone, keeping the calendar date as
// seen in t's own location.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NightsBetween counts whole calendar days from checkIn to checkOut. Both
// values must already be normalized. time.Duration tops out near 292 years, so
// the count is taken from Unix seconds instead.
func NightsBetween(checkIn, checkOut time.Time) int {
	return int((checkOut.Unix() - checkIn.Unix()) / secondsPerDay)
}
