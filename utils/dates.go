package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of every calendar date in the API.
const DateLayout = "2006-01-02"

// Calendar dates are time.Time values pinned to 00:00 UTC. They are never
// converted between zones, so "2024-03-10" stays the 10th whatever TZ the
// process or the database session runs in.

// ParseLocalDate parses "YYYY-MM-DD" into a calendar date.
func ParseLocalDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		// tolerate full timestamps coming from older clients, keep only the date part
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return DateOf(t), nil
		}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatLocalDate renders a calendar date as zero-padded "YYYY-MM-DD".
func FormatLocalDate(d time.Time) string {
	y, m, day := d.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), day)
}

// DateOf drops the clock and the zone of t, keeping its wall-clock date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays moves d by n calendar days; n may be negative.
func AddDays(d time.Time, n int) time.Time {
	return DateOf(d).AddDate(0, 0, n)
}

func IsInMonth(d time.Time, year int, month time.Month) bool {
	y, m, _ := d.Date()
	return y == year && m == month
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstOfMonth returns the first calendar day of the month.
func FirstOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// NightsBetween counts calendar days from checkIn to checkOut; negative when
// checkOut is earlier.
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(DateOf(checkOut).Sub(DateOf(checkIn)).Hours() / 24)
}

// DateRange is a half-open range of calendar days [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: DateOf(start), End: DateOf(end)}
}

// Empty reports a range without any day in it.
func (r DateRange) Empty() bool {
	return !r.Start.Before(r.End)
}

// Overlaps is the half-open intersection test: back-to-back ranges, where one
// ends on the day the other starts, do not overlap.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Start.Before(o.End) && r.End.After(o.Start)
}

func (r DateRange) Contains(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(r.Start) && d.Before(r.End)
}

func (r DateRange) String() string {
	return FormatLocalDate(r.Start) + "/" + FormatLocalDate(r.End)
}
