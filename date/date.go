// Package date provides a civil date type (a day, without time or zone) and a
// chronological history container keyed by day. Market data and portfolio
// records are daily, so a plain day avoids all the usual time-of-day and
// timezone pitfalls.
package date

import (
	"fmt"
	"time"
)

// Date identifies a single civil day.
// The zero value is the zero day, before any valid market day.
type Date struct {
	year  int
	month time.Month
	day   int
}

// New returns the date for the given year, month and day.
func New(year int, month time.Month, day int) Date {
	// Normalize through time.Date so that New(2025, time.January, 32)
	// means Feb 1st, like the standard library does.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Today returns the current day in local time.
func Today() Date {
	now := time.Now()
	return Date{year: now.Year(), month: now.Month(), day: now.Day()}
}

// Parse reads a date in ISO "2006-01-02" format.
func Parse(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return New(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) String() string { return d.time().Format("2006-01-02") }

// time returns the date as midnight UTC, for computations only.
func (d Date) time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Add returns the date shifted by the given number of days.
func (d Date) Add(days int) Date {
	t := d.time().AddDate(0, 0, days)
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

func (d Date) Year() int         { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int          { return d.day }

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Before(o Date) bool { return Compare(d, o) < 0 }
func (d Date) After(o Date) bool  { return Compare(d, o) > 0 }
func (d Date) Equal(o Date) bool  { return d == o }

// Compare orders two dates chronologically, returning -1, 0 or +1.
func Compare(a, b Date) int {
	switch {
	case a.year != b.year:
		return cmp(a.year, b.year)
	case a.month != b.month:
		return cmp(int(a.month), int(b.month))
	default:
		return cmp(a.day, b.day)
	}
}

func cmp(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// MarshalJSON encodes the date as an ISO "2006-01-02" JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes an ISO "2006-01-02" JSON string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date json %s", s)
	}
	parsed, err := Parse(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Range is an inclusive interval of days.
type Range struct {
	From, To Date
}

// NewRange returns the inclusive range between from and to.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Contains reports whether day falls within the range, bounds included.
func (r Range) Contains(day Date) bool {
	return !day.Before(r.From) && !day.After(r.To)
}

// Days returns the number of days in the range, bounds included.
func (r Range) Days() int {
	return int(r.To.time().Sub(r.From.time()).Hours()/24) + 1
}
