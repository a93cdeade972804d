package model

import (
	"fmt"
	"time"
)

// DateLayout is the canonical timestamp layout. Lexicographic order on encoded
// values equals chronological order, which the store's range queries and the
// aggregator's sorting depend on. All dates are UTC.
const DateLayout = "2006-01-02 15:04:05"

// dayLayout is the calendar-day truncation of DateLayout.
const dayLayout = "2006-01-02"

// Date is a sortable timestamp string in DateLayout (or dayLayout after
// truncation). The zero value "" means absent.
type Date string

// NewDate encodes t as a Date in UTC.
func NewDate(t time.Time) Date {
	return Date(t.UTC().Format(DateLayout))
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool {
	return d == ""
}

// Before reports whether d sorts strictly before other.
func (d Date) Before(other Date) bool {
	return d < other
}

// Day truncates the date to its calendar day.
func (d Date) Day() Date {
	if len(d) < len(dayLayout) {
		return d
	}
	return d[:len(dayLayout)]
}

// Time parses the date back into a UTC time.Time. Both full timestamps and
// day-truncated values are accepted.
func (d Date) Time() (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, string(d), time.UTC); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dayLayout, string(d), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", string(d), err)
	}
	return t, nil
}

// MinutesUntil returns the whole minutes from d to later, saturated to zero
// when later precedes d.
func (d Date) MinutesUntil(later Date) (uint32, error) {
	from, err := d.Time()
	if err != nil {
		return 0, err
	}
	to, err := later.Time()
	if err != nil {
		return 0, err
	}
	mins := int64(to.Sub(from) / time.Minute)
	return SaturateInt64(mins), nil
}

// Sha is an opaque commit identifier. Only equality is meaningful.
type Sha string
