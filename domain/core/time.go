package core

import (
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before returns true if t is before u
func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

// After returns true if t is after u
func (t Timestamp) After(u Timestamp) bool {
	return time.Time(t).After(time.Time(u))
}

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}

const dayKeyLayout = "2006-01-02"

// DayKey identifies one calendar day in the local time zone. Streak
// arithmetic works on DayKeys so that sessions completed at 00:05 and
// 23:55 of the same day always land on the same key.
type DayKey string

// DayOf returns the calendar day containing t
func DayOf(t time.Time) DayKey {
	return DayKey(t.Format(dayKeyLayout))
}

// String returns the YYYY-MM-DD representation
func (d DayKey) String() string {
	return string(d)
}

// IsZero checks if the day key is unset
func (d DayKey) IsZero() bool {
	return d == ""
}

// Prev returns the previous calendar day. An unset or malformed key stays unset.
func (d DayKey) Prev() DayKey {
	t, err := time.ParseInLocation(dayKeyLayout, string(d), time.Local)
	if err != nil {
		return ""
	}
	return DayOf(t.AddDate(0, 0, -1))
}

// Weekday returns the three-letter weekday label for the day ("Mon", "Tue", ...)
func (d DayKey) Weekday() string {
	t, err := time.ParseInLocation(dayKeyLayout, string(d), time.Local)
	if err != nil {
		return ""
	}
	return t.Format("Mon")
}
