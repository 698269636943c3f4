// Package timestamp provides the time type persisted in every slot.
package timestamp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const clockLayout = "15:04"

// Clock forms accepted on import. Browser exports use the 12-hour clock.
var clockLayouts = []string{clockLayout, "3:04 PM", "3:04PM"}

// ErrInvalid is returned when a value cannot be read as a time.
var ErrInvalid = errors.New("timestamp: invalid value")

// Parse reads an RFC3339 time, falling back to a bare clock value on the zero
// date. Both "14:05" and "02:05 pm" forms are accepted.
func Parse(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	clock := strings.ToUpper(strings.TrimSpace(v))
	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, clock, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalid, v)
}

// Timestamp wraps time.Time with a lenient JSON codec. It writes RFC3339Nano
// strings and reads strings, HH:MM clock values, and epoch milliseconds.
type Timestamp struct {
	time.Time
}

// Of wraps t.
func Of(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Now is Of(time.Now()).
func Now() Timestamp {
	return Of(time.Now())
}

// SameDay reports whether t and then fall on the same local calendar day.
func (t Timestamp) SameDay(then time.Time) bool {
	a := t.Local()
	b := then.Local()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// Day truncates t to local midnight.
func (t Timestamp) Day() time.Time {
	return Midnight(t.Time)
}

// Midnight returns local midnight of the day containing v.
func Midnight(v time.Time) time.Time {
	l := v.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.Local)
}

// Clock renders the time of day the way the chat transcript shows it.
func (t Timestamp) Clock() string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(clockLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339Nano))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if b[0] != '"' {
		var ms json.Number
		if err := json.Unmarshal(b, &ms); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalid, b)
		}
		n, err := ms.Int64()
		if err != nil {
			f, ferr := ms.Float64()
			if ferr != nil {
				return fmt.Errorf("%w: %s", ErrInvalid, b)
			}
			n = int64(f)
		}
		t.Time = time.UnixMilli(n)
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	v, err := Parse(raw)
	if err != nil {
		return err
	}
	t.Time = v
	return nil
}

func (t Timestamp) String() string {
	return t.UTC().Format(time.RFC3339)
}
