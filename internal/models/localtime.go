package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// LocalTimeLayout is the wire format for timestamps: ISO-8601 without a zone.
const LocalTimeLayout = "2006-01-02T15:04:05"

var localTimeInputLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.RFC3339Nano,
}

// LocalTime is a zone-less timestamp. Values are kept in UTC internally and
// rendered without an offset.
type LocalTime struct {
	time.Time
}

// NewLocalTime wraps t, dropping its zone and any precision below a microsecond.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: normalize(t)}
}

// ParseLocalTime accepts "2006-01-02T15:04:05" with optional fractional
// seconds, a minute-precision form, or RFC 3339 (converted to UTC).
func ParseLocalTime(s string) (LocalTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range localTimeInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewLocalTime(t), nil
		}
	}
	return LocalTime{}, fmt.Errorf("invalid timestamp %q: want ISO-8601 such as %s", s, LocalTimeLayout)
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// String renders the wire format, adding fractional seconds only when present.
func (t LocalTime) String() string {
	if t.Nanosecond() == 0 {
		return t.UTC().Format(LocalTimeLayout)
	}
	return t.UTC().Format("2006-01-02T15:04:05.999999")
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *LocalTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid timestamp %s", s)
	}
	parsed, err := ParseLocalTime(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the timestamp as a zone-less UTC time.
func (t LocalTime) Value() (driver.Value, error) {
	return t.UTC(), nil
}

// Scan accepts time.Time from postgres and the string forms sqlite may hand back.
func (t *LocalTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		// timestamp without time zone comes back tagged UTC; keep the wall clock.
		t.Time = normalize(time.Date(v.Year(), v.Month(), v.Day(), v.Hour(), v.Minute(), v.Second(), v.Nanosecond(), time.UTC))
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into LocalTime", src)
	}
}

func (t *LocalTime) scanString(s string) error {
	for _, layout := range []string{"2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05.999999999", LocalTimeLayout + ".999999999", time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = normalize(parsed)
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as timestamp", s)
}
