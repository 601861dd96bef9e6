package codec

import (
	"errors"
	"math"
	"strings"
	"time"
)

// ErrInvalidTime is returned when a value cannot be read as an instant.
var ErrInvalidTime = errors.New("codec: invalid time")

// ISOLayout is the canonical JSON form of dates: UTC with millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// layouts accepted by ParseTime, tried in order.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTime reads an ISO-8601 / RFC3339 timestamp or a plain date.
// Inputs without a zone are read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidTime
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidTime
}

// TimeFromMillis converts milliseconds since the Unix epoch into a UTC time.
func TimeFromMillis(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, ErrInvalidTime
	}
	whole := math.Trunc(ms)
	nanos := (ms - whole) * float64(time.Millisecond)
	return time.UnixMilli(int64(whole)).Add(time.Duration(nanos)).UTC(), nil
}

// FormatTime renders t in the canonical ISO form (UTC, millisecond precision).
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
