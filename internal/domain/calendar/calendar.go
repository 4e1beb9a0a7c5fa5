// Package calendar holds the pure time arithmetic behind slot generation and
// schedule reporting. Nothing here touches storage.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidClock    = errors.New("invalid time of day, use HH:MM")
	ErrInvertedWindow  = errors.New("window end must be after its start")
	ErrInvalidDuration = errors.New("slot length must be positive")
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
	minutesADay = 24 * 60
)

// ParseClock converts "HH:MM" into minutes after midnight. "24:00" is accepted
// as the end of the day.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 ||
		!digitsOnly(parts[0]) || !digitsOnly(parts[1]) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	total := h*60 + m
	if h < 0 || m < 0 || m > 59 || total > minutesADay {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return total, nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock re-renders a clock string in canonical zero-padded form.
func NormalizeClock(s string) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(m), nil
}

// Interval is a [Start, End) range within a day.
type Interval struct {
	Start string
	End   string
}

// ValidateWindow checks that both ends parse and that end is after start.
func ValidateWindow(start, end string) (int, int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, 0, err
	}
	if e <= s {
		return 0, 0, fmt.Errorf("%w: %s-%s", ErrInvertedWindow, start, end)
	}
	return s, e, nil
}

// Split divides [start, end) into consecutive intervals of the given length.
// A trailing remainder shorter than one interval is dropped.
func Split(start, end string, lengthMinutes int) ([]Interval, error) {
	if lengthMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	s, e, err := ValidateWindow(start, end)
	if err != nil {
		return nil, err
	}
	out := make([]Interval, 0, (e-s)/lengthMinutes)
	for cur := s; cur+lengthMinutes <= e; cur += lengthMinutes {
		out = append(out, Interval{Start: FormatClock(cur), End: FormatClock(cur + lengthMinutes)})
	}
	return out, nil
}

// Overlaps reports whether two [start, end) windows intersect.
func Overlaps(a, b Interval) bool {
	as, ae, err := ValidateWindow(a.Start, a.End)
	if err != nil {
		return false
	}
	bs, be, err := ValidateWindow(b.Start, b.End)
	if err != nil {
		return false
	}
	return as < be && bs < ae
}

// At combines a calendar date and an "HH:MM" clock in loc.
func At(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, loc).Add(time.Duration(m) * time.Minute), nil
}

// ParseDate parses "YYYY-MM-DD" into midnight UTC, the form dates are stored in.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// DateOf truncates t to its calendar date in loc, expressed as midnight UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate compares calendar dates regardless of location or clock.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
