package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
		wantErr bool
	}{
		{"08:00", 480, false},
		{"8:30", 510, false},
		{" 12:15 ", 735, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"12:60", 0, true},
		{"12:5", 0, true},
		{"noon", 0, true},
		{"+8:00", 0, true},
		{"-0:30", 0, true},
		{"08:+5", 0, true},
		{"008:00", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, got)
		})
	}
}

func TestNormalizeClock(t *testing.T) {
	got, err := NormalizeClock("8:05")
	require.NoError(t, err)
	assert.Equal(t, "08:05", got)
}

func TestSplit(t *testing.T) {
	slots, err := Split("08:00", "10:00", 30)
	require.NoError(t, err)
	assert.Equal(t, []Interval{
		{"08:00", "08:30"}, {"08:30", "09:00"}, {"09:00", "09:30"}, {"09:30", "10:00"},
	}, slots)

	// A trailing remainder shorter than one slot is dropped.
	slots, err = Split("08:00", "09:45", 60)
	require.NoError(t, err)
	assert.Equal(t, []Interval{{"08:00", "09:00"}}, slots)

	_, err = Split("10:00", "09:00", 30)
	assert.ErrorIs(t, err, ErrInvertedWindow)

	_, err = Split("08:00", "09:00", 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(Interval{"08:00", "12:00"}, Interval{"11:00", "13:00"}))
	assert.False(t, Overlaps(Interval{"08:00", "12:00"}, Interval{"12:00", "16:00"}))
	assert.False(t, Overlaps(Interval{"08:00", "bad"}, Interval{"09:00", "10:00"}))
}

func TestAtUsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	date, err := ParseDate("2024-05-02")
	require.NoError(t, err)

	at, err := At(date, "09:30", jakarta)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 2, 30, 0, 0, time.UTC), at.UTC())
}

func TestDateOf(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	// 20:00 UTC on May 1 is already May 2 in Jakarta.
	got := DateOf(time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC), jakarta)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), got)
	assert.True(t, SameDate(got, time.Date(2024, 5, 2, 23, 0, 0, 0, jakarta)))
}
