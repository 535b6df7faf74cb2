package iometa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestCalendars(t *testing.T) {
	tests := []struct {
		msg, calendar, units string
		value                float64
		want                 time.Time
	}{
		{"noleap", "365_day", "days since 1850-1-1", 55115, date(2001, 1, 1)},
		{"noleap end", "noleap", "days since 1850-1-1", 58765, date(2011, 1, 1)},
		{"noleap skips feb 29", "365_day", "days since 2000-02-28", 1, date(2000, 3, 1)},
		{"all_leap feb 29 in a common year", "366_day", "days since 2001-02-28", 1, date(2001, 2, 28)},
		{"360_day", "360_day", "days since 2000-01-01", 360, date(2001, 1, 1)},
		{"360_day feb 30", "360_day", "days since 2000-02-01", 29, date(2000, 2, 29)},
		{"standard", "standard", "days since 1940-01-01 00:00:00", 11323, date(1971, 1, 1)},
		{"standard end", "", "days since 1940-01-01 00:00:00", 22280, date(2000, 12, 31)},
		{"gregorian hours", "gregorian", "hours since 2000-01-01", 36, date(2000, 1, 2).Add(12 * time.Hour)},
		{"seconds", "proleptic_gregorian", "seconds since 1970-01-01T00:00:00Z", 86400, date(1970, 1, 2)},
		{"far past", "standard", "days since 0001-01-01", 0, date(1, 1, 1)},
		{"negative", "standard", "days since 2000-01-01", -1, date(1999, 12, 31)},
		{"ref time", "standard", "days since 2000-01-01 12:00", 0.5, date(2000, 1, 2)},
	}

	for _, v := range tests {
		cal, err := newCalendar(v.calendar)
		require.NoError(t, err, v.msg)
		tu, err := parseTimeUnits(v.units, cal)
		require.NoError(t, err, v.msg)
		got := cal.date(tu.dayNumber(v.value))
		assert.True(t, v.want.Equal(got), "%s: want %s, got %s", v.msg, v.want, got)
	}
}

func TestCalendarErrors(t *testing.T) {
	_, err := newCalendar("julian")
	assert.Error(t, err)

	cal, err := newCalendar("standard")
	require.NoError(t, err)
	for _, units := range []string{
		"days",
		"fortnights since 2000-01-01",
		"days since 2000-13-01",
		"days since yesterday",
		"days since 2000-01-01 noon",
	} {
		_, err = parseTimeUnits(units, cal)
		assert.Error(t, err, units)
	}
}

func TestDaysFromCivil(t *testing.T) {
	assert.Equal(t, 0, daysFromCivil(1970, 1, 1))
	assert.Equal(t, 11016, daysFromCivil(2000, 2, 29))
	assert.Equal(t, -719162, daysFromCivil(1, 1, 1))
}
