package query

import (
	"fmt"
	"slices"
	"time"

	"github.com/ncpp/dscat/pkg/schema"
)

// Validate checks arguments of a field query.
func (f FieldFilter) Validate() error {
	if f.Kind != KindVariable && f.Kind != KindIndex {
		return fmt.Errorf("kind must be 'variable' or 'index', got '%s'", f.Kind)
	}
	if f.TimeFrequency != "" && !schema.IsFrequency(f.TimeFrequency) {
		return fmt.Errorf(
			"time frequency must be 'day', 'month' or 'year', got '%s'",
			f.TimeFrequency,
		)
	}
	return f.TimeRange.Validate()
}

// Validate checks arguments of a package query.
func (f PackageFilter) Validate() error {
	return f.TimeRange.Validate()
}

// Validate checks that Start is not after Stop. Nil range is valid.
func (r *TimeRange) Validate() error {
	if r == nil {
		return nil
	}
	if r.Start.IsZero() || r.Stop.IsZero() {
		return fmt.Errorf("time range needs both start and stop")
	}
	if r.Start.After(r.Stop) {
		return fmt.Errorf("time range start %s is after stop %s",
			r.Start.Format("2006-01-02"), r.Stop.Format("2006-01-02"))
	}
	return nil
}

// Contains reports if t is inside [start, stop], bounds included.
func Contains(start, stop, t time.Time) bool {
	return !t.Before(start) && !t.After(stop)
}

// Matches reports if an entry spanning [start, stop] matches the range
// under endpoint containment.
func (r *TimeRange) Matches(start, stop time.Time) bool {
	if r == nil {
		return true
	}
	return Contains(start, stop, r.Start) || Contains(start, stop, r.Stop)
}

// Distinct returns sorted unique values.
func Distinct(vals []string) []string {
	res := slices.Clone(vals)
	slices.Sort(res)
	return slices.Compact(res)
}

var dateLayouts = []string{time.DateOnly, time.RFC3339}

// ParseDate reads a YYYY-MM-DD date or an RFC 3339 timestamp as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date '%s', use YYYY-MM-DD", s)
}
