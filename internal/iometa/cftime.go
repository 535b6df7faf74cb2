package iometa

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// calendar converts dates to day numbers and back. Day numbers are
// counted from an epoch specific to the calendar, so only differences
// of day numbers from the same calendar are meaningful.
type calendar interface {
	dayNumber(year, month, day int, frac float64) float64
	date(dayNumber float64) time.Time
}

// newCalendar returns the calendar of a CF calendar attribute. Empty name
// means "standard".
func newCalendar(name string) (calendar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard", "gregorian", "proleptic_gregorian":
		return gregorian{}, nil
	case "noleap", "365_day":
		return fixedYear{
			months: [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31},
		}, nil
	case "all_leap", "366_day":
		return fixedYear{
			months: [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31},
		}, nil
	case "360_day":
		return fixedYear{
			months: [12]int{30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
		}, nil
	}
	return nil, fmt.Errorf("unsupported calendar '%s'", name)
}

var unixEpoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// gregorian is the proleptic Gregorian calendar of the time package.
type gregorian struct{}

func (gregorian) dayNumber(year, month, day int, frac float64) float64 {
	return float64(daysFromCivil(year, month, day)) + frac
}

func (gregorian) date(dayNumber float64) time.Time {
	whole := math.Floor(dayNumber)
	res := unixEpoch.AddDate(0, 0, int(whole))
	return res.Add(fracDuration(dayNumber - whole))
}

// daysFromCivil counts days from 1970-01-01 in the proleptic Gregorian
// calendar.
func daysFromCivil(y, m, d int) int {
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era--
	}
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// fixedYear is a calendar where every year has the same months.
type fixedYear struct {
	months [12]int
}

func (c fixedYear) yearLength() int {
	var res int
	for _, v := range c.months {
		res += v
	}
	return res
}

func (c fixedYear) dayNumber(year, month, day int, frac float64) float64 {
	days := year * c.yearLength()
	for i := 0; i < month-1; i++ {
		days += c.months[i]
	}
	return float64(days+day-1) + frac
}

// date returns the calendar date as a Gregorian time.Time. Days that do
// not exist in the Gregorian calendar (for example February 30 of
// 360_day) are moved to the last day of the month.
func (c fixedYear) date(dayNumber float64) time.Time {
	whole := math.Floor(dayNumber)
	frac := dayNumber - whole
	ylen := c.yearLength()

	n := int(whole)
	year := n / ylen
	rest := n % ylen
	if rest < 0 {
		year--
		rest += ylen
	}

	month := 0
	for rest >= c.months[month] {
		rest -= c.months[month]
		month++
	}
	day := rest + 1

	last := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
	day = min(day, last)
	res := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
	return res.Add(fracDuration(frac))
}

func fracDuration(frac float64) time.Duration {
	return time.Duration(math.Round(frac*86400)) * time.Second
}

// timeUnits is a parsed CF time units string like
// "days since 1850-1-1".
type timeUnits struct {
	// unitDays is the length of one unit in days.
	unitDays float64
	// ref is the day number of the reference date.
	ref float64
}

// parseTimeUnits parses "<unit> since <date>[ <time>]" under a calendar.
func parseTimeUnits(units string, cal calendar) (timeUnits, error) {
	var res timeUnits

	parts := strings.SplitN(strings.TrimSpace(units), " since ", 2)
	if len(parts) != 2 {
		return res, fmt.Errorf("time units '%s' are not '<unit> since <date>'", units)
	}

	switch strings.ToLower(strings.TrimSpace(parts[0])) {
	case "days", "day", "d":
		res.unitDays = 1
	case "hours", "hour", "hr", "h":
		res.unitDays = 1.0 / 24
	case "minutes", "minute", "min":
		res.unitDays = 1.0 / 1440
	case "seconds", "second", "sec", "s":
		res.unitDays = 1.0 / 86400
	default:
		return res, fmt.Errorf("unsupported time unit '%s'", parts[0])
	}

	y, m, d, frac, err := parseRefDate(parts[1])
	if err != nil {
		return res, fmt.Errorf("time units '%s': %w", units, err)
	}
	res.ref = cal.dayNumber(y, m, d, frac)
	return res, nil
}

// dayNumber converts a time value to a day number of the calendar.
func (u timeUnits) dayNumber(v float64) float64 {
	return u.ref + v*u.unitDays
}

// parseRefDate parses reference dates like "1850-1-1",
// "1940-01-01 00:00:00" or "2001-01-01T12:00:00Z".
func parseRefDate(s string) (year, month, day int, frac float64, err error) {
	s = strings.TrimSpace(s)
	s = strings.Replace(s, "T", " ", 1)
	fields := strings.Fields(s)
	if len(fields) == 0 {
		err = fmt.Errorf("empty reference date")
		return
	}

	ymd := strings.Split(fields[0], "-")
	neg := false
	if strings.HasPrefix(fields[0], "-") {
		neg = true
		ymd = strings.Split(fields[0][1:], "-")
	}
	if len(ymd) != 3 {
		err = fmt.Errorf("bad reference date '%s'", fields[0])
		return
	}
	nums := make([]int, 3)
	for i, v := range ymd {
		nums[i], err = strconv.Atoi(v)
		if err != nil {
			err = fmt.Errorf("bad reference date '%s'", fields[0])
			return
		}
	}
	year, month, day = nums[0], nums[1], nums[2]
	if neg {
		year = -year
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		err = fmt.Errorf("bad reference date '%s'", fields[0])
		return
	}

	if len(fields) < 2 {
		return
	}
	clock := strings.TrimSuffix(fields[1], "Z")
	hms := strings.Split(clock, ":")
	var secs float64
	for i, v := range hms {
		if i > 2 {
			break
		}
		var f float64
		f, err = strconv.ParseFloat(v, 64)
		if err != nil {
			err = fmt.Errorf("bad reference time '%s'", fields[1])
			return
		}
		secs += f * math.Pow(60, float64(2-i))
	}
	frac = secs / 86400
	return
}
