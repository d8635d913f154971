package calculator

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned for any occasion date that is malformed, does
// not exist on the calendar, or lies in the past. The text is user-facing.
var ErrInvalidDate = errors.New("Invalid date given.")

// Date is a parsed calendar date. Month is 1-based.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Today is the reference "now" for date validation. It is supplied by a
// Clock so validation stays a pure function of its inputs.
type Today struct {
	Year    int
	Month   time.Month
	Day     int
	Weekday time.Weekday
}

// Clock supplies the reference date. Inject a fixed clock in tests.
type Clock func() Today

// SystemClock returns the current local date.
func SystemClock() Today {
	now := time.Now()
	return Today{
		Year:    now.Year(),
		Month:   now.Month(),
		Day:     now.Day(),
		Weekday: now.Weekday(),
	}
}

// ParseDate parses a "YYYY-MM-DD" string. All three fields must be present
// and numeric; anything else is rejected rather than propagated as garbage.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, ErrInvalidDate
	}

	var fields [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Date{}, ErrInvalidDate
		}
		fields[i] = n
	}

	return Date{Year: fields[0], Month: fields[1], Day: fields[2]}, nil
}

// ValidateOccasionDate checks that the given "YYYY-MM-DD" string names a real
// calendar date that is not before today. It returns nil when the date is
// acceptable and ErrInvalidDate otherwise.
//
// The boundary for "today, this month" compares the day-of-month. The
// original UI compared against the day-of-week index here; that was a bug,
// not intent, and is corrected.
func ValidateOccasionDate(s string, today Today) error {
	d, err := ParseDate(s)
	if err != nil {
		return err
	}

	switch {
	case d.Year < today.Year:
		return ErrInvalidDate
	case d.Month > 12:
		return ErrInvalidDate
	case d.Year == today.Year && d.Month < int(today.Month):
		return ErrInvalidDate
	case !validDay(d.Year, d.Month, d.Day):
		return ErrInvalidDate
	case d.Year == today.Year && d.Month == int(today.Month) && d.Day < today.Day:
		return ErrInvalidDate
	}

	return nil
}

// daysInMonth holds the day count for each month of a non-leap year.
var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func validDay(year, month, day int) bool {
	if month < 1 || month > 12 {
		return false
	}

	days := daysInMonth[month-1]
	if month == 2 && isLeapYear(year) {
		days = 29
	}

	return day >= 1 && day <= days
}

// isLeapYear applies the Gregorian rule: divisible by 4, except centuries
// not divisible by 400.
func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
