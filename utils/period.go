package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Period is a closed instant interval [Start, End] anchored to an
// organization's timezone. End is the last nanosecond of the period, so
// inclusive comparisons (`!t.Before(Start) && !t.After(End)`) cover the whole
// calendar unit.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

var (
	fullDatePattern  = regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}$`)
	yearMonthPattern = regexp.MustCompile(`^\d{4}[-/]\d{2}$`)
)

// LoadTimezone resolves an IANA timezone name, defaulting to UTC when the
// organization has none configured.
func LoadTimezone(timezone string) (*time.Location, error) {
	if timezone == "" {
		timezone = "UTC"
	}
	return time.LoadLocation(timezone)
}

// GetDateRange resolves the day/month/year period containing the given
// calendar date, anchored to the organization's timezone. The date is parsed
// as a calendar date in that timezone, not as UTC midnight shifted.
// Accepts YYYY-MM-DD and YYYY/MM/DD.
func GetDateRange(filterType string, date string, timezone string) (Period, error) {
	if !fullDatePattern.MatchString(date) {
		return Period{}, fmt.Errorf("%w: invalid date format, use YYYY-MM-DD or YYYY/MM/DD", ErrInvalidInput)
	}

	// Both separators normalize to the same parse path.
	normalized := strings.ReplaceAll(date, "/", "-")
	parts := strings.Split(normalized, "-")
	year, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	day, _ := strconv.Atoi(parts[2])

	if year == 0 || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: invalid year or month in date", ErrInvalidInput)
	}

	// time.Date normalizes overflow (Feb 31 -> Mar 2); a date that does not
	// round-trip through its own components does not exist on the calendar.
	if check := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC); check.Year() != year ||
		check.Month() != time.Month(month) || check.Day() != day {
		return Period{}, fmt.Errorf("%w: invalid day in date", ErrInvalidInput)
	}

	loc, err := LoadTimezone(timezone)
	if err != nil {
		return Period{}, err
	}

	var start time.Time
	var end time.Time
	switch filterType {
	case "day":
		start = time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	case "month":
		start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	case "year":
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	default:
		return Period{}, fmt.Errorf("%w: invalid filter type, use 'month', 'year', or 'day'", ErrInvalidInput)
	}

	return Period{Start: start, End: end}, nil
}

// GetMonthRange resolves the calendar month named by a YYYY-MM or YYYY/MM
// date, anchored to the organization's timezone.
func GetMonthRange(date string, timezone string) (Period, error) {
	year, month, err := splitYearMonth(date)
	if err != nil {
		return Period{}, err
	}

	loc, err := LoadTimezone(timezone)
	if err != nil {
		return Period{}, err
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Period{Start: start, End: end}, nil
}

// GetPreviousMonthRange resolves the calendar month immediately preceding the
// YYYY-MM date, with the same timezone anchor. Used for period-over-period
// retention/churn comparisons.
func GetPreviousMonthRange(date string, timezone string) (Period, error) {
	year, month, err := splitYearMonth(date)
	if err != nil {
		return Period{}, err
	}

	loc, err := LoadTimezone(timezone)
	if err != nil {
		return Period{}, err
	}

	// time.Date normalizes month 0 to December of the previous year.
	start := time.Date(year, month-1, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, month, 1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	return Period{Start: start, End: end}, nil
}

func splitYearMonth(date string) (int, time.Month, error) {
	if !yearMonthPattern.MatchString(date) {
		return 0, 0, fmt.Errorf("%w: invalid date format, use YYYY/MM or YYYY-MM", ErrInvalidInput)
	}

	parts := strings.FieldsFunc(date, func(r rune) bool { return r == '-' || r == '/' })
	year, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])

	if year == 0 || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: invalid year or month in date", ErrInvalidInput)
	}
	return year, time.Month(month), nil
}
