package validators

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"mealhub/internal/utils"
)

var ddmmyyyyRegex = regexp.MustCompile(`^([0-9]{2})/([0-9]{2})/([0-9]{4})$`)

const (
	minYear = 1900
	maxYear = 2100
)

// ParseDDMMYYYY parses a strict DD/MM/YYYY literal as a UTC date. Out of
// range components and days that do not exist in the month are rejected,
// never clamped.
func ParseDDMMYYYY(value string) (time.Time, error) {
	m := ddmmyyyyRegex.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, utils.ErrInvalidDateFormat
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if day < 1 || day > 31 || month < 1 || month > 12 || year < minYear || year > maxYear {
		return time.Time{}, utils.ErrInvalidDateFormat
	}
	if day > daysIn(time.Month(month), year) {
		return time.Time{}, utils.ErrInvalidDateFormat
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ParseDDMMYYYYField is ParseDDMMYYYY with the field name in the error.
func ParseDDMMYYYYField(field, value string) (time.Time, error) {
	t, err := ParseDDMMYYYY(value)
	if err != nil {
		return time.Time{}, &utils.AppError{
			Kind:    utils.KindValidation,
			Code:    utils.ErrInvalidDateFormat.Code,
			Message: utils.ErrInvalidDateFormat.Message,
			Details: []string{fmt.Sprintf("%s must be a valid date in DD/MM/YYYY format", field)},
		}
	}
	return t, nil
}

// ParseISODate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseISODate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ISO-8601 date %q", value)
	}
	return t, nil
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
