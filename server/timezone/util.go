// Package timezone handles market-calendar time math. The exchange runs on
// Korea Standard Time; price dates and report timestamps are rendered in KST
// regardless of where the server runs.
package timezone

import (
	"time"

	"github.com/pkg/errors"
)

// TimezoneAsiaSeoul is the Korea Standard Time identifier.
const TimezoneAsiaSeoul = "Asia/Seoul"

// LocationAsiaSeoul is the pre-loaded KST location.
var LocationAsiaSeoul = MustParseTimezone(TimezoneAsiaSeoul)

// ParseTimezone parses an IANA timezone identifier. An empty identifier or
// "UTC" maps to UTC; invalid identifiers return UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC, errors.Wrapf(err, "invalid timezone %q", tz)
	}
	return loc, nil
}

// MustParseTimezone parses a timezone or panics. For compile-time constants.
func MustParseTimezone(tz string) *time.Location {
	loc, err := ParseTimezone(tz)
	if err != nil {
		panic(err)
	}
	return loc
}

// MarketDate formats a time as the exchange's trading date (KST).
func MarketDate(t time.Time) string {
	return t.In(LocationAsiaSeoul).Format("2006-01-02")
}

// IsTradingDay reports whether the exchange is open on t's KST date.
// Weekends only; public holidays are not modeled.
func IsTradingDay(t time.Time) bool {
	switch t.In(LocationAsiaSeoul).Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// PreviousTradingDay returns the last trading day strictly before t.
func PreviousTradingDay(t time.Time) time.Time {
	day := t.In(LocationAsiaSeoul).AddDate(0, 0, -1)
	for !IsTradingDay(day) {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// ParseDate parses a "2006-01-02" trading date in KST.
func ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", date, LocationAsiaSeoul)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q", date)
	}
	return t, nil
}

// StartOfDay returns midnight of t's KST date.
func StartOfDay(t time.Time) time.Time {
	kst := t.In(LocationAsiaSeoul)
	return time.Date(kst.Year(), kst.Month(), kst.Day(), 0, 0, 0, 0, LocationAsiaSeoul)
}
