package tcdd

import (
	"fmt"
	"time"
)

const (
	dateLayout    = "2006-01-02"
	apiDateLayout = "02-01-2006"
)

// istanbul is the timezone all API timestamps are rendered in.
var istanbul = loadIstanbul()

func loadIstanbul() *time.Location {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		return time.FixedZone("TRT", 3*60*60)
	}
	return loc
}

// APIDate converts a YYYY-MM-DD date to the request format the
// availability endpoint expects ("DD-MM-YYYY 00:00:00").
func APIDate(date string) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return t.Format(apiDateLayout) + " 00:00:00", nil
}

// ParseAPIDate is the inverse of APIDate, accepting values with or
// without the time suffix.
func ParseAPIDate(apiDate string) (string, error) {
	if len(apiDate) > len(apiDateLayout) {
		apiDate = apiDate[:len(apiDateLayout)]
	}
	t, err := time.Parse(apiDateLayout, apiDate)
	if err != nil {
		return "", fmt.Errorf("parse api date %q: %w", apiDate, err)
	}
	return t.Format(dateLayout), nil
}

// ClockTime formats an epoch-millis timestamp as HH:MM in the API's
// timezone. Window filtering compares these strings lexicographically.
func ClockTime(millis int64) string {
	return time.UnixMilli(millis).In(istanbul).Format("15:04")
}
