package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Receipt dates are calendar days with no time component.
const ReceiptDateFormat = "2006-01-02"

var monthParamPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ParseReceiptDate parses a receipt date string. Returns zero time if
// parsing fails; callers treat zero dates as "sorts before everything".
func ParseReceiptDate(dateStr string) time.Time {
	t, err := time.Parse(ReceiptDateFormat, dateStr)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseMonthParam validates a "YYYY-MM" query value and returns the first
// day of that month and the first day of the following month.
func ParseMonthParam(month string) (start, end time.Time, err error) {
	if !monthParamPattern.MatchString(month) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}
	year, _ := strconv.Atoi(month[:4])
	mon, _ := strconv.Atoi(month[5:])
	if mon < 1 || mon > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q, month must be 01-12", month)
	}
	start = time.Date(year, time.Month(mon), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}

// MonthWindow returns the [start, end) window for a numeric year/month pair.
func MonthWindow(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
