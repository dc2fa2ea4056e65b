package budget

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidPeriod = errors.New("invalid budget period")

// Budget is a single category's planned amount for one calendar month.
// StartDate is always the first day of the month and EndDate the last,
// so (CategoryID, StartDate) identifies a row uniquely.
type Budget struct {
	ID         int
	CategoryID int
	Amount     decimal.Decimal
	StartDate  time.Time
	EndDate    time.Time
	IsPaid     bool
}

// ValidatePeriod rejects months outside the calendar and years outside the
// supported range.
func ValidatePeriod(year int, month int) error {
	if year < 1900 || year > 2200 || month < 1 || month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}

// MonthStart returns midnight UTC on the first day of the given month.
func MonthStart(year int, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns midnight UTC on the last day of the given month.
func MonthEnd(year int, month int) time.Time {
	return MonthStart(year, month).AddDate(0, 1, -1)
}

// PreviousMonth returns the year and month immediately before the given one.
func PreviousMonth(year int, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}
