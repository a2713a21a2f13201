package domain

import (
	"fmt"
	"time"

	"github.com/govalues/decimal"
)

// FilterMode selects which date of an order is compared with a date range.
type FilterMode string

const (
	FilterModeSaleDate    FilterMode = "sale_date"
	FilterModePaymentDate FilterMode = "payment_date"
)

func (m FilterMode) Validate() error {
	switch m {
	case FilterModeSaleDate, FilterModePaymentDate:
		return nil
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidFilter, string(m))
	}
}

// ChannelAll disables channel filtering.
const ChannelAll = "all"

// DateRange is an inclusive range of calendar days. A zero From is unbounded,
// a zero To is resolved to the reference day of the caller.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Validate checks a range supplied from outside: both ends set, ordered,
// not in the future and no longer than maxDays.
func (r DateRange) Validate(now time.Time, maxDays int) error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("%w: date range must have both ends", ErrInvalidFilter)
	}
	from, to := Day(r.From), Day(r.To)
	if from.After(to) {
		return fmt.Errorf("%w: date range starts after it ends", ErrInvalidFilter)
	}
	if to.After(Day(now)) {
		return fmt.Errorf("%w: date range ends in the future", ErrInvalidFilter)
	}
	if maxDays > 0 && to.Sub(from) > time.Duration(maxDays)*24*time.Hour {
		return fmt.Errorf("%w: date range is longer than %d days", ErrInvalidFilter, maxDays)
	}
	return nil
}

// Filter describes a query over orders. Empty status sets accept every status.
type Filter struct {
	Mode                 FilterMode
	DateRange            DateRange
	FinancialStatus      []FinancialStatus
	ReconciliationStatus []ReconciliationStatus
	MinDifference        *decimal.Decimal
	Channel              string
}

// Day truncates t to the UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
