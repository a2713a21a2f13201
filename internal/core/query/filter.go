package query

import (
	"strings"
	"time"

	"github.com/MikeRez0/conciliator/internal/core/domain"
)

// EstimatedReleaseDays is the settlement delay assumed for released orders without a release date.
const EstimatedReleaseDays = 7

// EffectiveDate returns the date of order compared with date ranges in the given mode.
// In payment date mode orders that are neither dated nor released have no date.
func EffectiveDate(order domain.Order, mode domain.FilterMode) (time.Time, bool) {
	if mode != domain.FilterModePaymentDate {
		return domain.Day(order.Date), true
	}
	if order.ReleaseDate != nil {
		return domain.Day(*order.ReleaseDate), true
	}
	if order.FinancialStatus == domain.FinancialStatusReleased {
		return domain.Day(order.Date).AddDate(0, 0, EstimatedReleaseDays), true
	}
	return time.Time{}, false
}

// MatchesChannel matches a channel key such as "mercado_livre" against the
// channel name of an order, case insensitive.
func MatchesChannel(order domain.Order, channel string) bool {
	if channel == "" || channel == domain.ChannelAll {
		return true
	}
	key := strings.ToLower(strings.ReplaceAll(channel, "_", " "))
	return strings.Contains(strings.ToLower(order.Channel), key)
}

// FilterOrders returns the orders matching every predicate of f in their input order.
// A range without ends matches every date, a range with only a start ends on the day of now.
func FilterOrders(orders []domain.Order, f domain.Filter, now time.Time) []domain.Order {
	from, to := bounds(f.DateRange, now)

	result := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if !matchDate(o, f.Mode, from, to) {
			continue
		}
		if !containsStatus(f.FinancialStatus, o.FinancialStatus) {
			continue
		}
		if !containsStatus(f.ReconciliationStatus, o.ReconciliationStatus) {
			continue
		}
		if f.MinDifference != nil && o.Difference.Abs().Cmp(*f.MinDifference) < 0 {
			continue
		}
		if !MatchesChannel(o, f.Channel) {
			continue
		}
		result = append(result, o.Clone())
	}
	return result
}

// bounds resolves r to day bounds. A range without ends is open on both sides,
// a range with only a start ends on the day of now.
func bounds(r domain.DateRange, now time.Time) (time.Time, time.Time) {
	var from, to time.Time
	if !r.From.IsZero() {
		from = domain.Day(r.From)
		to = domain.Day(now)
	}
	if !r.To.IsZero() {
		to = domain.Day(r.To)
	}
	return from, to
}

func matchDate(o domain.Order, mode domain.FilterMode, from, to time.Time) bool {
	d, ok := EffectiveDate(o, mode)
	if !ok {
		return false
	}
	if !from.IsZero() && d.Before(from) {
		return false
	}
	return to.IsZero() || !d.After(to)
}

func containsStatus[T comparable](set []T, v T) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
