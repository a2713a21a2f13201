package aggregate

import (
	"fmt"
	"time"

	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/MikeRez0/conciliator/internal/core/query"
	"github.com/MikeRez0/conciliator/internal/core/utils"
	"github.com/govalues/decimal"
)

const monthLabelLayout = "Jan/2006"

// MaxSummaryMonths is the longest span of a monthly summary.
const MaxSummaryMonths = 24

// ComputeMonthlySummary returns one PeriodStat per calendar month touched by dateRange,
// empty months included. Orders are placed in months by their date in mode and must
// match channel. A range without both ends yields no months. A range starting after
// it ends or spanning more than MaxSummaryMonths months returns ErrInvalidFilter.
func ComputeMonthlySummary(
	orders []domain.Order,
	dateRange domain.DateRange,
	channel string,
	mode domain.FilterMode,
	rates CostRates,
) ([]domain.PeriodStat, error) {
	if dateRange.From.IsZero() || dateRange.To.IsZero() {
		return []domain.PeriodStat{}, nil
	}
	if domain.Day(dateRange.From).After(domain.Day(dateRange.To)) {
		return nil, fmt.Errorf("%w: date range starts after it ends", domain.ErrInvalidFilter)
	}
	first, last := monthStart(dateRange.From), monthStart(dateRange.To)
	if months := monthsBetween(first, last) + 1; months > MaxSummaryMonths {
		return nil, fmt.Errorf("%w: date range spans %d months, at most %d allowed",
			domain.ErrInvalidFilter, months, MaxSummaryMonths)
	}

	buckets := make(map[time.Time][]domain.Order)
	for _, o := range orders {
		if !query.MatchesChannel(o, channel) {
			continue
		}
		d, ok := query.EffectiveDate(o, mode)
		if !ok {
			continue
		}
		m := monthStart(d)
		buckets[m] = append(buckets[m], o)
	}

	stats := make([]domain.PeriodStat, 0)
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		s, err := computePeriod(m, buckets[m], rates)
		if err != nil {
			return nil, fmt.Errorf("month %s: %w", m.Format(monthLabelLayout), err)
		}
		stats = append(stats, s)
	}
	return stats, nil
}

func computePeriod(month time.Time, orders []domain.Order, rates CostRates) (domain.PeriodStat, error) {
	var c utils.Calc
	s := domain.PeriodStat{
		Month:                 month,
		Label:                 month.Format(monthLabelLayout),
		TotalOrders:           len(orders),
		TotalOrdersValue:      decimal.Zero,
		FinanciallyValidValue: decimal.Zero,
		ReconciledValue:       decimal.Zero,
		DifferenceValue:       decimal.Zero,
		Commissions:           decimal.Zero,
		Refunds:               decimal.Zero,
		TotalReceived:         decimal.Zero,
		PendingRelease:        decimal.Zero,
		Retained:              decimal.Zero,
	}

	for _, o := range orders {
		s.TotalOrdersValue = c.Add(s.TotalOrdersValue, o.SoldValue)

		switch o.FinancialStatus {
		case domain.FinancialStatusReleased:
			s.TotalReceived = c.Add(s.TotalReceived, o.ReceivedValue)
		case domain.FinancialStatusPendingRelease:
			s.PendingRelease = c.Add(s.PendingRelease, o.SoldValue)
		case domain.FinancialStatusRetained:
			s.Retained = c.Add(s.Retained, o.SoldValue)
		case domain.FinancialStatusRefunded, domain.FinancialStatusCancelled:
		}

		switch o.ReconciliationStatus {
		case domain.ReconciliationStatusDifferenceDetected:
			s.DifferenceOrders++
			s.DifferenceValue = c.Add(s.DifferenceValue, o.Difference.Abs())
		case domain.ReconciliationStatusNotReconciled:
			s.NotReconciledCount++
		case domain.ReconciliationStatusReconciled, domain.ReconciliationStatusInProgress:
		}

		if o.ReconciliationStatus == domain.ReconciliationStatusReconciled {
			s.ReconciledOrders++
			s.ReconciledValue = c.Add(s.ReconciledValue, o.SoldValue)
			for _, f := range o.Fees {
				s.Commissions = c.Add(s.Commissions, f.Value)
			}
			if o.FinancialStatus == domain.FinancialStatusRefunded {
				s.Refunds = c.Add(s.Refunds, o.RefundAmount())
			}
		}

		// cancelled orders only leave the denominator
		if o.FinancialStatus != domain.FinancialStatusCancelled {
			s.FinanciallyValidOrders++
			s.FinanciallyValidValue = c.Add(s.FinanciallyValidValue, o.SoldValue)
		}
	}

	s.ReconciledPercentage = c.Percent(s.ReconciledValue, s.FinanciallyValidValue, 0)

	s.FixedFees = c.Mul(s.ReconciledValue, rates.FixedFees)
	s.FreeShipping = c.Mul(s.ReconciledValue, rates.FreeShipping)
	s.Coupons = c.Mul(s.ReconciledValue, rates.Coupons)
	s.TotalCosts = c.Sum(s.Commissions, s.FixedFees, s.FreeShipping, s.Coupons, s.Refunds)
	s.CostsPercentage = c.Percent(s.TotalCosts, s.ReconciledValue, 0)

	s.NetToReceive = c.Sub(c.Sub(s.ReconciledValue, s.TotalCosts), s.TotalReceived)

	if err := c.Err(); err != nil {
		return domain.PeriodStat{}, err
	}
	return s, nil
}

func monthsBetween(first, last time.Time) int {
	return (last.Year()-first.Year())*12 + int(last.Month()) - int(first.Month())
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
