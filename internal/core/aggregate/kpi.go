package aggregate

import (
	"sort"
	"time"

	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/MikeRez0/conciliator/internal/core/utils"
	"github.com/govalues/decimal"
)

// ComputeKPIs computes the dashboard indicators of orders. Ratios with a zero
// denominator are zero. The error is returned only on decimal overflow.
func ComputeKPIs(orders []domain.Order) (domain.KPISet, error) {
	var c utils.Calc
	k := domain.KPISet{
		RecoveredValue:     decimal.Zero,
		ConfirmedCostValue: decimal.Zero,
		SupportOpenValue:   decimal.Zero,
		ReconciledValue:    decimal.Zero,
		EligibleTotal:      decimal.Zero,
		Automation:         domain.AutomationEligibility{Value: decimal.Zero},
	}

	financial := make(map[domain.FinancialStatus]*domain.FinancialShare, len(domain.FinancialStatuses))
	for _, s := range domain.FinancialStatuses {
		financial[s] = &domain.FinancialShare{Status: s, Value: decimal.Zero}
	}
	reconciliation := make(map[domain.ReconciliationStatus]int, len(domain.ReconciliationStatuses))

	for _, o := range orders {
		switch o.DifferenceStatus {
		case domain.DifferenceStatusRecovered:
			k.RecoveredValue = c.Add(k.RecoveredValue, o.Difference.Abs())
			k.ResolvedCount++
		case domain.DifferenceStatusConfirmedCost:
			k.ConfirmedCostValue = c.Add(k.ConfirmedCostValue, o.Difference.Abs())
			k.ResolvedCount++
		case domain.DifferenceStatusSupportOpen:
			k.SupportOpenValue = c.Add(k.SupportOpenValue, o.Difference.Abs())
		case domain.DifferenceStatusDetected, domain.DifferenceStatusNone:
		}

		if !o.Difference.IsZero() {
			k.WithDifferenceCount++
		}
		if o.ReconciliationStatus == domain.ReconciliationStatusReconciled {
			k.ReconciledCount++
			k.ReconciledValue = c.Add(k.ReconciledValue, o.SoldValue)
			if o.FinancialStatus == domain.FinancialStatusReleased {
				k.Automation.Count++
				k.Automation.Value = c.Add(k.Automation.Value, o.ReceivedValue)
			}
		}
		if o.FinancialStatus != domain.FinancialStatusCancelled {
			k.EligibleTotal = c.Add(k.EligibleTotal, o.SoldValue)
		}

		if share, ok := financial[o.FinancialStatus]; ok {
			share.Count++
			share.Value = c.Add(share.Value, financialValue(o))
		}
		reconciliation[o.ReconciliationStatus]++
	}

	resolved := c.Add(k.RecoveredValue, k.ConfirmedCostValue)
	k.RecoveryRate = c.Round(c.Ratio(k.RecoveredValue, resolved), 4)
	k.RecoveryRatePercent = c.Percent(k.RecoveredValue, resolved, 0)
	k.ReconciledPercentage = c.Percent(k.ReconciledValue, k.EligibleTotal, 0)
	k.Automation.Ready = k.Automation.Value.Cmp(AutomationThreshold) >= 0
	k.TimeSavedHours = c.Round(c.Mul(decimal.MustNew(int64(k.ReconciledCount), 0), HoursSavedPerOrder), 1)

	k.FinancialDistribution = make([]domain.FinancialShare, 0, len(domain.FinancialStatuses))
	for _, s := range domain.FinancialStatuses {
		k.FinancialDistribution = append(k.FinancialDistribution, *financial[s])
	}
	k.ReconciliationDistribution = make([]domain.ReconciliationShare, 0, len(domain.ReconciliationStatuses))
	for _, s := range domain.ReconciliationStatuses {
		k.ReconciliationDistribution = append(k.ReconciliationDistribution,
			domain.ReconciliationShare{Status: s, Count: reconciliation[s]})
	}

	k.Resolution = make([]domain.ResolutionShare, 0, 3)
	for _, r := range []domain.ResolutionShare{
		{Status: domain.DifferenceStatusRecovered, Value: k.RecoveredValue},
		{Status: domain.DifferenceStatusConfirmedCost, Value: k.ConfirmedCostValue},
		{Status: domain.DifferenceStatusSupportOpen, Value: k.SupportOpenValue},
	} {
		if r.Value.IsPos() {
			k.Resolution = append(k.Resolution, r)
		}
	}

	k.TopFeeCauses = topFeeCauses(&c, orders, TopFeeCauses)

	var expected, received decimal.Decimal
	k.Timeline, expected, received = timeline(&c, orders, TimelineDays)
	k.AverageGapPercent = c.Percent(c.Sub(expected, received), expected, 1)

	if err := c.Err(); err != nil {
		return domain.KPISet{}, err
	}
	return k, nil
}

// financialValue is the amount an order contributes to its financial status share.
func financialValue(o domain.Order) decimal.Decimal {
	switch o.FinancialStatus {
	case domain.FinancialStatusReleased:
		return o.ReceivedValue
	case domain.FinancialStatusPendingRelease, domain.FinancialStatusRetained:
		return o.SoldValue
	case domain.FinancialStatusRefunded:
		return o.RefundAmount()
	default:
		return decimal.Zero
	}
}

func topFeeCauses(c *utils.Calc, orders []domain.Order, limit int) []domain.FeeCause {
	causes := make([]domain.FeeCause, 0)
	index := make(map[string]int)
	for _, o := range orders {
		for _, f := range o.Fees {
			i, ok := index[f.Name]
			if !ok {
				index[f.Name] = len(causes)
				causes = append(causes, domain.FeeCause{Name: f.Name, Value: f.Value})
				continue
			}
			causes[i].Value = c.Add(causes[i].Value, f.Value)
		}
	}

	sort.SliceStable(causes, func(i, j int) bool {
		return causes[i].Value.Cmp(causes[j].Value) > 0
	})
	if len(causes) > limit {
		causes = causes[:limit]
	}
	return causes
}

// timeline groups orders by sale day and keeps the last days entries. It also
// returns the expected and received totals of the kept entries.
func timeline(c *utils.Calc, orders []domain.Order, days int) ([]domain.TimelinePoint, decimal.Decimal, decimal.Decimal) {
	byDay := make(map[time.Time]*domain.TimelinePoint)
	for _, o := range orders {
		d := domain.Day(o.Date)
		p, ok := byDay[d]
		if !ok {
			p = &domain.TimelinePoint{Date: d, Expected: decimal.Zero, Received: decimal.Zero}
			byDay[d] = p
		}
		p.Expected = c.Add(p.Expected, o.SoldValue)
		p.Received = c.Add(p.Received, o.ReceivedValue)
	}

	points := make([]domain.TimelinePoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	if len(points) > days {
		points = points[len(points)-days:]
	}

	expected, received := decimal.Zero, decimal.Zero
	for _, p := range points {
		expected = c.Add(expected, p.Expected)
		received = c.Add(received, p.Received)
	}
	return points, expected, received
}
