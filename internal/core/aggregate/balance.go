package aggregate

import (
	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/MikeRez0/conciliator/internal/core/utils"
	"github.com/govalues/decimal"
)

// ComputeBalance computes
//
//	reconciled = received(released) + sold(pending_release) + sold(retained) - refund(refunded)
//
// and the open differences of orders. The error is returned only on decimal overflow.
func ComputeBalance(orders []domain.Order, cfg Config) (domain.BalanceSummary, error) {
	var c utils.Calc
	b := domain.BalanceSummary{
		TotalReceived:         decimal.Zero,
		PendingRelease:        decimal.Zero,
		Retained:              decimal.Zero,
		Refunds:               decimal.Zero,
		UnresolvedDifferences: decimal.Zero,
	}

	for _, o := range orders {
		switch o.FinancialStatus {
		case domain.FinancialStatusReleased:
			b.TotalReceived = c.Add(b.TotalReceived, o.ReceivedValue)
		case domain.FinancialStatusPendingRelease:
			b.PendingRelease = c.Add(b.PendingRelease, o.SoldValue)
		case domain.FinancialStatusRetained:
			b.Retained = c.Add(b.Retained, o.SoldValue)
		case domain.FinancialStatusRefunded:
			b.Refunds = c.Add(b.Refunds, o.RefundAmount())
		case domain.FinancialStatusCancelled:
		}

		if o.HasUnresolvedDifference() {
			b.UnresolvedDifferences = c.Add(b.UnresolvedDifferences, o.Difference.Abs())
			b.UnresolvedCount++
		}
	}

	b.ReconciledBalance = c.Sub(c.Sum(b.TotalReceived, b.PendingRelease, b.Retained), b.Refunds)
	b.TotalBalance = c.Mul(b.ReconciledBalance, c.Add(decimal.One, cfg.UnreconciledRatio))
	b.Unreconciled = c.Sub(b.TotalBalance, b.ReconciledBalance)
	b.DifferencePercentage = c.Percent(b.Unreconciled, b.TotalBalance, 1)
	b.SignificantGap = b.DifferencePercentage.Cmp(cfg.SignificantGapPercent) > 0

	if err := c.Err(); err != nil {
		return domain.BalanceSummary{}, err
	}
	return b, nil
}
